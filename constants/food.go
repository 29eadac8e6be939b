package constants

// FoodType identifies one of the supported food domains.
type FoodType string

// Stable values (store these exact strings in DB).
const (
	FoodRice   FoodType = "Rice"
	FoodMilk   FoodType = "Milk"
	FoodPaneer FoodType = "Paneer"
	FoodDal    FoodType = "Dal"
	FoodRoti   FoodType = "Roti"
)

// AllFoods lists every food type with a prediction endpoint.
var AllFoods = []FoodType{FoodRice, FoodMilk, FoodPaneer, FoodDal, FoodRoti}

func (f FoodType) String() string { return string(f) }
