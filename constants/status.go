package constants

// VerdictStatus is the canonical status tag on a spoilage verdict.
type VerdictStatus string

// Stable values (stored verbatim in prediction logs and returned on the wire).
const (
	StatusFresh    VerdictStatus = "Fresh"
	StatusStale    VerdictStatus = "Stale"
	StatusUnsafe   VerdictStatus = "Unsafe"
	StatusSpoiled  VerdictStatus = "Spoiled"
	StatusMolded   VerdictStatus = "Molded"
	StatusStarting VerdictStatus = "Starting" // milk only: spoiling but recoverable by reboiling
	StatusUnknown  VerdictStatus = "Unknown"  // unmapped model output, unsafe by default
)

// Role is the account role for the user store.
type Role string

const (
	RoleUser Role = "user"
	RoleNGO  Role = "ngo"
)

// DefaultRole is assigned on signup when the client omits a role.
const DefaultRole = RoleUser
