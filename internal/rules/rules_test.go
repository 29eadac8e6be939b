package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type obs struct {
	Hours float64
	Smell string
}

var testRules = []Rule[obs]{
	{
		Name:   "too_old",
		Fires:  func(o obs) bool { return o.Hours > 24 },
		Reason: func(obs) string { return "held too long" },
	},
	{
		Name:   "bad_smell",
		Fires:  func(o obs) bool { return o.Smell == "Foul" },
		Reason: func(obs) string { return "foul smell" },
	},
}

func TestFirstMatch(t *testing.T) {
	tests := []struct {
		name       string
		in         obs
		wantReason string
		wantFired  bool
	}{
		{"nothing fires", obs{Hours: 2, Smell: "Normal"}, "", false},
		{"first rule fires", obs{Hours: 30, Smell: "Normal"}, "held too long", true},
		{"second rule fires", obs{Hours: 2, Smell: "Foul"}, "foul smell", true},
		{"order decides when both fire", obs{Hours: 30, Smell: "Foul"}, "held too long", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reason, fired := FirstMatch(testRules, tt.in)
			assert.Equal(t, tt.wantFired, fired)
			assert.Equal(t, tt.wantReason, reason)
		})
	}
}

func TestReasonsAccumulate(t *testing.T) {
	got := Reasons(testRules, obs{Hours: 30, Smell: "Foul"})
	assert.Equal(t, []string{"held too long", "foul smell"}, got)

	assert.Empty(t, Reasons(testRules, obs{Hours: 1, Smell: "Normal"}))
}
