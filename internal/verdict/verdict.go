// Package verdict defines the unified spoilage judgment returned to callers
// and the composition policy that produces it: a firing safety rule strictly
// dominates the classifier; they are never blended.
package verdict

import (
	"fmt"
	"strings"

	"github.com/anna-sampada/spoilage-backend/constants"
)

// Verdict is the sole artifact returned to the caller for a prediction.
// IsSafe is tri-state: nil communicates "safe only under a stated condition"
// (milk's reboil refinement) and marshals as JSON null.
type Verdict struct {
	Status         constants.VerdictStatus `json:"status"`
	Message        string                  `json:"message"`
	IsSafe         *bool                   `json:"is_safe"`
	Confidence     string                  `json:"confidence,omitempty"`
	PredictionCode *int                    `json:"prediction_code,omitempty"`
}

// Safe is a convenience for the tri-state safety flag.
func Safe(v bool) *bool { return &v }

// Code is a convenience for the optional prediction code.
func Code(c int) *int { return &c }

// RuleConfidence is the confidence reported for rule-driven verdicts; rules
// are authoritative, not probabilistic.
const RuleConfidence = "100.00%"

// FormatConfidence renders a 0..1 probability as a percentage with two
// decimals, the format every ML-sourced message uses.
func FormatConfidence(p float64) string {
	return fmt.Sprintf("%.2f%%", p*100)
}

// FromRule composes the verdict for a fired safety rule: terminal status,
// never safe, reasons in the message, full confidence.
func FromRule(status constants.VerdictStatus, prefix string, reasons ...string) *Verdict {
	msg := prefix
	if len(reasons) > 0 {
		msg = fmt.Sprintf("%s: %s", prefix, strings.Join(reasons, " "))
	}
	return &Verdict{
		Status:     status,
		Message:    msg,
		IsSafe:     Safe(false),
		Confidence: RuleConfidence,
	}
}

// Outcome is one entry of a food's class-index presentation table.
type Outcome struct {
	Status  constants.VerdictStatus
	Message string
	IsSafe  bool
}

// Unmapped is the unsafe-by-default presentation for class indices a food's
// table does not know.
func Unmapped() *Verdict {
	return &Verdict{
		Status:  constants.StatusUnknown,
		Message: "🚫 Unknown prediction",
		IsSafe:  Safe(false),
	}
}
