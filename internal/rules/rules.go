// Package rules implements the deterministic food-safety overrides that take
// precedence over classifier output. Each food defines an ordered list of
// independently sufficient checks; any firing rule means "spoiled" regardless
// of what the model would have predicted.
package rules

// Rule is one deterministic spoilage check over a food observation. Reason
// produces the human-readable explanation when the rule fires.
type Rule[O any] struct {
	Name   string
	Fires  func(O) bool
	Reason func(O) string
}

// FirstMatch evaluates rules in order and returns the first firing reason.
// Most foods present a single reason and short-circuit here.
func FirstMatch[O any](rs []Rule[O], o O) (string, bool) {
	for _, r := range rs {
		if r.Fires(o) {
			return r.Reason(o), true
		}
	}
	return "", false
}

// Reasons evaluates every rule and collects all firing reasons in order.
// Dal surfaces every simultaneous reason instead of short-circuiting; this is
// a presentation choice, not a correctness difference, since each rule is
// independently sufficient.
func Reasons[O any](rs []Rule[O], o O) []string {
	var out []string
	for _, r := range rs {
		if r.Fires(o) {
			out = append(out, r.Reason(o))
		}
	}
	return out
}
