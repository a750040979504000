// Package rules turns a (rainfall, temperature) reading into a climate risk label and a
// crop advisory. Both are ordered rule tables evaluated first-match-wins: the table order is
// authoritative, not the specificity of a rule.
package rules

// Predicate reports whether a rule applies to a rainfall (mm) and temperature (°C) reading.
type Predicate func(rainfallMM, tempC float64) bool

// Rule pairs a predicate with the label produced when it is the first to match.
type Rule[L any] struct {
	Name  string
	Match Predicate
	Label L
}

// FirstMatch evaluates rules in order and returns the label of the first matching rule.
// ok is false only when no rule matches.
func FirstMatch[L any](rules []Rule[L], rainfallMM, tempC float64) (label L, ok bool) {
	for _, r := range rules {
		if r.Match(rainfallMM, tempC) {
			return r.Label, true
		}
	}
	return label, false
}

func always(float64, float64) bool { return true }
