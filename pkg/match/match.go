// Package match binds free-text answers to discrete option labels.
//
// The rule is symmetric case-insensitive containment: a label matches an
// answer when either string, lower-cased, contains the other. There is no
// scoring. When several labels satisfy the rule the first in control order
// wins, so overlapping labels such as "Yes" and "Yes, definitely" can bind
// the shorter one even when the answer meant the longer.
package match

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Match reports whether label and answer contain one another, ignoring case.
// An empty string is contained in every string, so an empty label or answer
// always matches.
func Match(label, answer string) bool {
	l := lower(label)
	a := lower(answer)
	return strings.Contains(l, a) || strings.Contains(a, l)
}

// Any reports whether label matches at least one of answers.
func Any(label string, answers []string) bool {
	for _, a := range answers {
		if Match(label, a) {
			return true
		}
	}
	return false
}

// First returns the index of the first label matching answer, or -1.
func First(labels []string, answer string) int {
	for i, l := range labels {
		if Match(l, answer) {
			return i
		}
	}
	return -1
}

// All returns the indices of every label that matches any of answers, in
// label order.
func All(labels []string, answers []string) []int {
	out := make([]int, 0)
	for i, l := range labels {
		if Any(l, answers) {
			out = append(out, i)
		}
	}
	return out
}

// lower uses a fresh Caser per call because cases.Caser is not safe for
// concurrent use.
func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}
