// Package resolver maps free text to a known unit name.
package resolver

import "strings"

// Resolver matches text against an ordered list of unit names.
type Resolver struct {
	names []string
}

// New returns a Resolver checking names in the given order. Empty names are skipped.
func New(names ...string) *Resolver {
	r := &Resolver{}
	for _, n := range names {
		if n != "" {
			r.names = append(r.names, n)
		}
	}
	return r
}

// Resolve returns the first known name contained in text. Matching is
// case-sensitive.
func (r *Resolver) Resolve(text string) (string, bool) {
	for _, n := range r.names {
		if strings.Contains(text, n) {
			return n, true
		}
	}
	return "", false
}

// Names returns the known names in match order.
func (r *Resolver) Names() []string { return append([]string(nil), r.names...) }
