// Package rules holds the in-memory representation of a rules file (C1) and
// its parser (C2): BRAM descriptors and the ordered list of match rules used
// to pick one for a given memory.
package rules

// BramDesc describes one available BRAM primitive. It is immutable once
// parsed and is shared read-only by every mapping attempt; per Design Notes
// 9.2 the mutable per-attempt mapping state lives in assign.PortInfo
// instead, so this descriptor never needs to be copied.
type BramDesc struct {
	Name   string
	Init   bool
	Abits  int
	Dbits  int
	Groups int

	// Ports, Wrmode, Enable, Transp, Clocks, Clkpol are indexed 0..Groups-1;
	// a missing entry (index >= len(vector)) defaults to 0.
	Ports  []int
	Wrmode []int
	Enable []int
	Transp []int
	Clocks []int
	Clkpol []int
}

// At returns vec[i], or 0 if i is out of range, per the "missing entry
// defaults to 0" invariant of §3.
func At(vec []int, i int) int {
	if i >= 0 && i < len(vec) {
		return vec[i]
	}
	return 0
}

// Limit is one min/max threshold in a match rule, keeping declaration order
// so that dumping a rule reproduces it (testable property 7) and so that
// diagnostics name limits in the order the user wrote them.
type Limit struct {
	Prop  string
	Value int
}

// MatchRule is one `match` block: a descriptor name plus ordered min/max
// property thresholds.
type MatchRule struct {
	Name       string
	MinLimits  []Limit
	MaxLimits  []Limit
}

// MinLimit returns the min limit for prop and whether it was set.
func (r MatchRule) MinLimit(prop string) (int, bool) {
	for _, l := range r.MinLimits {
		if l.Prop == prop {
			return l.Value, true
		}
	}
	return 0, false
}

// MaxLimit returns the max limit for prop and whether it was set.
func (r MatchRule) MaxLimit(prop string) (int, bool) {
	for _, l := range r.MaxLimits {
		if l.Prop == prop {
			return l.Value, true
		}
	}
	return 0, false
}

// Library is the rules model (C1): the full set of BRAM descriptors, keyed
// by name, plus the ordered list of match rules to try. Matches are tried in
// the order they were declared (§4.1).
type Library struct {
	Brams   map[string]*BramDesc
	Matches []MatchRule
}

// NewLibrary returns an empty rules library.
func NewLibrary() *Library {
	return &Library{Brams: map[string]*BramDesc{}}
}

// Bram looks up a descriptor by name.
func (l *Library) Bram(name string) (*BramDesc, bool) {
	b, ok := l.Brams[name]
	return b, ok
}
