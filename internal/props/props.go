// Package props implements the property calculator (C3): the named
// integer properties a match rule's min/max limits are checked against.
package props

import (
	"github.com/daedaleanai/brammap/internal/netlist"
	"github.com/daedaleanai/brammap/internal/rules"
	"github.com/daedaleanai/brammap/util"
)

// Base property names, computed once per memory regardless of candidate.
const (
	Words  = "words"
	Bits   = "bits"
	Abits  = "abits"
	Dbits  = "dbits"
	Ports  = "ports"
	Wports = "wports"
	Rports = "rports"
)

// Per-candidate waste property names, computed once per (memory, bram) pair.
const (
	Awaste = "awaste"
	Dwaste = "dwaste"
	Waste  = "waste"
)

// Base computes the properties of a memory that do not depend on any
// candidate BRAM descriptor (§4.2).
func Base(mem *netlist.MemInfo) util.OrderedMap[string, int] {
	m := util.NewOrderedMap[string, int]()
	m.AllowOverrides()

	words := mem.Size
	dbits := mem.Width
	wp := len(mem.WritePorts)
	rp := len(mem.ReadPorts)

	m.Insert(Words, words)
	m.Insert(Bits, words*dbits)
	m.Insert(Abits, mem.Abits)
	m.Insert(Dbits, dbits)
	m.Insert(Wports, wp)
	m.Insert(Rports, rp)
	m.Insert(Ports, wp+rp)
	return m
}

// pow2 returns 2^n for n >= 0.
func pow2(n int) int {
	return 1 << uint(n)
}

// WithWaste returns a copy of base with the awaste/dwaste/waste properties
// added for a specific candidate BRAM descriptor (§4.2).
func WithWaste(base util.OrderedMap[string, int], bram *rules.BramDesc) util.OrderedMap[string, int] {
	out := util.NewOrderedMap[string, int]()
	out.AllowOverrides()
	for _, e := range base.Entries() {
		out.Insert(e.Key, e.Value)
	}

	words := out.Get(Words)
	dbits := out.Get(Dbits)

	slotSize := pow2(bram.Abits)
	aover := words % slotSize
	awaste := 0
	if aover != 0 {
		awaste = slotSize - aover
	}

	dover := dbits % bram.Dbits
	dwaste := 0
	if dover != 0 {
		dwaste = bram.Dbits - dover
	}

	waste := awaste*bram.Dbits + dwaste*slotSize - awaste*dwaste

	out.Insert(Awaste, awaste)
	out.Insert(Dwaste, dwaste)
	out.Insert(Waste, waste)
	return out
}
