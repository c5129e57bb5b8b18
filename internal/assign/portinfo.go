// Package assign implements the port-assignment engine (C5): it decides
// which of a memory's write and read ports map onto which physical ports of
// a candidate BRAM descriptor, growing the primitive into duplicate layers
// when one layer cannot supply enough read ports.
package assign

import (
	"fmt"

	"github.com/daedaleanai/brammap/internal/netlist"
	"github.com/daedaleanai/brammap/internal/rules"
)

// PortInfo is a flattened per-port record expanded from a BramDesc, plus the
// mutable mapping state a single attempt fills in. Per Design Notes 9.2 this
// scratch state is kept out of rules.BramDesc so the descriptor stays
// trivially shareable and immutable across attempts.
type PortInfo struct {
	Group, Index, DupIdx                   int
	Wrmode, Enable, Transp, Clocks, Clkpol int

	// MappedPort is -1 until this slot is assigned to a memory port.
	MappedPort int

	SigClock        netlist.Bit
	EffectiveClkpol bool
	SigAddr         netlist.Signal
	SigData         netlist.Signal
	SigEn           netlist.Signal
}

// Flatten expands a BRAM descriptor into one PortInfo per physical port.
func Flatten(b *rules.BramDesc) []PortInfo {
	var out []PortInfo
	groups := b.Groups
	if len(b.Ports) < groups {
		groups = len(b.Ports)
	}
	for g := 0; g < groups; g++ {
		for j := 0; j < b.Ports[g]; j++ {
			out = append(out, PortInfo{
				Group:      g,
				Index:      j,
				DupIdx:     0,
				Wrmode:     rules.At(b.Wrmode, g),
				Enable:     rules.At(b.Enable, g),
				Transp:     rules.At(b.Transp, g),
				Clocks:     rules.At(b.Clocks, g),
				Clkpol:     rules.At(b.Clkpol, g),
				MappedPort: -1,
			})
		}
	}
	return out
}

// GroupLetter renders a port-info's group as the "A", "B", ... prefix of its
// wire names.
func GroupLetter(group int) byte {
	return byte('A' + group)
}

// Label formats a port-info the way diagnostics name it: "A1" for a port in
// the first layer, "A1.2" for the same port in the second duplicate layer.
func Label(pi PortInfo) string {
	if pi.DupIdx > 0 {
		return fmt.Sprintf("%c%d.%d", GroupLetter(pi.Group), pi.Index+1, pi.DupIdx+1)
	}
	return fmt.Sprintf("%c%d", GroupLetter(pi.Group), pi.Index+1)
}

// Prefix returns the port-name prefix ("A1") used to build the primitive's
// port names (<P><N>EN etc.), independent of duplicate layer.
func Prefix(pi PortInfo) string {
	return fmt.Sprintf("%c%d", GroupLetter(pi.Group), pi.Index+1)
}
