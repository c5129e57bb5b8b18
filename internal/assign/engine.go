package assign

import (
	"fmt"

	"github.com/daedaleanai/brammap/internal/netlist"
	"github.com/daedaleanai/brammap/internal/rules"
	"github.com/daedaleanai/brammap/log"
	"github.com/daedaleanai/brammap/util"
)

// ClockDomain is the (signal, polarity) pair bound to a clocks-group id.
type ClockDomain struct {
	Sig     netlist.Bit
	Posedge bool
}

// MappingFailure is a local, non-fatal failure of one descriptor against one
// memory (§7): the caller records the descriptor in a per-memory blacklist
// and moves on to the next match rule.
type MappingFailure struct {
	Reason string
}

func (e *MappingFailure) Error() string { return e.Reason }

func fail(format string, a ...interface{}) error {
	return &MappingFailure{Reason: fmt.Sprintf(format, a...)}
}

// Attempt is the result of a successful port assignment: the fully-mapped
// port-info vector (possibly spanning several duplicate layers), plus the
// clocks/clkpol id ceilings needed to fold a duplicate layer's shifted ids
// back onto the CLK pin and CLKPOL parameter space during tiling. Each port-info already
// carries its own resolved clock signal and polarity (SigClock,
// EffectiveClkpol), so the clock-domain/polarity tables themselves are
// scratch state local to the assignment loop, not part of the result.
type Attempt struct {
	PortInfos []PortInfo
	ClocksMax int
	ClkpolMax int
	DupCount  int
}

func cloneClockDomains(m util.OrderedMap[int, ClockDomain]) util.OrderedMap[int, ClockDomain] {
	out := util.NewOrderedMap[int, ClockDomain]()
	out.AllowOverrides()
	for _, e := range m.Entries() {
		out.Insert(e.Key, e.Value)
	}
	return out
}

func cloneClockPolarities(m util.OrderedMap[int, bool]) util.OrderedMap[int, bool] {
	out := util.NewOrderedMap[int, bool]()
	out.AllowOverrides()
	for _, e := range m.Entries() {
		out.Insert(e.Key, e.Value)
	}
	return out
}

// stats computes the pre-pass statistics of §4.4.1.
func stats(portInfos []PortInfo) (clocksMax, clkpolMax int, clocksWrPorts, clkpolWrPorts map[int]bool) {
	clocksWrPorts = map[int]bool{}
	clkpolWrPorts = map[int]bool{}
	for _, pi := range portInfos {
		if pi.Wrmode == 1 {
			clocksWrPorts[pi.Clocks] = true
			if pi.Clkpol > 1 {
				clkpolWrPorts[pi.Clkpol] = true
			}
		}
		if pi.Clocks > clocksMax {
			clocksMax = pi.Clocks
		}
		if pi.Clkpol > clkpolMax {
			clkpolMax = pi.Clkpol
		}
	}
	return
}

func at(s netlist.Signal, i int) netlist.Bit {
	if i >= 0 && i < len(s) {
		return s[i]
	}
	return netlist.Open
}

// deriveEnable extracts the per-lane write-enable vector for a candidate
// port, or reports incompatibility (§4.4.2 rule 4). A primitive port with no
// masked write (Enable == 0) is only compatible if the memory's per-bit
// enable is constantly asserted across the whole port width.
func deriveEnable(pi PortInfo, en netlist.Signal, bram *rules.BramDesc, width int) (netlist.Signal, bool) {
	var sigEn netlist.Signal
	lastEnBit := netlist.Const1
	for i := 0; i < width; i++ {
		if pi.Enable != 0 && i%(bram.Dbits/pi.Enable) == 0 {
			lastEnBit = at(en, i)
			sigEn = append(sigEn, lastEnBit)
		}
		if lastEnBit != at(en, i) {
			return nil, false
		}
	}
	return sigEn, true
}

func writeClockDomain(wp netlist.WritePort) ClockDomain {
	if !wp.ClkEnable {
		return ClockDomain{Sig: netlist.Const1, Posedge: false}
	}
	return ClockDomain{Sig: wp.Clk, Posedge: wp.ClkPolarity}
}

func readClockDomain(rp netlist.ReadPort) ClockDomain {
	if !rp.ClkEnable {
		return ClockDomain{Sig: netlist.Const1, Posedge: false}
	}
	return ClockDomain{Sig: rp.Clk, Posedge: rp.ClkPolarity}
}

// checkClockCompat applies rules 1-3 of §4.4.2 (shared by read ports, minus
// rule 4 which is write-only).
func checkClockCompat(pi PortInfo, clken bool, dom ClockDomain, clockDomains util.OrderedMap[int, ClockDomain], clockPolarities util.OrderedMap[int, bool]) (string, bool) {
	if clken {
		if pi.Clocks == 0 {
			return "incompatible clock type", false
		}
		if existing, ok := clockDomains.Lookup(pi.Clocks); ok && existing != dom {
			return "in a different clock domain", false
		}
		if existingPol, ok := clockPolarities.Lookup(pi.Clkpol); ok && existingPol != dom.Posedge {
			return "incompatible clock polarity", false
		}
	} else if pi.Clocks != 0 {
		return "incompatible clock type", false
	}
	return "", true
}

func bindClock(pi *PortInfo, clken bool, dom ClockDomain, clockDomains *util.OrderedMap[int, ClockDomain], clockPolarities *util.OrderedMap[int, bool]) {
	if clken {
		clockDomains.Insert(pi.Clocks, dom)
		clockPolarities.Insert(pi.Clkpol, dom.Posedge)
		pi.SigClock = dom.Sig
		pi.EffectiveClkpol = dom.Posedge
	}
}

// assignWritePorts maps every memory write port onto a primitive write-port
// slot in order (§4.4.2). The scan cursor is shared and monotonic across
// write ports, matching the reference implementation: once a slot is
// consumed it is never reconsidered for an earlier-rejecting write port.
func assignWritePorts(portInfos []PortInfo, bram *rules.BramDesc, mem *netlist.MemInfo, clockDomains util.OrderedMap[int, ClockDomain], clockPolarities util.OrderedMap[int, bool]) error {
	cursor := 0
	for wi, wp := range mem.WritePorts {
		dom := writeClockDomain(wp)
		log.Debug("Write port #%d is in clock domain %s%s.\n", wi, polSign(dom.Posedge), clockLabel(wp.ClkEnable, dom.Sig))

		mapped := false
		for ; cursor < len(portInfos); cursor++ {
			pi := &portInfos[cursor]
			if pi.Wrmode != 1 || pi.MappedPort >= 0 {
				continue
			}

			if reason, ok := checkClockCompat(*pi, wp.ClkEnable, dom, clockDomains, clockPolarities); !ok {
				log.Debug("Bram port %s %s.\n", Prefix(*pi), reason)
				continue
			}

			sigEn, ok := deriveEnable(*pi, wp.En, bram, mem.Width)
			if !ok {
				log.Debug("Bram port %s has incompatible enable structure.\n", Prefix(*pi))
				continue
			}

			log.Debug("Mapped to bram port %s.\n", Prefix(*pi))
			pi.MappedPort = wi
			bindClock(pi, wp.ClkEnable, dom, &clockDomains, &clockPolarities)
			pi.SigEn = sigEn
			pi.SigAddr = wp.Addr
			pi.SigData = wp.Data

			cursor++
			mapped = true
			break
		}

		if !mapped {
			return fail("failed to map write port #%d", wi)
		}
	}
	return nil
}

func polSign(posedge bool) string {
	if posedge {
		return ""
	}
	return "!"
}

func clockLabel(clken bool, sig netlist.Bit) string {
	if !clken {
		return "~async~"
	}
	return string(sig)
}

// duplicatePortInfos appends a new duplicate layer, cloning every port-info
// currently in the newest layer. Read-mode ports are reset to unmapped
// first, so the appended copy (and the original) both start fresh; write
// -mode ports keep their existing mapping so the write pin is replicated
// identically into every layer (§4.4.3).
func duplicatePortInfos(portInfos []PortInfo, dupCount, clocksMax, clkpolMax int, clocksWrPorts, clkpolWrPorts map[int]bool) []PortInfo {
	out := make([]PortInfo, 0, len(portInfos)*2)
	for i := range portInfos {
		pi := &portInfos[i]
		if pi.Wrmode == 0 {
			pi.MappedPort = -1
			pi.SigClock = netlist.Open
			pi.EffectiveClkpol = false
			pi.SigAddr = nil
			pi.SigData = nil
			pi.SigEn = nil
		}
		out = append(out, *pi)

		if pi.DupIdx == dupCount-1 {
			dup := *pi
			if dup.Clocks != 0 && !clocksWrPorts[dup.Clocks] {
				dup.Clocks += clocksMax
			}
			if dup.Clkpol > 1 && !clkpolWrPorts[dup.Clkpol] {
				dup.Clkpol += clkpolMax
			}
			dup.DupIdx++
			out = append(out, dup)
		}
	}
	return out
}

// tryMapReadPort scans portInfos from the top for a compatible, unmapped
// read-mode slot for memory read port ri, binding it on success.
func tryMapReadPort(portInfos []PortInfo, ri int, rp netlist.ReadPort, clockDomains util.OrderedMap[int, ClockDomain], clockPolarities util.OrderedMap[int, bool]) bool {
	dom := readClockDomain(rp)
	log.Debug("Read port #%d is in clock domain %s%s.\n", ri, polSign(dom.Posedge), clockLabel(rp.ClkEnable, dom.Sig))

	for i := range portInfos {
		pi := &portInfos[i]
		if pi.Wrmode != 0 || pi.MappedPort >= 0 {
			continue
		}

		if reason, ok := checkClockCompat(*pi, rp.ClkEnable, dom, clockDomains, clockPolarities); !ok {
			log.Debug("Bram port %s %s.\n", Label(*pi), reason)
			continue
		}

		log.Debug("Mapped to bram port %s.\n", Label(*pi))
		pi.MappedPort = ri
		bindClock(pi, rp.ClkEnable, dom, &clockDomains, &clockPolarities)
		pi.SigAddr = rp.Addr
		pi.SigData = rp.Data
		return true
	}
	return false
}

// Assign runs the full port-assignment engine (C5) against one candidate
// BRAM descriptor: write ports first, then read ports, duplicating the
// primitive as needed to absorb every read port.
func Assign(bram *rules.BramDesc, mem *netlist.MemInfo) (*Attempt, error) {
	portInfos := Flatten(bram)
	clocksMax, clkpolMax, clocksWrPorts, clkpolWrPorts := stats(portInfos)

	clockDomains := util.NewOrderedMap[int, ClockDomain]()
	clockDomains.AllowOverrides()
	clockPolarities := util.NewOrderedMap[int, bool]()
	clockPolarities.AllowOverrides()
	clockPolarities.Insert(0, false)
	clockPolarities.Insert(1, true)

	if err := assignWritePorts(portInfos, bram, mem, clockDomains, clockPolarities); err != nil {
		return nil, err
	}

	snapshotDomains := cloneClockDomains(clockDomains)
	snapshotPolarities := cloneClockPolarities(clockPolarities)

	dupCount := 1
	growCursor := -1
	tryGrowingMore := false

	for {
		retry := false
		for ri, rp := range mem.ReadPorts {
			if tryMapReadPort(portInfos, ri, rp, clockDomains, clockPolarities) {
				if growCursor < ri {
					growCursor = ri
					tryGrowingMore = true
				}
				continue
			}

			log.Debug("Failed to map read port #%d.\n", ri)
			if !tryGrowingMore {
				return nil, fail("failed to map read port #%d", ri)
			}

			log.Debug("Growing more read ports by duplicating bram cells.\n")
			portInfos = duplicatePortInfos(portInfos, dupCount, clocksMax, clkpolMax, clocksWrPorts, clkpolWrPorts)
			clockDomains = cloneClockDomains(snapshotDomains)
			clockPolarities = cloneClockPolarities(snapshotPolarities)
			dupCount++
			tryGrowingMore = false
			retry = true
			break
		}
		if !retry {
			break
		}
	}

	return &Attempt{
		PortInfos: portInfos,
		ClocksMax: clocksMax,
		ClkpolMax: clkpolMax,
		DupCount:  dupCount,
	}, nil
}
