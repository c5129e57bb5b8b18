// Package tile implements the tiling & wiring engine (C6): given a
// successful port assignment, it instantiates the grid of primitive
// instances a memory maps onto and wires address decoding, enable masking,
// data fan-out and read-data fan-in between them.
package tile

import (
	"fmt"

	"github.com/daedaleanai/brammap/internal/assign"
	"github.com/daedaleanai/brammap/internal/netlist"
	"github.com/daedaleanai/brammap/internal/rules"
	"github.com/daedaleanai/brammap/log"
)

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func signalAt(s netlist.Signal, i int) netlist.Bit {
	if i >= 0 && i < len(s) {
		return s[i]
	}
	return netlist.Const0
}

// connectPruned drives lhs from rhs bit-for-bit, skipping any lhs position
// that is unconnected in the original netlist (§4.5: "prune positions where
// the memory's sig_data bit is unconnected").
func connectPruned(mod *netlist.Module, lhs, rhs netlist.Signal) {
	var l, r netlist.Signal
	for i := range lhs {
		if lhs[i] == netlist.Open {
			continue
		}
		l = append(l, lhs[i])
		r = append(r, rhs[i])
	}
	if len(l) > 0 {
		mod.Connect(l, r)
	}
}

type readCase struct {
	addrOk netlist.Bit
	data   netlist.Signal
}

// Commit instantiates the grid of bram primitives implied by attempt and
// wires every memory port into it, then removes the original memory cell.
// The caller only calls Commit once the assignment engine has already
// succeeded, so this function never fails: it always fully commits.
func Commit(mod *netlist.Module, cell *netlist.Cell, mem *netlist.MemInfo, bram *rules.BramDesc, attempt *assign.Attempt) {
	slotSize := 1 << uint(bram.Abits)
	gd := ceilDiv(mem.Width, bram.Dbits)
	ga := ceilDiv(mem.Size, slotSize)
	dupCount := attempt.DupCount

	log.Log("Mapping memory %s onto %d x %d x %d instances of bram %s.\n", cell.Name, gd, ga, dupCount, bram.Name)

	readRows := map[int][][]readCase{}
	for i, pi := range attempt.PortInfos {
		if pi.Wrmode == 0 && pi.MappedPort >= 0 {
			readRows[i] = make([][]readCase, gd)
		}
	}

	for dupidx := 0; dupidx < dupCount; dupidx++ {
		for gridA := 0; gridA < ga; gridA++ {
			for gridD := 0; gridD < gd; gridD++ {
				instName := mod.Uniquify(fmt.Sprintf("%s_%s_d%d_a%d_l%d", cell.Name, bram.Name, gridD, gridA, dupidx))
				inst := mod.AddCell(instName, bram.Name)
				clkDriven := map[int]bool{}
				clkpolDriven := map[int]bool{}

				for i := range attempt.PortInfos {
					pi := &attempt.PortInfos[i]
					if pi.DupIdx != dupidx || pi.MappedPort < 0 {
						continue
					}
					prefix := assign.Prefix(*pi)

					if pi.Clocks != 0 && !clkDriven[pi.Clocks] {
						clkDriven[pi.Clocks] = true
						k := (pi.Clocks-1)%attempt.ClocksMax + 1
						inst.SetPort(fmt.Sprintf("CLK%d", k), netlist.Signal{pi.SigClock})
					}

					if pi.Clkpol > 1 && !clkpolDriven[pi.Clkpol] {
						clkpolDriven[pi.Clkpol] = true
						kp := (pi.Clkpol-1)%attempt.ClkpolMax + 1
						polv := 0
						if pi.EffectiveClkpol {
							polv = 1
						}
						inst.SetParam(fmt.Sprintf("CLKPOL%d", kp), polv)
					}

					inst.SetPort(prefix+"ADDR", pi.SigAddr.Extract(0, bram.Abits).ExtendU0(bram.Abits))

					var addrOk netlist.Bit
					if len(pi.SigAddr) > bram.Abits {
						extra := pi.SigAddr.Extract(bram.Abits, len(pi.SigAddr)-bram.Abits)
						cmp := mod.Eq(extra, netlist.ConstSignal(uint64(gridA), len(extra)))
						addrOk = cmp[0]
					}

					if pi.Wrmode == 1 {
						dataSlice := pi.SigData.Extract(gridD*bram.Dbits, bram.Dbits).ExtendU0(bram.Dbits)
						inst.SetPort(prefix+"DATA", dataSlice)

						if pi.Enable != 0 {
							lane := bram.Dbits / pi.Enable
							var enSlice netlist.Signal
							for bit := gridD * bram.Dbits; bit < (gridD+1)*bram.Dbits; bit += lane {
								enSlice = append(enSlice, signalAt(pi.SigEn, bit/lane))
							}
							if addrOk != netlist.Open {
								zero := make(netlist.Signal, len(enSlice))
								for k := range zero {
									zero[k] = netlist.Const0
								}
								enSlice = mod.Mux(zero, enSlice, addrOk)
							}
							inst.SetPort(prefix+"EN", enSlice)
						}
						continue
					}

					dout := mod.AddWire(prefix+"_dout", bram.Dbits)
					inst.SetPort(prefix+"DATA", dout)

					sel := addrOk
					if addrOk != netlist.Open && pi.SigClock != netlist.Open {
						latched := mod.Dff(pi.SigClock, pi.EffectiveClkpol, netlist.Signal{addrOk})
						sel = latched[0]
					}
					readRows[i][gridD] = append(readRows[i][gridD], readCase{addrOk: sel, data: dout})
				}
			}
		}
	}

	for i, pi := range attempt.PortInfos {
		rows, ok := readRows[i]
		if !ok {
			continue
		}

		var full netlist.Signal
		for gridD := 0; gridD < gd; gridD++ {
			cases := rows[gridD]
			var col netlist.Signal
			if len(cases) == 1 && cases[0].addrOk == netlist.Open {
				col = cases[0].data
			} else {
				def := make(netlist.Signal, bram.Dbits)
				var sel netlist.Signal
				var caseSignals []netlist.Signal
				for _, c := range cases {
					sel = append(sel, c.addrOk)
					caseSignals = append(caseSignals, c.data)
				}
				col = mod.Pmux(def, caseSignals, sel)
			}
			full = full.Concat(col)
		}

		connectPruned(mod, mem.ReadPorts[pi.MappedPort].Data, full.ExtendU0(mem.Width))
	}

	mod.RemoveCell(cell.Name)
}
