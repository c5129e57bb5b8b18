package assign

import (
	"testing"

	"github.com/daedaleanai/brammap/internal/netlist"
	"github.com/daedaleanai/brammap/internal/rules"
)

// r1 is the descriptor used throughout §8's scenarios: one write port, one
// read port, shared clock group.
func r1() *rules.BramDesc {
	return &rules.BramDesc{
		Name: "R1", Abits: 4, Dbits: 8, Groups: 2,
		Ports:  []int{1, 1},
		Wrmode: []int{1, 0},
		Enable: []int{1, 0},
		Clocks: []int{1, 1},
		Clkpol: []int{1, 1},
	}
}

func constEn(width int) netlist.Signal {
	out := make(netlist.Signal, width)
	for i := range out {
		out[i] = netlist.Const1
	}
	return out
}

func TestAssignSimpleFit(t *testing.T) {
	mem := &netlist.MemInfo{
		Size: 16, Abits: 4, Width: 8,
		WritePorts: []netlist.WritePort{
			{ClkEnable: true, ClkPolarity: true, Clk: "clk.0", Addr: netlist.Bus("wa", 4), Data: netlist.Bus("wd", 8), En: constEn(8)},
		},
		ReadPorts: []netlist.ReadPort{
			{ClkEnable: true, ClkPolarity: true, Clk: "clk.0", Addr: netlist.Bus("ra", 4), Data: netlist.Bus("rd", 8)},
		},
	}

	attempt, err := Assign(r1(), mem)
	if err != nil {
		t.Fatalf("unexpected mapping failure: %s", err)
	}
	if attempt.DupCount != 1 {
		t.Fatalf("expected dup_count=1, got %d", attempt.DupCount)
	}
	for _, pi := range attempt.PortInfos {
		if pi.MappedPort < 0 {
			t.Fatalf("port %s left unmapped", Label(pi))
		}
	}
}

func TestAssignReadDuplication(t *testing.T) {
	mem := &netlist.MemInfo{
		Size: 16, Abits: 4, Width: 8,
		WritePorts: []netlist.WritePort{
			{ClkEnable: true, ClkPolarity: true, Clk: "clk.0", Addr: netlist.Bus("wa", 4), Data: netlist.Bus("wd", 8), En: constEn(8)},
		},
		ReadPorts: []netlist.ReadPort{
			{ClkEnable: true, ClkPolarity: true, Clk: "clk.0", Addr: netlist.Bus("ra0", 4), Data: netlist.Bus("rd0", 8)},
			{ClkEnable: true, ClkPolarity: true, Clk: "clk.0", Addr: netlist.Bus("ra1", 4), Data: netlist.Bus("rd1", 8)},
			{ClkEnable: true, ClkPolarity: true, Clk: "clk.0", Addr: netlist.Bus("ra2", 4), Data: netlist.Bus("rd2", 8)},
		},
	}

	attempt, err := Assign(r1(), mem)
	if err != nil {
		t.Fatalf("unexpected mapping failure: %s", err)
	}
	if attempt.DupCount != 3 {
		t.Fatalf("expected dup_count=3, got %d", attempt.DupCount)
	}

	writeClocks := map[int]bool{}
	for _, pi := range attempt.PortInfos {
		if pi.Wrmode == 1 {
			writeClocks[pi.Clocks] = true
			if pi.MappedPort != 0 {
				t.Fatalf("expected every write layer to map to memory write port 0, got %d", pi.MappedPort)
			}
		}
	}
	if len(writeClocks) != 1 {
		t.Fatalf("expected the write port to keep a single shared clock id across layers, got %v", writeClocks)
	}
}

func TestAssignClockIncompatibility(t *testing.T) {
	mem := &netlist.MemInfo{
		Size: 16, Abits: 4, Width: 8,
		WritePorts: []netlist.WritePort{
			{ClkEnable: true, ClkPolarity: true, Clk: "clkA.0", Addr: netlist.Bus("wa0", 4), Data: netlist.Bus("wd0", 8), En: constEn(8)},
			{ClkEnable: true, ClkPolarity: true, Clk: "clkB.0", Addr: netlist.Bus("wa1", 4), Data: netlist.Bus("wd1", 8), En: constEn(8)},
		},
	}

	bram := r1()
	bram.Ports = []int{2, 1}
	bram.Wrmode = []int{1, 0}
	bram.Enable = []int{1, 0}
	bram.Clocks = []int{1, 1}
	bram.Clkpol = []int{1, 1}

	_, err := Assign(bram, mem)
	if err == nil {
		t.Fatal("expected a mapping failure for incompatible write clocks")
	}
	if _, ok := err.(*MappingFailure); !ok {
		t.Fatalf("expected a *MappingFailure, got %T: %s", err, err)
	}
}

func TestAssignEnableStructureMismatch(t *testing.T) {
	en := netlist.Signal{
		netlist.Const1, netlist.Const1, netlist.Const1, netlist.Const0,
		netlist.Const1, netlist.Const1, netlist.Const1, netlist.Const1,
	}
	mem := &netlist.MemInfo{
		Size: 16, Abits: 4, Width: 8,
		WritePorts: []netlist.WritePort{
			{ClkEnable: true, ClkPolarity: true, Clk: "clk.0", Addr: netlist.Bus("wa", 4), Data: netlist.Bus("wd", 8), En: en},
		},
	}

	bram := r1()
	bram.Enable = []int{2, 0}

	_, err := Assign(bram, mem)
	if err == nil {
		t.Fatal("expected a mapping failure for an incompatible enable structure")
	}
	if _, ok := err.(*MappingFailure); !ok {
		t.Fatalf("expected a *MappingFailure, got %T: %s", err, err)
	}
}
