package props

import (
	"testing"

	"github.com/daedaleanai/brammap/internal/netlist"
	"github.com/daedaleanai/brammap/internal/rules"
)

func TestBaseProperties(t *testing.T) {
	mem := &netlist.MemInfo{
		Size: 16, Abits: 4, Width: 8,
		WritePorts: make([]netlist.WritePort, 1),
		ReadPorts:  make([]netlist.ReadPort, 1),
	}
	base := Base(mem)

	if v := base.Get(Words); v != 16 {
		t.Fatalf("unexpected words: %d", v)
	}
	if v := base.Get(Bits); v != 128 {
		t.Fatalf("unexpected bits: %d", v)
	}
	if v := base.Get(Ports); v != 2 {
		t.Fatalf("unexpected ports: %d", v)
	}
}

func TestWithWasteExactFit(t *testing.T) {
	mem := &netlist.MemInfo{Size: 16, Abits: 4, Width: 8}
	base := Base(mem)
	bram := &rules.BramDesc{Abits: 4, Dbits: 8}

	withWaste := WithWaste(base, bram)
	if v := withWaste.Get(Waste); v != 0 {
		t.Fatalf("expected zero waste for exact fit, got %d", v)
	}
}

func TestWithWastePartialFit(t *testing.T) {
	// memory has 64 words at 8 bits wide, bram slot is 16 words x 4 bits wide.
	mem := &netlist.MemInfo{Size: 64, Abits: 6, Width: 8}
	base := Base(mem)
	bram := &rules.BramDesc{Abits: 4, Dbits: 4}

	withWaste := WithWaste(base, bram)
	// 64 mod 16 == 0 -> awaste 0; 8 mod 4 == 0 -> dwaste 0 -> waste 0
	if v := withWaste.Get(Waste); v != 0 {
		t.Fatalf("expected zero waste when both dimensions divide evenly, got %d", v)
	}
}

func TestWithWasteUnevenFit(t *testing.T) {
	// 20 words needs a bram with abits=4 (16 words per slot): 20 % 16 = 4, awaste = 16-4=12
	mem := &netlist.MemInfo{Size: 20, Abits: 5, Width: 3}
	base := Base(mem)
	bram := &rules.BramDesc{Abits: 4, Dbits: 4}

	withWaste := WithWaste(base, bram)
	if v := withWaste.Get(Awaste); v != 12 {
		t.Fatalf("unexpected awaste: %d", v)
	}
	// 3 mod 4 = 3, dwaste = 4-3=1
	if v := withWaste.Get(Dwaste); v != 1 {
		t.Fatalf("unexpected dwaste: %d", v)
	}
	// waste = awaste*dbits + dwaste*2^abits - awaste*dwaste = 12*4 + 1*16 - 12*1 = 48+16-12=52
	if v := withWaste.Get(Waste); v != 52 {
		t.Fatalf("unexpected waste: %d", v)
	}
}
