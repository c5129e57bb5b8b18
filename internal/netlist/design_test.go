package netlist

import "testing"

func TestAddCellAndRemoveCell(t *testing.T) {
	m := NewModule("top")
	m.AddCell("mem0", MemCellType)
	m.AddCell("bram0", "R1")

	if len(m.Cells()) != 2 {
		t.Fatalf("expected 2 cells, got %d", len(m.Cells()))
	}

	m.RemoveCell("mem0")
	cells := m.Cells()
	if len(cells) != 1 || cells[0].Name != "bram0" {
		t.Fatalf("unexpected cells after removal: %+v", cells)
	}
	if _, ok := m.Cell("mem0"); ok {
		t.Fatal("expected mem0 to be gone")
	}
}

func TestUniquifyAvoidsCollisions(t *testing.T) {
	m := NewModule("top")
	m.AddCell("eq", "$eq")

	name := m.Uniquify("eq")
	if name == "eq" {
		t.Fatal("expected a collision-avoiding name distinct from an already-used one")
	}
	if _, used := m.Cell(name); used {
		t.Fatalf("uniquify returned a name already in use: %s", name)
	}
}

func TestAddWireReturnsMatchingBus(t *testing.T) {
	m := NewModule("top")
	sig := m.AddWire("addr_ok", 3)
	if !sig.Equal(Bus("addr_ok", 3)) {
		t.Fatalf("expected AddWire to return a bus over its own name, got %v", sig)
	}
}

func TestEqSynthesizesComparator(t *testing.T) {
	m := NewModule("top")
	a := Bus("a", 4)
	b := ConstSignal(3, 4)
	out := m.Eq(a, b)

	if len(out) != 1 {
		t.Fatalf("expected a single-bit comparator output, got width %d", len(out))
	}

	cells := m.Cells()
	if len(cells) != 1 || cells[0].Type != "$eq" {
		t.Fatalf("expected exactly one $eq cell, got %+v", cells)
	}
	if !cells[0].Ports["A"].Equal(a) {
		t.Fatalf("unexpected A port: %v", cells[0].Ports["A"])
	}
}

func TestMuxSelectsByPolarity(t *testing.T) {
	m := NewModule("top")
	a := Bus("a", 2)
	b := Bus("b", 2)
	out := m.Mux(a, b, Const1)

	cells := m.Cells()
	if len(cells) != 1 || cells[0].Type != "$mux" {
		t.Fatalf("expected exactly one $mux cell, got %+v", cells)
	}
	if !cells[0].Ports["S"].Equal(Signal{Const1}) {
		t.Fatalf("unexpected select port: %v", cells[0].Ports["S"])
	}
	if len(out) != 2 {
		t.Fatalf("expected mux output width to match operand width, got %d", len(out))
	}
}

func TestDffRecordsClockPolarity(t *testing.T) {
	m := NewModule("top")
	d := Bus("d", 1)
	m.Dff(WireBit("clk", 0), false, d)

	cells := m.Cells()
	if len(cells) != 1 || cells[0].Type != "$dff" {
		t.Fatalf("expected exactly one $dff cell, got %+v", cells)
	}
	if cells[0].Params["CLK_POLARITY"] != 0 {
		t.Fatalf("expected negedge dff to record CLK_POLARITY=0, got %d", cells[0].Params["CLK_POLARITY"])
	}
}

func TestSelectedModulesFollowsOrder(t *testing.T) {
	d := NewDesign()
	d.Modules["a"] = NewModule("a")
	d.Modules["b"] = NewModule("b")

	got := d.SelectedModules([]string{"b", "a"})
	if len(got) != 2 || got[0].Name != "b" || got[1].Name != "a" {
		t.Fatalf("expected modules in the given order, got %+v", got)
	}
}

func TestSelectedModulesSkipsUnknown(t *testing.T) {
	d := NewDesign()
	d.Modules["a"] = NewModule("a")

	got := d.SelectedModules([]string{"a", "ghost"})
	if len(got) != 1 || got[0].Name != "a" {
		t.Fatalf("expected unknown module names to be skipped, got %+v", got)
	}
}
