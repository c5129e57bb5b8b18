package netlist

import "testing"

func TestExtractWithinBounds(t *testing.T) {
	s := Bus("w", 8)
	out := s.Extract(2, 3)
	if !out.Equal(Signal{WireBit("w", 2), WireBit("w", 3), WireBit("w", 4)}) {
		t.Fatalf("unexpected extract result: %v", out)
	}
}

func TestExtractPastEnd(t *testing.T) {
	s := Bus("w", 4)
	out := s.Extract(2, 4)
	if !out.Equal(Signal{WireBit("w", 2), WireBit("w", 3)}) {
		t.Fatalf("expected extract to stop at the signal's width, got %v", out)
	}
}

func TestExtractOffsetPastEnd(t *testing.T) {
	s := Bus("w", 4)
	out := s.Extract(9, 2)
	if len(out) != 0 {
		t.Fatalf("expected empty signal when offset is past the end, got %v", out)
	}
}

func TestExtendU0Grows(t *testing.T) {
	s := Bus("w", 2)
	out := s.ExtendU0(4)
	want := Signal{WireBit("w", 0), WireBit("w", 1), Const0, Const0}
	if !out.Equal(want) {
		t.Fatalf("unexpected zero-extension: %v", out)
	}
}

func TestExtendU0Truncates(t *testing.T) {
	s := Bus("w", 4)
	out := s.ExtendU0(2)
	if !out.Equal(Signal{WireBit("w", 0), WireBit("w", 1)}) {
		t.Fatalf("unexpected truncation: %v", out)
	}
}

func TestConcat(t *testing.T) {
	a := Bus("a", 2)
	b := Bus("b", 2)
	out := a.Concat(b)
	want := Signal{WireBit("a", 0), WireBit("a", 1), WireBit("b", 0), WireBit("b", 1)}
	if !out.Equal(want) {
		t.Fatalf("unexpected concat: %v", out)
	}
}

func TestAllOpen(t *testing.T) {
	if !(Signal{Open, Open}).AllOpen() {
		t.Fatal("expected all-open signal to report AllOpen")
	}
	if (Signal{Open, Const0}).AllOpen() {
		t.Fatal("did not expect a partially-connected signal to report AllOpen")
	}
}

func TestConstSignal(t *testing.T) {
	out := ConstSignal(5, 4) // 0b0101
	want := Signal{Const1, Const0, Const1, Const0}
	if !out.Equal(want) {
		t.Fatalf("unexpected const signal: %v", out)
	}
}

func TestEqualDifferingWidths(t *testing.T) {
	if (Signal{Const0}).Equal(Signal{Const0, Const0}) {
		t.Fatal("signals of differing width must not compare equal")
	}
}
