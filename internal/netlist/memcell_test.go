package netlist

import "testing"

func TestReadMemCellRejectsWrongType(t *testing.T) {
	c := newCell("m0", "R1")
	if _, err := ReadMemCell(c); err == nil {
		t.Fatal("expected an error reading a non-$mem cell")
	}
}

func TestReadMemCellSplitsPorts(t *testing.T) {
	c := newCell("m0", MemCellType)
	c.SetParam(ParamSize, 16)
	c.SetParam(ParamAbits, 4)
	c.SetParam(ParamWidth, 8)
	c.SetParam(ParamWrPorts, 1)
	c.SetParam(ParamRdPorts, 2)
	c.SetParam(ParamRdClkEnable, 0b01)
	c.SetParam(ParamRdClkPolarity, 0b01)
	c.SetParam(ParamRdTransparent, 0b00)

	c.SetPort(PortWrClk, Signal{WireBit("clk", 0)})
	c.SetPort(PortWrAddr, Bus("wa", 4))
	c.SetPort(PortWrData, Bus("wd", 8))
	c.SetPort(PortWrEn, Bus("we", 8))

	c.SetPort(PortRdClk, Signal{WireBit("clk", 0), Open})
	c.SetPort(PortRdAddr, Bus("ra0", 4).Concat(Bus("ra1", 4)))
	c.SetPort(PortRdData, Bus("rd0", 8).Concat(Bus("rd1", 8)))

	info, err := ReadMemCell(c)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if len(info.WritePorts) != 1 || len(info.ReadPorts) != 2 {
		t.Fatalf("unexpected port counts: %d write, %d read", len(info.WritePorts), len(info.ReadPorts))
	}
	if info.WritePorts[0].Clk != WireBit("clk", 0) {
		t.Fatalf("unexpected write clock: %v", info.WritePorts[0].Clk)
	}
	if !info.ReadPorts[0].ClkEnable || info.ReadPorts[1].ClkEnable || info.ReadPorts[1].Clk != Open {
		t.Fatalf("expected read port 1 to be async, got %+v", info.ReadPorts[1])
	}
	if !info.ReadPorts[1].Addr.Equal(Bus("ra1", 4)) {
		t.Fatalf("unexpected read port 1 address: %v", info.ReadPorts[1].Addr)
	}
}
