package netlist

import "fmt"

// MemCellType is the type name of a generic multi-port memory cell, as
// produced by whatever upstream pass already decided a netlist node is a
// memory (memory detection itself is out of scope for this tool).
const MemCellType = "$mem"

// Memory parameter names, per the netlist-level contract.
const (
	ParamSize   = "SIZE"
	ParamAbits  = "ABITS"
	ParamWidth  = "WIDTH"
	ParamWrPorts = "WR_PORTS"
	ParamRdPorts = "RD_PORTS"

	// Per-port flag parameters are stored as a bitmask, one bit per port.
	ParamWrClkEnable   = "WR_CLK_ENABLE"
	ParamWrClkPolarity = "WR_CLK_POLARITY"
	ParamRdClkEnable   = "RD_CLK_ENABLE"
	ParamRdClkPolarity = "RD_CLK_POLARITY"
	ParamRdTransparent = "RD_TRANSPARENT"
)

// Memory port names, per the netlist-level contract.
const (
	PortWrEn   = "WR_EN"
	PortWrClk  = "WR_CLK"
	PortWrData = "WR_DATA"
	PortWrAddr = "WR_ADDR"
	PortRdClk  = "RD_CLK"
	PortRdData = "RD_DATA"
	PortRdAddr = "RD_ADDR"
)

// WritePort is one write port of a memory-under-consideration.
type WritePort struct {
	ClkEnable   bool
	ClkPolarity bool
	Clk         Bit
	Addr        Signal
	Data        Signal
	En          Signal // one bit per data bit
}

// ReadPort is one read port of a memory-under-consideration.
type ReadPort struct {
	ClkEnable   bool
	ClkPolarity bool
	Transparent bool
	Clk         Bit
	Addr        Signal
	Data        Signal
}

// MemInfo is the memory-under-consideration (§3): the generic cell's shape
// and per-port signals, read once per mapping attempt.
type MemInfo struct {
	Cell  *Cell
	Size  int
	Abits int
	Width int

	WritePorts []WritePort
	ReadPorts  []ReadPort
}

func bit(mask int, i int) bool {
	return mask&(1<<uint(i)) != 0
}

// ReadMemCell extracts a MemInfo from a $mem cell's parameters and ports.
func ReadMemCell(cell *Cell) (*MemInfo, error) {
	if cell.Type != MemCellType {
		return nil, fmt.Errorf("cell %q is not a %s cell (has type %q)", cell.Name, MemCellType, cell.Type)
	}

	info := &MemInfo{
		Cell:  cell,
		Size:  cell.Params[ParamSize],
		Abits: cell.Params[ParamAbits],
		Width: cell.Params[ParamWidth],
	}

	wrPorts := cell.Params[ParamWrPorts]
	wrClkEnable := cell.Params[ParamWrClkEnable]
	wrClkPolarity := cell.Params[ParamWrClkPolarity]
	wrEn := cell.Ports[PortWrEn]
	wrClk := cell.Ports[PortWrClk]
	wrData := cell.Ports[PortWrData]
	wrAddr := cell.Ports[PortWrAddr]

	for i := 0; i < wrPorts; i++ {
		info.WritePorts = append(info.WritePorts, WritePort{
			ClkEnable:   bit(wrClkEnable, i),
			ClkPolarity: bit(wrClkPolarity, i),
			Clk:         at(wrClk, i),
			Addr:        wrAddr.Extract(i*info.Abits, info.Abits),
			Data:        wrData.Extract(i*info.Width, info.Width),
			En:          wrEn.Extract(i*info.Width, info.Width),
		})
	}

	rdPorts := cell.Params[ParamRdPorts]
	rdClkEnable := cell.Params[ParamRdClkEnable]
	rdClkPolarity := cell.Params[ParamRdClkPolarity]
	rdTransparent := cell.Params[ParamRdTransparent]
	rdClk := cell.Ports[PortRdClk]
	rdData := cell.Ports[PortRdData]
	rdAddr := cell.Ports[PortRdAddr]

	for i := 0; i < rdPorts; i++ {
		info.ReadPorts = append(info.ReadPorts, ReadPort{
			ClkEnable:   bit(rdClkEnable, i),
			ClkPolarity: bit(rdClkPolarity, i),
			Transparent: bit(rdTransparent, i),
			Clk:         at(rdClk, i),
			Addr:        rdAddr.Extract(i*info.Abits, info.Abits),
			Data:        rdData.Extract(i*info.Width, info.Width),
		})
	}

	return info, nil
}

func at(s Signal, i int) Bit {
	if i < len(s) {
		return s[i]
	}
	return Open
}
