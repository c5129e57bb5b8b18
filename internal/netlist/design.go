package netlist

import "fmt"

// Cell is one primitive/module instance in a Module: a $mem memory cell
// before mapping, or a BRAM/glue-logic instance after.
type Cell struct {
	Name   string
	Type   string
	Params map[string]int
	Ports  map[string]Signal
}

func newCell(name, typ string) *Cell {
	return &Cell{Name: name, Type: typ, Params: map[string]int{}, Ports: map[string]Signal{}}
}

// SetPort assigns a signal to a named port of the cell.
func (c *Cell) SetPort(name string, sig Signal) {
	c.Ports[name] = sig
}

// SetParam assigns an integer parameter of the cell, addressed by name; used
// for CLKPOL<k> configuration bits.
func (c *Cell) SetParam(name string, value int) {
	c.Params[name] = value
}

// Module holds one design module: a list of cells (memory cells being
// mapped, and the BRAM/glue-logic instances replacing them), the wires
// internal to it, and the point-to-point connections between them.
type Module struct {
	Name string

	cellOrder []string
	cells     map[string]*Cell

	wireOrder []string
	wires     map[string]int

	Conns []Conn

	uniquify map[string]int
}

// Conn is a single netlist connection: every bit of Rhs drives the
// corresponding bit of Lhs.
type Conn struct {
	Lhs, Rhs Signal
}

// NewModule creates an empty module named name.
func NewModule(name string) *Module {
	return &Module{
		Name:     name,
		cells:    map[string]*Cell{},
		wires:    map[string]int{},
		uniquify: map[string]int{},
	}
}

// Cells returns the module's cells in creation order.
func (m *Module) Cells() []*Cell {
	out := make([]*Cell, 0, len(m.cellOrder))
	for _, n := range m.cellOrder {
		out = append(out, m.cells[n])
	}
	return out
}

// Cell looks up a cell by name.
func (m *Module) Cell(name string) (*Cell, bool) {
	c, ok := m.cells[name]
	return c, ok
}

// Uniquify returns a name derived from base that is not yet used by any
// cell or wire in the module, appending a numeric suffix on collision.
func (m *Module) Uniquify(base string) string {
	name := base
	for {
		_, cellUsed := m.cells[name]
		_, wireUsed := m.wires[name]
		if !cellUsed && !wireUsed {
			m.uniquify[base]++
			return name
		}
		m.uniquify[base]++
		name = fmt.Sprintf("%s_%d", base, m.uniquify[base])
	}
}

// AddCell instantiates a new cell of the given type under the given name.
func (m *Module) AddCell(name, typ string) *Cell {
	c := newCell(name, typ)
	m.cellOrder = append(m.cellOrder, name)
	m.cells[name] = c
	return c
}

// RemoveCell deletes a cell from the module, e.g. the original $mem cell
// once it has been fully replaced.
func (m *Module) RemoveCell(name string) {
	delete(m.cells, name)
	for i, n := range m.cellOrder {
		if n == name {
			m.cellOrder = append(m.cellOrder[:i], m.cellOrder[i+1:]...)
			break
		}
	}
}

// AddWire allocates a new internal wire of the given width and returns a
// Signal referencing its bits.
func (m *Module) AddWire(name string, width int) Signal {
	name = m.Uniquify(name)
	m.wireOrder = append(m.wireOrder, name)
	m.wires[name] = width
	return Bus(name, width)
}

// Connect records that rhs drives lhs. Both must have equal width.
func (m *Module) Connect(lhs, rhs Signal) {
	m.Conns = append(m.Conns, Conn{Lhs: lhs, Rhs: rhs})
}

// Eq synthesizes an equality comparator, returning its single-bit result.
func (m *Module) Eq(a, b Signal) Signal {
	w := len(a)
	if len(b) > w {
		w = len(b)
	}
	c := m.AddCell(m.Uniquify("eq"), "$eq")
	c.SetPort("A", a.ExtendU0(w))
	c.SetPort("B", b.ExtendU0(w))
	out := m.AddWire(m.Uniquify("eq_y"), 1)
	c.SetPort("Y", out)
	return out
}

// Mux synthesizes a 2-way multiplexer: sel==0 selects a, sel==1 selects b.
func (m *Module) Mux(a, b Signal, sel Bit) Signal {
	width := len(a)
	c := m.AddCell(m.Uniquify("mux"), "$mux")
	c.SetPort("A", a)
	c.SetPort("B", b)
	c.SetPort("S", Signal{sel})
	out := m.AddWire(m.Uniquify("mux_y"), width)
	c.SetPort("Y", out)
	return out
}

// Pmux synthesizes a one-hot-selected multiplexer over len(sel) width-wide
// cases, defaulting to def when no selector bit is set. Used to finalize a
// read port's data output across the grid_a rows that could have driven it.
func (m *Module) Pmux(def Signal, cases []Signal, sel Signal) Signal {
	width := len(def)
	c := m.AddCell(m.Uniquify("pmux"), "$pmux")
	c.SetPort("A", def)
	var b Signal
	for _, cs := range cases {
		b = b.Concat(cs)
	}
	c.SetPort("B", b)
	c.SetPort("S", sel)
	out := m.AddWire(m.Uniquify("pmux_y"), width)
	c.SetPort("Y", out)
	return out
}

// Dff synthesizes a single-bit D flip-flop clocked by clk with the given
// polarity (true = posedge), latching d into q. Used to register addr_ok
// before it drives a clocked read port's output mux select.
func (m *Module) Dff(clk Bit, posedge bool, d Signal) Signal {
	c := m.AddCell(m.Uniquify("dff"), "$dff")
	c.SetPort("CLK", Signal{clk})
	c.SetPort("D", d)
	if posedge {
		c.SetParam("CLK_POLARITY", 1)
	} else {
		c.SetParam("CLK_POLARITY", 0)
	}
	out := m.AddWire(m.Uniquify("dff_q"), len(d))
	c.SetPort("Q", out)
	return out
}

// Design holds every module of a netlist keyed by name.
type Design struct {
	Modules map[string]*Module
}

// NewDesign creates an empty design.
func NewDesign() *Design {
	return &Design{Modules: map[string]*Module{}}
}

// SelectedModules returns the design's modules named in order, in that
// order, skipping names the design does not contain; the pass driver walks
// them in this fixed order, matching testable property 5.
func (d *Design) SelectedModules(order []string) []*Module {
	out := make([]*Module, 0, len(order))
	for _, name := range order {
		if m, ok := d.Modules[name]; ok {
			out = append(out, m)
		}
	}
	return out
}
