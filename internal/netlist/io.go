package netlist

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// jsonModule and jsonDesign mirror the on-disk netlist-database format: a
// minimal JSON schema this tool treats as an external collaborator, the way
// spec.md's §1 non-goals treat memory detection and full RTLIL handling as
// somebody else's job.
type jsonCell struct {
	Type   string            `json:"type"`
	Params map[string]int    `json:"parameters,omitempty"`
	Ports  map[string]string `json:"connections,omitempty"`
}

// jsonConn mirrors one Conn: rhs drives every bit of lhs.
type jsonConn struct {
	Lhs string `json:"lhs"`
	Rhs string `json:"rhs"`
}

type jsonModule struct {
	Cells map[string]jsonCell `json:"cells,omitempty"`
	Wires map[string]int      `json:"wires,omitempty"`
	Conns []jsonConn          `json:"conns,omitempty"`
}

type jsonDesign struct {
	Modules map[string]jsonModule `json:"modules"`
}

// encodeSignal renders a Signal as a comma-separated bit string, e.g.
// "0,1,mem_q.0,mem_q.1".
func encodeSignal(s Signal) string {
	out := ""
	for i, b := range s {
		if i > 0 {
			out += ","
		}
		out += string(b)
	}
	return out
}

func decodeSignal(s string) Signal {
	if s == "" {
		return Signal{}
	}
	var out Signal
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			out = append(out, Bit(s[start:i]))
			start = i + 1
		}
	}
	return out
}

// LoadDesign reads a Design from the minimal JSON netlist format.
func LoadDesign(path string) (*Design, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	var raw jsonDesign
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("malformed netlist file %q: %w", path, err)
	}

	d := NewDesign()
	var order []string
	for name := range raw.Modules {
		order = append(order, name)
	}
	sort.Strings(order)

	for _, name := range order {
		jm := raw.Modules[name]
		m := NewModule(name)

		var wnames []string
		for wname := range jm.Wires {
			wnames = append(wnames, wname)
		}
		sort.Strings(wnames)
		for _, wname := range wnames {
			m.wireOrder = append(m.wireOrder, wname)
			m.wires[wname] = jm.Wires[wname]
		}

		var cnames []string
		for cname := range jm.Cells {
			cnames = append(cnames, cname)
		}
		sort.Strings(cnames)
		for _, cname := range cnames {
			jc := jm.Cells[cname]
			c := m.AddCell(cname, jc.Type)

			var pkeys []string
			for k := range jc.Params {
				pkeys = append(pkeys, k)
			}
			sort.Strings(pkeys)
			for _, k := range pkeys {
				c.SetParam(k, jc.Params[k])
			}

			var portNames []string
			for pname := range jc.Ports {
				portNames = append(portNames, pname)
			}
			sort.Strings(portNames)
			for _, pname := range portNames {
				c.SetPort(pname, decodeSignal(jc.Ports[pname]))
			}
		}

		for _, jc := range jm.Conns {
			m.Connect(decodeSignal(jc.Lhs), decodeSignal(jc.Rhs))
		}
		d.Modules[name] = m
	}
	return d, order, nil
}

// SaveDesign writes a Design back out in the same JSON netlist format,
// reflecting whatever cells/wires/connections remain after mapping.
func SaveDesign(path string, d *Design, order []string) error {
	raw := jsonDesign{Modules: map[string]jsonModule{}}
	for _, name := range order {
		m, ok := d.Modules[name]
		if !ok {
			continue
		}
		jm := jsonModule{Cells: map[string]jsonCell{}, Wires: map[string]int{}}
		for wname, width := range m.wires {
			jm.Wires[wname] = width
		}
		for _, c := range m.Cells() {
			jc := jsonCell{Type: c.Type, Params: c.Params, Ports: map[string]string{}}
			for pname, sig := range c.Ports {
				jc.Ports[pname] = encodeSignal(sig)
			}
			jm.Cells[c.Name] = jc
		}
		for _, conn := range m.Conns {
			jm.Conns = append(jm.Conns, jsonConn{Lhs: encodeSignal(conn.Lhs), Rhs: encodeSignal(conn.Rhs)})
		}
		raw.Modules[name] = jm
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0664)
}
