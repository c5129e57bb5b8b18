package rules

import "gopkg.in/yaml.v2"

// yamlLimit and yamlMatch mirror Limit/MatchRule field-for-field so that
// map/min/max ordering survives a YAML round trip (testable property 7:
// re-serializing a parsed rules model reproduces an equivalent model).
type yamlLimit struct {
	Prop  string `yaml:"prop"`
	Value int    `yaml:"value"`
}

type yamlMatch struct {
	Name      string      `yaml:"name"`
	MinLimits []yamlLimit `yaml:"min,omitempty"`
	MaxLimits []yamlLimit `yaml:"max,omitempty"`
}

type yamlBram struct {
	Name   string `yaml:"name"`
	Init   bool   `yaml:"init"`
	Abits  int    `yaml:"abits"`
	Dbits  int    `yaml:"dbits"`
	Groups int    `yaml:"groups"`
	Ports  []int  `yaml:"ports,omitempty"`
	Wrmode []int  `yaml:"wrmode,omitempty"`
	Enable []int  `yaml:"enable,omitempty"`
	Transp []int  `yaml:"transp,omitempty"`
	Clocks []int  `yaml:"clocks,omitempty"`
	Clkpol []int  `yaml:"clkpol,omitempty"`
}

type yamlLibrary struct {
	Brams   []yamlBram  `yaml:"brams"`
	Matches []yamlMatch `yaml:"matches"`
}

func toYamlLimits(ls []Limit) []yamlLimit {
	out := make([]yamlLimit, len(ls))
	for i, l := range ls {
		out[i] = yamlLimit{Prop: l.Prop, Value: l.Value}
	}
	return out
}

func fromYamlLimits(ls []yamlLimit) []Limit {
	out := make([]Limit, len(ls))
	for i, l := range ls {
		out[i] = Limit{Prop: l.Prop, Value: l.Value}
	}
	return out
}

// MarshalYAML renders the library to YAML: BRAMs in the order they are first
// referenced by a match rule, then any unreferenced BRAMs by name, followed
// by the match rules in declaration order.
func (l *Library) MarshalYAML() ([]byte, error) {
	out := yamlLibrary{}

	seen := map[string]bool{}
	addBram := func(name string) {
		if seen[name] {
			return
		}
		if b, ok := l.Brams[name]; ok {
			seen[name] = true
			out.Brams = append(out.Brams, yamlBram{
				Name: b.Name, Init: b.Init, Abits: b.Abits, Dbits: b.Dbits, Groups: b.Groups,
				Ports: b.Ports, Wrmode: b.Wrmode, Enable: b.Enable, Transp: b.Transp,
				Clocks: b.Clocks, Clkpol: b.Clkpol,
			})
		}
	}

	for _, m := range l.Matches {
		addBram(m.Name)
		out.Matches = append(out.Matches, yamlMatch{
			Name:      m.Name,
			MinLimits: toYamlLimits(m.MinLimits),
			MaxLimits: toYamlLimits(m.MaxLimits),
		})
	}
	for _, key := range orderedBramNames(l.Brams) {
		addBram(key)
	}

	return yaml.Marshal(out)
}

func orderedBramNames(brams map[string]*BramDesc) []string {
	names := make([]string, 0, len(brams))
	for n := range brams {
		names = append(names, n)
	}
	// simple insertion sort; the set of BRAM names in a rules file is small
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j-1] > names[j]; j-- {
			names[j-1], names[j] = names[j], names[j-1]
		}
	}
	return names
}

// UnmarshalYAML parses a library previously produced by MarshalYAML.
func UnmarshalYAML(data []byte) (*Library, error) {
	var raw yamlLibrary
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	lib := NewLibrary()
	for _, b := range raw.Brams {
		lib.Brams[b.Name] = &BramDesc{
			Name: b.Name, Init: b.Init, Abits: b.Abits, Dbits: b.Dbits, Groups: b.Groups,
			Ports: b.Ports, Wrmode: b.Wrmode, Enable: b.Enable, Transp: b.Transp,
			Clocks: b.Clocks, Clkpol: b.Clkpol,
		}
	}
	for _, m := range raw.Matches {
		lib.Matches = append(lib.Matches, MatchRule{
			Name:      m.Name,
			MinLimits: fromYamlLimits(m.MinLimits),
			MaxLimits: fromYamlLimits(m.MaxLimits),
		})
	}
	return lib, nil
}
