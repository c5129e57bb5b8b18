package rules

import "testing"

func TestYamlRoundTrip(t *testing.T) {
	lib := NewLibrary()
	lib.Brams["R1"] = &BramDesc{
		Name: "R1", Abits: 4, Dbits: 8, Groups: 2, Init: true,
		Ports: []int{1, 1}, Wrmode: []int{1, 0}, Enable: []int{1, 0},
		Clocks: []int{1, 1}, Clkpol: []int{1, 1},
	}
	lib.Matches = []MatchRule{
		{Name: "R1", MinLimits: []Limit{{Prop: "words", Value: 16}}, MaxLimits: []Limit{{Prop: "waste", Value: 16384}}},
	}

	data, err := lib.MarshalYAML()
	if err != nil {
		t.Fatalf("unexpected marshal error: %s", err)
	}

	roundTripped, err := UnmarshalYAML(data)
	if err != nil {
		t.Fatalf("unexpected unmarshal error: %s", err)
	}

	bram, ok := roundTripped.Bram("R1")
	if !ok {
		t.Fatal("expected R1 to survive the round trip")
	}
	if bram.Abits != 4 || bram.Dbits != 8 || bram.Groups != 2 || !bram.Init {
		t.Fatalf("unexpected bram after round trip: %+v", bram)
	}
	if len(roundTripped.Matches) != 1 {
		t.Fatalf("expected 1 match rule after round trip, got %d", len(roundTripped.Matches))
	}
	minV, ok := roundTripped.Matches[0].MinLimit("words")
	if !ok || minV != 16 {
		t.Fatalf("unexpected min words limit after round trip: %d, %v", minV, ok)
	}
}
