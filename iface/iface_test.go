package iface

import (
	"errors"
	"testing"

	"xdao.co/iface/types"
)

var u64 = types.TypeRef{Name: "Test.U64", SemID: types.Def{Name: "Test.U64", Spec: "u64"}.SemID()}

// sample exercises every schema section, including extensions and valencies.
func sample() *Iface {
	return &Iface{
		Version: V1,
		Name:    "Sample",
		GlobalState: map[string]GlobalIface{
			"supply": Required(u64),
			"memo":   NoneOrMany(u64),
		},
		Assignments: map[string]AssignIface{
			"owner": PrivateAssign(OwnedAmount, OnceOrMore),
			"vote":  PublicAssign(OwnedData, ZeroOrOne),
		},
		Valencies: Names("renomination"),
		Genesis: GenesisIface{
			Metadata:    TypeRefPtr(u64),
			Globals:     OccurrencesMap{"supply": Once},
			Assignments: OccurrencesMap{"owner": OnceOrMore},
			Valencies:   Names("renomination"),
			Errors:      Codes(1),
		},
		Transitions: map[string]TransitionIface{
			"move": {
				Inputs:            OccurrencesMap{"owner": OnceOrMore},
				Assignments:       OccurrencesMap{"owner": OnceOrMore, "vote": ZeroOrOne},
				Errors:            Codes(1, 2),
				DefaultAssignment: NamePtr("owner"),
			},
		},
		Extensions: map[string]ExtensionIface{
			"rename": {
				Optional: true,
				Globals:  OccurrencesMap{"memo": ZeroOrOne},
				Redeems:  Names("renomination"),
			},
		},
		Errors: map[uint8]ErrorVariant{
			1: {Name: "badSum", Description: "sum mismatch"},
			2: {Name: "badProof", Description: "proof rejected"},
		},
		DefaultOperation: NamePtr("move"),
		Types:            types.SemID{7},
	}
}

func TestCheck_Sample(t *testing.T) {
	if err := sample().Check(); err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if got := sample().Operations(); len(got) != 2 || got[0] != "move" || got[1] != "rename" {
		t.Fatalf("Operations: got %v", got)
	}
}

func TestCheck_Violations(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(i *Iface)
		rule   string
	}{
		{"version", func(i *Iface) { i.Version = 2 }, "IFACE-SCHEMA-002"},
		{"empty name", func(i *Iface) { i.Name = "" }, "IFACE-SCHEMA-003"},
		{"bad name", func(i *Iface) { i.Name = "9lives" }, "IFACE-SCHEMA-004"},
		{"bad field name", func(i *Iface) { i.GlobalState["has space"] = Required(u64) }, "IFACE-SCHEMA-004"},
		{"untyped global", func(i *Iface) { i.GlobalState["x"] = GlobalIface{Req: Once} }, "IFACE-SCHEMA-010"},
		{"global occurrences", func(i *Iface) { i.GlobalState["x"] = GlobalIface{Type: u64, Req: 4} }, "IFACE-SCHEMA-011"},
		{"visibility", func(i *Iface) { i.Assignments["x"] = AssignIface{Visibility: 2} }, "IFACE-SCHEMA-012"},
		{"owned state", func(i *Iface) { i.Assignments["x"] = AssignIface{OwnedState: 5} }, "IFACE-SCHEMA-013"},
		{"error code zero", func(i *Iface) { i.Errors[0] = ErrorVariant{Name: "zero", Description: "z"} }, "IFACE-SCHEMA-030"},
		{"duplicate error name", func(i *Iface) { i.Errors[3] = ErrorVariant{Name: "badSum", Description: "again"} }, "IFACE-SCHEMA-031"},
		{"empty description", func(i *Iface) { i.Errors[3] = ErrorVariant{Name: "silent"} }, "IFACE-SCHEMA-032"},
		{"unknown genesis global", func(i *Iface) { i.Genesis.Globals["ghost"] = Once }, "IFACE-SCHEMA-020"},
		{"unknown input", func(i *Iface) {
			tr := i.Transitions["move"]
			tr.Inputs = OccurrencesMap{"ghost": Once}
			i.Transitions["move"] = tr
		}, "IFACE-SCHEMA-020"},
		{"invalid ref occurrences", func(i *Iface) { i.Genesis.Globals["supply"] = 8 }, "IFACE-SCHEMA-021"},
		{"unknown valency", func(i *Iface) { i.Genesis.Valencies = Names("ghost") }, "IFACE-SCHEMA-022"},
		{"unknown redeem", func(i *Iface) {
			x := i.Extensions["rename"]
			x.Redeems = Names("ghost")
			i.Extensions["rename"] = x
		}, "IFACE-SCHEMA-022"},
		{"unknown error code", func(i *Iface) { i.Genesis.Errors = Codes(9) }, "IFACE-SCHEMA-023"},
		{"default assignment", func(i *Iface) {
			tr := i.Transitions["move"]
			tr.DefaultAssignment = NamePtr("vote2")
			i.Transitions["move"] = tr
		}, "IFACE-SCHEMA-024"},
		{"metadata", func(i *Iface) { i.Genesis.Metadata = &types.TypeRef{} }, "IFACE-SCHEMA-015"},
		{"clash", func(i *Iface) { i.Extensions["move"] = ExtensionIface{} }, "IFACE-SCHEMA-040"},
		{"default operation", func(i *Iface) { i.DefaultOperation = NamePtr("fly") }, "IFACE-SCHEMA-050"},
	}
	for _, c := range cases {
		i := sample()
		c.mutate(i)
		err := i.Check()
		if err == nil {
			t.Fatalf("%s: expected error", c.name)
		}
		if !errors.Is(err, ErrSchemaInconsistency) || !IsKind(err, KindSchema) {
			t.Fatalf("%s: not a schema inconsistency: %v", c.name, err)
		}
		if got := RuleID(err); got != c.rule {
			t.Fatalf("%s: rule got %s want %s (%v)", c.name, got, c.rule, err)
		}
	}
}

func TestMust_Panics(t *testing.T) {
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrSchemaInconsistency) {
			t.Fatalf("Must panic value: %v", r)
		}
	}()
	i := sample()
	i.DefaultOperation = NamePtr("fly")
	Must(i)
}

func TestSets(t *testing.T) {
	if Names() != nil || Codes() != nil {
		t.Fatalf("empty constructors must return nil sets")
	}
	s := Names("b", "a", "b")
	if got := s.Sorted(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("NameSet.Sorted: got %v", got)
	}
	c := Codes(5, 1, 3)
	if got := c.Sorted(); len(got) != 3 || got[0] != 1 || got[2] != 5 || !c.Has(3) || c.Has(2) {
		t.Fatalf("CodeSet: got %v", got)
	}
}
