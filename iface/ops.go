package iface

import "fmt"

// OpCounts records how many values an operation binds per field.
type OpCounts struct {
	Globals     map[string]int
	Inputs      map[string]int
	Assignments map[string]int
}

// CheckGenesis applies the occurrence law to a genesis operation: every
// declared field must be bound within its range and no undeclared field may
// be bound at all. Fields are visited in sorted order.
func (i *Iface) CheckGenesis(c OpCounts) error {
	g := i.Genesis
	if err := checkCounts("genesis", "global", g.Globals, c.Globals); err != nil {
		return err
	}
	if err := checkCounts("genesis", "input", nil, c.Inputs); err != nil {
		return err
	}
	return checkCounts("genesis", "assignment", g.Assignments, c.Assignments)
}

// CheckTransition is CheckGenesis for a named transition.
func (i *Iface) CheckTransition(op string, c OpCounts) error {
	t, ok := i.Transitions[op]
	if !ok {
		return newError(KindOperation, "IFACE-OP-001", fmt.Sprintf("%s declares no transition %q", i.Name, op))
	}
	where := "transition " + op
	if err := checkCounts(where, "global", t.Globals, c.Globals); err != nil {
		return err
	}
	if err := checkCounts(where, "input", t.Inputs, c.Inputs); err != nil {
		return err
	}
	return checkCounts(where, "assignment", t.Assignments, c.Assignments)
}

func checkCounts(where, what string, declared OccurrencesMap, got map[string]int) error {
	for _, f := range sortedKeys(got) {
		if _, ok := declared[f]; !ok && got[f] > 0 {
			return newError(KindOperation, "IFACE-OP-002", fmt.Sprintf("%s binds undeclared %s %q", where, what, f))
		}
	}
	for _, f := range sortedKeys(declared) {
		if err := declared[f].Check(got[f]); err != nil {
			return wrapError(KindOperation, "IFACE-OP-003", fmt.Sprintf("%s %s %q: %v", where, what, f, err), err)
		}
	}
	return nil
}
