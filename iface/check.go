package iface

import (
	"fmt"
	"strconv"

	"xdao.co/iface/types"
)

const maxNameLen = 100

// Check enforces the structural invariants of a schema: well-formed names,
// closure of every field, valency and error-code reference, unique error
// names, and encodable collection sizes.
//
// Every failure wraps ErrSchemaInconsistency. Checks run in a fixed order over
// sorted keys, so the reported violation is deterministic.
func (i *Iface) Check() error {
	if i == nil {
		return schemaError("IFACE-SCHEMA-001", "nil interface")
	}
	if i.Version != V1 {
		return schemaError("IFACE-SCHEMA-002", fmt.Sprintf("unsupported interface version %d", i.Version))
	}
	if err := checkName("interface", i.Name); err != nil {
		return err
	}

	for _, n := range sortedKeys(i.GlobalState) {
		if err := checkName("global", n); err != nil {
			return err
		}
		g := i.GlobalState[n]
		if g.Type.Name == "" || len(g.Type.Name) > 255 {
			return schemaError("IFACE-SCHEMA-010", fmt.Sprintf("global %q has no valid type", n))
		}
		if !g.Req.Valid() {
			return schemaError("IFACE-SCHEMA-011", fmt.Sprintf("global %q has invalid occurrences", n))
		}
	}
	for _, n := range sortedKeys(i.Assignments) {
		if err := checkName("assignment", n); err != nil {
			return err
		}
		a := i.Assignments[n]
		if a.Visibility > Public {
			return schemaError("IFACE-SCHEMA-012", fmt.Sprintf("assignment %q has invalid visibility", n))
		}
		if a.OwnedState > OwnedAttachment {
			return schemaError("IFACE-SCHEMA-013", fmt.Sprintf("assignment %q has invalid owned state", n))
		}
		if !a.Req.Valid() {
			return schemaError("IFACE-SCHEMA-014", fmt.Sprintf("assignment %q has invalid occurrences", n))
		}
	}
	for _, n := range i.Valencies.Sorted() {
		if err := checkName("valency", n); err != nil {
			return err
		}
	}

	if err := i.checkErrorTaxonomy(); err != nil {
		return err
	}

	g := i.Genesis
	if err := checkMetadata("genesis", g.Metadata); err != nil {
		return err
	}
	if err := i.checkRefs("genesis", "global", g.Globals, i.hasGlobal); err != nil {
		return err
	}
	if err := i.checkRefs("genesis", "assignment", g.Assignments, i.hasAssignment); err != nil {
		return err
	}
	if err := i.checkValencies("genesis", g.Valencies); err != nil {
		return err
	}
	if err := i.checkCodes("genesis", g.Errors); err != nil {
		return err
	}

	for _, op := range sortedKeys(i.Transitions) {
		if err := checkName("transition", op); err != nil {
			return err
		}
		t := i.Transitions[op]
		where := "transition " + strconv.Quote(op)
		if err := checkMetadata(where, t.Metadata); err != nil {
			return err
		}
		if err := i.checkRefs(where, "global", t.Globals, i.hasGlobal); err != nil {
			return err
		}
		if err := i.checkRefs(where, "input", t.Inputs, i.hasAssignment); err != nil {
			return err
		}
		if err := i.checkRefs(where, "assignment", t.Assignments, i.hasAssignment); err != nil {
			return err
		}
		if err := i.checkValencies(where, t.Valencies); err != nil {
			return err
		}
		if err := i.checkCodes(where, t.Errors); err != nil {
			return err
		}
		if err := checkDefaultAssignment(where, t.DefaultAssignment, t.Assignments); err != nil {
			return err
		}
	}

	for _, op := range sortedKeys(i.Extensions) {
		if err := checkName("extension", op); err != nil {
			return err
		}
		if _, clash := i.Transitions[op]; clash {
			return schemaError("IFACE-SCHEMA-040", fmt.Sprintf("operation %q declared as both transition and extension", op))
		}
		e := i.Extensions[op]
		where := "extension " + strconv.Quote(op)
		if err := checkMetadata(where, e.Metadata); err != nil {
			return err
		}
		if err := i.checkRefs(where, "global", e.Globals, i.hasGlobal); err != nil {
			return err
		}
		if err := i.checkValencies(where, e.Redeems); err != nil {
			return err
		}
		if err := i.checkRefs(where, "assignment", e.Assignments, i.hasAssignment); err != nil {
			return err
		}
		if err := i.checkValencies(where, e.Valencies); err != nil {
			return err
		}
		if err := i.checkCodes(where, e.Errors); err != nil {
			return err
		}
		if err := checkDefaultAssignment(where, e.DefaultAssignment, e.Assignments); err != nil {
			return err
		}
	}

	if i.DefaultOperation != nil {
		op := *i.DefaultOperation
		_, isTransition := i.Transitions[op]
		_, isExtension := i.Extensions[op]
		if !isTransition && !isExtension {
			return schemaError("IFACE-SCHEMA-050", fmt.Sprintf("default operation %q is not declared", op))
		}
	}

	return i.checkSizes()
}

// Must returns i if it passes Check and panics otherwise. Builders end with it.
func Must(i *Iface) *Iface {
	if err := i.Check(); err != nil {
		panic(err)
	}
	return i
}

func (i *Iface) hasGlobal(n string) bool {
	_, ok := i.GlobalState[n]
	return ok
}

func (i *Iface) hasAssignment(n string) bool {
	_, ok := i.Assignments[n]
	return ok
}

func (i *Iface) checkErrorTaxonomy() error {
	seen := make(map[string]uint8, len(i.Errors))
	for _, code := range sortedCodes(i.Errors) {
		v := i.Errors[code]
		if code == 0 {
			return schemaError("IFACE-SCHEMA-030", "error code 0 is reserved")
		}
		if err := checkName("error variant", v.Name); err != nil {
			return err
		}
		if prev, dup := seen[v.Name]; dup {
			return schemaError("IFACE-SCHEMA-031", fmt.Sprintf("error name %q used by codes %d and %d", v.Name, prev, code))
		}
		seen[v.Name] = code
		if v.Description == "" || len(v.Description) > 255 {
			return schemaError("IFACE-SCHEMA-032", fmt.Sprintf("error %q description must be 1..255 bytes", v.Name))
		}
	}
	return nil
}

func (i *Iface) checkRefs(where, what string, refs OccurrencesMap, known func(string) bool) error {
	for _, n := range sortedKeys(refs) {
		if !known(n) {
			return schemaError("IFACE-SCHEMA-020", fmt.Sprintf("%s references unknown %s %q", where, what, n))
		}
		if !refs[n].Valid() {
			return schemaError("IFACE-SCHEMA-021", fmt.Sprintf("%s has invalid occurrences for %s %q", where, what, n))
		}
	}
	return nil
}

func (i *Iface) checkValencies(where string, refs NameSet) error {
	for _, n := range refs.Sorted() {
		if !i.Valencies.Has(n) {
			return schemaError("IFACE-SCHEMA-022", fmt.Sprintf("%s references unknown valency %q", where, n))
		}
	}
	return nil
}

func (i *Iface) checkCodes(where string, codes CodeSet) error {
	for _, c := range codes.Sorted() {
		if _, ok := i.Errors[c]; !ok {
			return schemaError("IFACE-SCHEMA-023", fmt.Sprintf("%s references unknown error code %d", where, c))
		}
	}
	return nil
}

func checkMetadata(where string, t *types.TypeRef) error {
	if t != nil && (t.Name == "" || len(t.Name) > 255) {
		return schemaError("IFACE-SCHEMA-015", fmt.Sprintf("%s metadata has no valid type", where))
	}
	return nil
}

func checkDefaultAssignment(where string, def *string, assignments OccurrencesMap) error {
	if def == nil {
		return nil
	}
	if _, ok := assignments[*def]; !ok {
		return schemaError("IFACE-SCHEMA-024", fmt.Sprintf("%s default assignment %q is not among its assignments", where, *def))
	}
	return nil
}

func (i *Iface) checkSizes() error {
	sizes := []struct {
		what string
		n    int
	}{
		{"globals", len(i.GlobalState)},
		{"assignments", len(i.Assignments)},
		{"valencies", len(i.Valencies)},
		{"transitions", len(i.Transitions)},
		{"extensions", len(i.Extensions)},
		{"errors", len(i.Errors)},
	}
	for _, s := range sizes {
		if s.n > 255 {
			return schemaError("IFACE-SCHEMA-060", fmt.Sprintf("too many %s (%d > 255)", s.what, s.n))
		}
	}
	return nil
}

// checkName enforces short ASCII identifiers: a leading letter followed by
// letters, digits or underscores.
func checkName(what, n string) error {
	if n == "" || len(n) > maxNameLen {
		return schemaError("IFACE-SCHEMA-003", fmt.Sprintf("%s name %q must be 1..%d bytes", what, n, maxNameLen))
	}
	for j := 0; j < len(n); j++ {
		c := n[j]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case j > 0 && (c >= '0' && c <= '9' || c == '_'):
		default:
			return schemaError("IFACE-SCHEMA-004", fmt.Sprintf("%s name %q is not an identifier", what, n))
		}
	}
	return nil
}

func sortedCodes[V any](m map[uint8]V) []uint8 {
	out := make([]uint8, 0, len(m))
	for c := range m {
		out = append(out, c)
	}
	sortUint8(out)
	return out
}
