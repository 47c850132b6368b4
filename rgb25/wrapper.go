package rgb25

import (
	"xdao.co/iface/iface"
	"xdao.co/iface/types"
)

// IfaceID is the pinned identity of Iface(). A change to the schema or to the
// standard type registry changes it; regenerate with iface_vector_gen.
var IfaceID = iface.ID{
	0xa0, 0x76, 0x3b, 0x75, 0x19, 0x28, 0x49, 0x02, 0xdf, 0xc8, 0x62, 0x55, 0x5d, 0xd9, 0x21, 0x04,
	0xf3, 0xc3, 0x50, 0x98, 0x33, 0xc8, 0xa0, 0xd6, 0x85, 0x9f, 0x4f, 0xd3, 0x7a, 0x32, 0x75, 0x7f,
}

// RGB25 is a typed view over contract state validated against the RGB25
// interface. Every accessor reads the underlying state afresh.
type RGB25 struct {
	b iface.Binding
}

var _ iface.Wrapper = (*RGB25)(nil)

// Wrap binds state to RGB25. It fails with iface.ErrBindingMismatch when the
// state was validated against another interface.
func Wrap(state iface.ContractState) (*RGB25, error) {
	b, err := iface.Bind(state, IfaceName, IfaceID)
	if err != nil {
		return nil, err
	}
	return &RGB25{b: b}, nil
}

// MustWrap is Wrap for callers that have already checked the interface ID.
func MustWrap(state iface.ContractState) *RGB25 {
	r, err := Wrap(state)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *RGB25) IfaceName() string { return IfaceName }

func (r *RGB25) IfaceID() iface.ID { return IfaceID }

func (r *RGB25) Name() types.Name {
	return types.NameFromValue(r.b.Required(FieldName))
}

func (r *RGB25) Details() (types.Details, bool) {
	v, ok := r.b.Optional(FieldDetails)
	if !ok {
		return "", false
	}
	return types.DetailsFromValue(v), true
}

func (r *RGB25) Precision() types.Precision {
	return types.PrecisionFromValue(r.b.Required(FieldPrecision))
}

func (r *RGB25) Terms() types.AssetTerms {
	return types.AssetTermsFromValue(r.b.Required(FieldTerms))
}

// TotalIssuedSupply sums every issuedSupply value.
func (r *RGB25) TotalIssuedSupply() types.Amount {
	r.b.Required(FieldIssuedSupply)
	return types.SumAmounts(r.b.Values(FieldIssuedSupply))
}

// TotalBurnedSupply sums every burnedSupply value; no burns sum to zero.
func (r *RGB25) TotalBurnedSupply() types.Amount {
	return types.SumAmounts(r.b.Values(FieldBurnedSupply))
}
