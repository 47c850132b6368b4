// Package rgb25 declares the RGB25 collectible fungible asset interface and a
// typed read view over contract state that implements it.
package rgb25

import (
	"xdao.co/iface/iface"
	"xdao.co/iface/types"
)

// IfaceName is the interface and library name.
const IfaceName = "RGB25"

// Error codes of the RGB25 error taxonomy.
const (
	SupplyMismatch       uint8 = 1
	NonEqualAmounts      uint8 = 2
	InvalidProof         uint8 = 3
	InsufficientReserves uint8 = 4
	InsufficientCoverage uint8 = 5
)

// Global and assignment field names.
const (
	FieldName         = "name"
	FieldDetails      = "details"
	FieldPrecision    = "precision"
	FieldTerms        = "terms"
	FieldIssuedSupply = "issuedSupply"
	FieldBurnedSupply = "burnedSupply"

	FieldAssetOwner = "assetOwner"
	FieldBurnRight  = "burnRight"
)

// Operation names.
const (
	OpTransfer = "transfer"
	OpBurn     = "burn"
)

// Build constructs the RGB25 interface against reg. The result depends only on
// the registry contents.
func Build(reg types.Registry) *iface.Iface {
	get := func(name string) types.TypeRef { return types.MustGet(reg, name) }

	return iface.Must(&iface.Iface{
		Version: iface.V1,
		Name:    IfaceName,
		GlobalState: map[string]iface.GlobalIface{
			FieldName:         iface.Required(get(types.TypeName)),
			FieldDetails:      iface.Optional(get(types.TypeDetails)),
			FieldPrecision:    iface.Required(get(types.TypePrecision)),
			FieldTerms:        iface.Required(get(types.TypeAssetTerms)),
			FieldIssuedSupply: iface.Required(get(types.TypeAmount)),
			FieldBurnedSupply: iface.NoneOrMany(get(types.TypeAmount)),
		},
		Assignments: map[string]iface.AssignIface{
			FieldAssetOwner: iface.PrivateAssign(iface.OwnedAmount, iface.OnceOrMore),
			FieldBurnRight:  iface.PublicAssign(iface.OwnedRights, iface.ZeroOrMore),
		},
		Genesis: iface.GenesisIface{
			Metadata: iface.TypeRefPtr(get(types.TypeIssueMeta)),
			Globals: iface.OccurrencesMap{
				FieldName:         iface.Once,
				FieldDetails:      iface.ZeroOrOne,
				FieldPrecision:    iface.Once,
				FieldTerms:        iface.Once,
				FieldIssuedSupply: iface.Once,
			},
			Assignments: iface.OccurrencesMap{
				FieldAssetOwner: iface.OnceOrMore,
			},
			Errors: iface.Codes(SupplyMismatch, InvalidProof, InsufficientReserves),
		},
		Transitions: map[string]iface.TransitionIface{
			OpTransfer: {
				Optional: false,
				Inputs: iface.OccurrencesMap{
					FieldAssetOwner: iface.OnceOrMore,
				},
				Assignments: iface.OccurrencesMap{
					FieldAssetOwner: iface.OnceOrMore,
				},
				Errors:            iface.Codes(NonEqualAmounts),
				DefaultAssignment: iface.NamePtr(FieldAssetOwner),
			},
			OpBurn: {
				Optional: true,
				Metadata: iface.TypeRefPtr(get(types.TypeBurnMeta)),
				Globals: iface.OccurrencesMap{
					FieldBurnedSupply: iface.Once,
				},
				Inputs: iface.OccurrencesMap{
					FieldBurnRight: iface.Once,
				},
				Assignments: iface.OccurrencesMap{
					FieldBurnRight: iface.ZeroOrOne,
				},
				Errors: iface.Codes(SupplyMismatch, InvalidProof, InsufficientCoverage),
			},
		},
		Errors: map[uint8]iface.ErrorVariant{
			SupplyMismatch: {
				Name:        "supplyMismatch",
				Description: "supply specified as a global parameter doesn't match the issued supply allocated to the asset owners",
			},
			NonEqualAmounts: {
				Name:        "nonEqualAmounts",
				Description: "the sum of spent assets doesn't equal to the sum of assets in outputs",
			},
			InvalidProof: {
				Name:        "invalidProof",
				Description: "the provided proof is invalid",
			},
			InsufficientReserves: {
				Name:        "insufficientReserves",
				Description: "reserve is insufficient to cover the issued assets",
			},
			InsufficientCoverage: {
				Name:        "insufficientCoverage",
				Description: "the claimed amount of burned assets is not covered by the assets in the operation inputs",
			},
		},
		DefaultOperation: iface.NamePtr(OpTransfer),
		Types:            reg.SystemID(),
	})
}

// Iface returns the RGB25 interface built against the standard registry.
func Iface() *iface.Iface { return Build(types.Standard()) }
