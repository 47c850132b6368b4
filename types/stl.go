package types

import (
	"fmt"
	"sync"
	"unicode/utf8"
)

// Standard contract type names.
const (
	TypeAmount     = "RGBContract.Amount"
	TypeAssetTerms = "RGBContract.AssetTerms"
	TypeBurnMeta   = "RGBContract.BurnMeta"
	TypeDetails    = "RGBContract.Details"
	TypeIssueMeta  = "RGBContract.IssueMeta"
	TypeName       = "RGBContract.Name"
	TypePrecision  = "RGBContract.Precision"
)

// StandardDefs are the definitions behind the standard registry. Changing any
// spec string changes every interface ID built against the registry.
var StandardDefs = []Def{
	{Name: TypeAmount, Spec: "u64"},
	{Name: TypeAssetTerms, Spec: "struct { text: RicardianContract, media: Option<Attachment> }"},
	{Name: TypeBurnMeta, Spec: "struct { burnProofs: Set<ProofOfReserves, 0..255> }"},
	{Name: TypeDetails, Spec: "utf8[1..255]"},
	{Name: TypeIssueMeta, Spec: "struct { reserves: Set<ProofOfReserves, 0..255> }"},
	{Name: TypeName, Spec: "ascii-printable[1..40]"},
	{Name: TypePrecision, Spec: "enum u8 { indivisible=0 .. atto=18 }"},
}

var (
	standard     *System
	standardOnce sync.Once
)

// Standard returns the shared standard registry snapshot.
func Standard() *System {
	standardOnce.Do(func() {
		sys, err := NewSystem(StandardDefs...)
		if err != nil {
			panic(err)
		}
		standard = sys
	})
	return standard
}

// Name is a short printable-ASCII asset name.
type Name string

// NewName validates s against the RGBContract.Name definition.
func NewName(s string) (Name, error) {
	if len(s) < 1 || len(s) > 40 {
		return "", fmt.Errorf("types: name length %d out of range 1..40", len(s))
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] > 0x7e {
			return "", fmt.Errorf("types: name has non-printable byte 0x%02x", s[i])
		}
	}
	return Name(s), nil
}

func (n Name) Value() Value { return String(string(n)) }

// NameFromValue decodes a value already validated against RGBContract.Name.
func NameFromValue(v Value) Name {
	s, ok := v.AsString()
	if !ok {
		panic(fmt.Sprintf("types: %s value is %s, not string", TypeName, v.Kind()))
	}
	return Name(s)
}

// Details is free-form asset description text.
type Details string

func NewDetails(s string) (Details, error) {
	if len(s) < 1 || len(s) > 255 {
		return "", fmt.Errorf("types: details length %d out of range 1..255", len(s))
	}
	if !utf8.ValidString(s) {
		return "", fmt.Errorf("types: details must be valid UTF-8")
	}
	return Details(s), nil
}

func (d Details) Value() Value { return String(string(d)) }

func DetailsFromValue(v Value) Details {
	s, ok := v.AsString()
	if !ok {
		panic(fmt.Sprintf("types: %s value is %s, not string", TypeDetails, v.Kind()))
	}
	return Details(s)
}

// Precision is the number of decimal digits in the fractional part of an amount.
type Precision uint8

const (
	Indivisible Precision = iota
	Deci
	Centi
	Milli
	DeciMilli
	CentiMilli
	Micro
	DeciMicro
	CentiMicro
	Nano
	DeciNano
	CentiNano
	Pico
	DeciPico
	CentiPico
	Femto
	DeciFemto
	CentiFemto
	Atto
)

func NewPrecision(d uint8) (Precision, error) {
	if Precision(d) > Atto {
		return 0, fmt.Errorf("types: precision %d exceeds %d", d, Atto)
	}
	return Precision(d), nil
}

// Decimals returns the number of fractional digits.
func (p Precision) Decimals() int { return int(p) }

func (p Precision) Value() Value { return Uint(uint64(p)) }

func PrecisionFromValue(v Value) Precision {
	u, ok := v.AsUint()
	if !ok || u > uint64(Atto) {
		panic(fmt.Sprintf("types: invalid %s value", TypePrecision))
	}
	return Precision(u)
}

// AssetTerms are the contract terms attached at issuance. Media is empty when
// no attachment was given.
type AssetTerms struct {
	Text  string
	Media string
}

func (t AssetTerms) Value() Value {
	fields := map[string]Value{"text": String(t.Text)}
	if t.Media != "" {
		fields["media"] = String(t.Media)
	}
	return Struct(fields)
}

func AssetTermsFromValue(v Value) AssetTerms {
	text, ok := v.Field("text")
	if !ok {
		panic(fmt.Sprintf("types: %s value lacks text", TypeAssetTerms))
	}
	s, ok := text.AsString()
	if !ok {
		panic(fmt.Sprintf("types: %s text is %s, not string", TypeAssetTerms, text.Kind()))
	}
	out := AssetTerms{Text: s}
	if media, ok := v.Field("media"); ok {
		out.Media, _ = media.AsString()
	}
	return out
}
