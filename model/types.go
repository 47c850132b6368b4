package model

// BlobRef refers to canonical interface bytes directly or by CID.
// Exactly one of CID or Bytes MUST be set.
//
// JSON note: Bytes are encoded as base64 by encoding/json.
type BlobRef struct {
	CID   string `json:"cid,omitempty" yaml:"cid,omitempty"`
	Bytes []byte `json:"bytes,omitempty" yaml:"bytes,omitempty"`
}

type Field struct {
	Name        string `json:"name" yaml:"name"`
	Occurrences string `json:"occurrences" yaml:"occurrences"`
}

type Global struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	TypeID      string `json:"typeId" yaml:"typeId"`
	Occurrences string `json:"occurrences" yaml:"occurrences"`
}

type Assignment struct {
	Name        string `json:"name" yaml:"name"`
	Visibility  string `json:"visibility" yaml:"visibility"`
	OwnedState  string `json:"ownedState" yaml:"ownedState"`
	Occurrences string `json:"occurrences" yaml:"occurrences"`
}

// Operation describes genesis, a transition or an extension. Kind is one of
// "genesis", "transition" or "extension".
type Operation struct {
	Name              string   `json:"name" yaml:"name"`
	Kind              string   `json:"kind" yaml:"kind"`
	Optional          bool     `json:"optional" yaml:"optional"`
	Metadata          string   `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Globals           []Field  `json:"globals" yaml:"globals"`
	Inputs            []Field  `json:"inputs,omitempty" yaml:"inputs,omitempty"`
	Redeems           []string `json:"redeems,omitempty" yaml:"redeems,omitempty"`
	Assignments       []Field  `json:"assignments" yaml:"assignments"`
	Valencies         []string `json:"valencies" yaml:"valencies"`
	Errors            []uint8  `json:"errors" yaml:"errors"`
	DefaultAssignment string   `json:"defaultAssignment,omitempty" yaml:"defaultAssignment,omitempty"`
}

type ErrorVariant struct {
	Code        uint8  `json:"code" yaml:"code"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// Interface is the serializable projection of an interface schema. Every
// list is sorted by name (errors by code); empty lists are never null.
type Interface struct {
	ID               string         `json:"id" yaml:"id"`
	CID              string         `json:"cid" yaml:"cid"`
	Name             string         `json:"name" yaml:"name"`
	Version          uint8          `json:"version" yaml:"version"`
	Types            string         `json:"types" yaml:"types"`
	GlobalState      []Global       `json:"globalState" yaml:"globalState"`
	Assignments      []Assignment   `json:"assignments" yaml:"assignments"`
	Valencies        []string       `json:"valencies" yaml:"valencies"`
	Genesis          Operation      `json:"genesis" yaml:"genesis"`
	Transitions      []Operation    `json:"transitions" yaml:"transitions"`
	Extensions       []Operation    `json:"extensions" yaml:"extensions"`
	Errors           []ErrorVariant `json:"errors" yaml:"errors"`
	DefaultOperation string         `json:"defaultOperation,omitempty" yaml:"defaultOperation,omitempty"`
}

type Terms struct {
	Text  string `json:"text" yaml:"text"`
	Media string `json:"media,omitempty" yaml:"media,omitempty"`
}

// RGB25State is the read view of RGB25 contract state.
type RGB25State struct {
	Interface         string `json:"interface" yaml:"interface"`
	Name              string `json:"name" yaml:"name"`
	Details           string `json:"details,omitempty" yaml:"details,omitempty"`
	Precision         uint8  `json:"precision" yaml:"precision"`
	Terms             Terms  `json:"terms" yaml:"terms"`
	TotalIssuedSupply uint64 `json:"totalIssuedSupply" yaml:"totalIssuedSupply"`
	TotalBurnedSupply uint64 `json:"totalBurnedSupply" yaml:"totalBurnedSupply"`
}

// Release is the serializable projection of a signed interface release.
type Release struct {
	InterfaceID   string            `json:"interfaceId" yaml:"interfaceId"`
	InterfaceName string            `json:"interfaceName" yaml:"interfaceName"`
	InterfaceCID  string            `json:"interfaceCid" yaml:"interfaceCid"`
	IssuerKey     string            `json:"issuerKey" yaml:"issuerKey"`
	SignatureAlg  string            `json:"signatureAlg" yaml:"signatureAlg"`
	HashAlg       string            `json:"hashAlg" yaml:"hashAlg"`
	Verified      bool              `json:"verified" yaml:"verified"`
	Subject       map[string]string `json:"subject,omitempty" yaml:"subject,omitempty"`
}
