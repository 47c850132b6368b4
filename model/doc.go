// Package model defines stable boundary types for CLI and API layers.
//
// Interface identity (canonical bytes and IDs) is unaffected by any
// projection. These structs are the only types intended for direct JSON/YAML
// serialization by consumers.
package model
