package iface

import "errors"

// Kind is a stable category for programmatic error handling.
//
// Callers should branch on Kind/RuleID rather than matching error strings.
type Kind string

const (
	KindSchema     Kind = "Schema"
	KindEncoding   Kind = "Encoding"
	KindArmor      Kind = "Armor"
	KindOccurrence Kind = "Occurrence"
	KindOperation  Kind = "Operation"
	KindBinding    Kind = "Binding"
	KindInternal   Kind = "Internal"
)

var (
	// ErrSchemaInconsistency is the cause of every Check failure. Schemas are
	// static artifacts, so it always denotes a defect in a builder.
	ErrSchemaInconsistency = errors.New("iface: schema inconsistency")

	// ErrBindingMismatch is returned when contract state carries a different
	// interface ID than the wrapper expects.
	ErrBindingMismatch = errors.New("iface: binding mismatch")
)

// Error is the package's structured error type.
//
// RuleID is a stable identifier (e.g. IFACE-SCHEMA-003, IFACE-ENC-010) naming
// the violated rule. Message is for humans; do not match on it.
type Error struct {
	Kind    Kind
	RuleID  string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func newError(kind Kind, ruleID, msg string) error {
	return &Error{Kind: kind, RuleID: ruleID, Message: msg}
}

func wrapError(kind Kind, ruleID, msg string, cause error) error {
	if cause == nil {
		return newError(kind, ruleID, msg)
	}
	return &Error{Kind: kind, RuleID: ruleID, Message: msg, Cause: cause}
}

func schemaError(ruleID, msg string) error {
	return wrapError(KindSchema, ruleID, msg, ErrSchemaInconsistency)
}

// IsKind reports whether err is (or wraps) a *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// RuleID returns the stable RuleID for a structured error, or "" if unknown.
func RuleID(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.RuleID
}
