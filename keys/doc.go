// Package keys holds signing keys for interface release attestations.
//
// Issuer keys are written "<alg>:<base64 public key>" with alg ed25519 or
// dilithium3. Ed25519 seeds can be derived per role from a root seed and kept
// in a local KeyStore directory.
package keys
