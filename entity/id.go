package entity

import "github.com/google/uuid"

// Namespace for deterministic entity identifier derivation. Fixed for the
// lifetime of the project: changing it would re-key every derived identity.
var idNamespace = uuid.MustParse("8c9d2f6e-4b1a-5e37-9c80-d41f7a2b65c3")

// DeriveID maps an arbitrary string key to a stable 128-bit identifier.
// Keys that already parse as UUIDs pass through unchanged, so identifiers
// minted upstream (for example by the extraction service) are preserved.
// All other keys are hashed into the collie namespace; identical keys always
// yield identical identifiers, across batches and across processes.
func DeriveID(key string) uuid.UUID {
	if id, err := uuid.Parse(key); err == nil {
		return id
	}
	return uuid.NewSHA1(idNamespace, []byte(key))
}
