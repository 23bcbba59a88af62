// Package gateway holds the contracts of the external homomorphic
// encryption engines. The engines themselves live off-process; this
// client only sequences their calls.
package gateway

import (
	"github.com/veilvote/veilvote/vote"
)

// Encryptor turns a plaintext vote value into ciphertext plus an input
// proof the ledger contract checks on create.
type Encryptor interface {
	Encrypt(target vote.Address, requester vote.Address, value uint64) (ciphertext []byte, proof []byte, err error)
}

// ProofBundle is the result of an off-chain reveal: the decrypted
// values keyed by their ciphertext handles, and the decryption proof to
// submit on-chain.
type ProofBundle struct {
	ClearValues map[string]uint64
	Proof       []byte
}

// Decryptor prepares the reveal of ciphertext handles. Submission of
// the resulting bundle belongs to the caller; the engine only decrypts
// and proves.
type Decryptor interface {
	PrepareReveal(handles []string, target vote.Address) (ProofBundle, error)
}
