package ledger

import (
	"github.com/veilvote/veilvote/vote"
)

// TxHandle is an opaque reference to a submitted transaction, resolved
// by AwaitConfirmation.
type TxHandle string

func (t TxHandle) String() string {
	return string(t)
}

// Reader is the read side of the vote ledger client.
type Reader interface {
	// RecordIDs enumerates every vote record id on the ledger.
	RecordIDs() ([]string, error)
	// Record fetches one record; a missing id is RecordNotFoundError.
	Record(id string) (vote.Record, error)
	// CiphertextHandle returns the opaque handle of the record's
	// encrypted value.
	CiphertextHandle(id string) (string, error)
	// SystemAvailable reports whether the encryption system backing
	// the ledger contract is usable.
	SystemAvailable() (bool, error)
}

// Writer is the write side, bound to a signer identity by its
// constructor; submissions are made on behalf of that signer.
type Writer interface {
	Signer() vote.Address
	// SubmitCreate stores a new encrypted vote record. The plaintext
	// mirror travels next to the ciphertext because the surrounding
	// contract requires the field; the reserved slot is always zero.
	SubmitCreate(
		id string,
		title string,
		ciphertext []byte,
		proof []byte,
		publicMirror uint64,
		reserved uint64,
		description string,
		category string,
	) (TxHandle, error)
	// AwaitConfirmation blocks until the submission is finalized.
	AwaitConfirmation(tx TxHandle) error
	// SubmitVerification records the decrypted values and proof; a
	// record verified by another party first is AlreadyVerifiedError.
	SubmitVerification(id string, clearValues map[string]uint64, proof []byte) error
}
