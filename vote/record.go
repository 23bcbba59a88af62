package vote

import (
	"encoding/json"

	"github.com/veilvote/veilvote/common"
)

const DefaultCategory = "general"

// Record is one on-ledger vote as seen by this client session. Records
// are value types; the ledger is the only writer, so a Record is either
// the projection of a ledger read or an updated copy of one.
type Record struct {
	id            string
	title         string
	description   string
	creator       Address
	createdAt     common.Time
	ciphertextRef string
	isVerified    bool
	revealedValue uint64
	publicMirror  uint64
	category      string
}

// NewRecord projects a ledger read; the ciphertext reference equals the
// record id in the current encoding, one ciphertext per record.
func NewRecord(id, title, description string, creator Address, createdAt common.Time, category string) Record {
	if len(category) < 1 {
		category = DefaultCategory
	}

	return Record{
		id:            id,
		title:         title,
		description:   description,
		creator:       creator,
		createdAt:     createdAt,
		ciphertextRef: id,
		category:      category,
	}
}

func (r Record) ID() string {
	return r.id
}

func (r Record) Title() string {
	return r.title
}

func (r Record) Description() string {
	return r.description
}

func (r Record) Creator() Address {
	return r.creator
}

func (r Record) CreatedAt() common.Time {
	return r.createdAt
}

func (r Record) CiphertextRef() string {
	return r.ciphertextRef
}

func (r Record) IsVerified() bool {
	return r.isVerified
}

// RevealedValue is meaningless until IsVerified.
func (r Record) RevealedValue() uint64 {
	return r.revealedValue
}

// PublicMirror is the plaintext companion the surrounding contract
// stores next to the ciphertext on create. It is carried verbatim and
// never trusted for anything the ciphertext answers.
// TODO drop once the contract stops requiring the plaintext field.
func (r Record) PublicMirror() uint64 {
	return r.publicMirror
}

func (r Record) Category() string {
	return r.category
}

// SetVerified marks the verified cleartext; verification is monotonic,
// an already verified record keeps its first value.
func (r Record) SetVerified(value uint64) Record {
	if r.isVerified {
		return r
	}

	r.isVerified = true
	r.revealedValue = value

	return r
}

func (r Record) SetPublicMirror(value uint64) Record {
	r.publicMirror = value
	return r
}

func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"id":             r.id,
		"title":          r.title,
		"description":    r.description,
		"creator":        r.creator,
		"created_at":     r.createdAt,
		"ciphertext_ref": r.ciphertextRef,
		"is_verified":    r.isVerified,
		"revealed_value": r.revealedValue,
		"public_mirror":  r.publicMirror,
		"category":       r.category,
	})
}
