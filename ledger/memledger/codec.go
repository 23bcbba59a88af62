package memledger

import (
	"time"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/veilvote/veilvote/common"
	"github.com/veilvote/veilvote/vote"
)

// recordRLP is the stored shape of a vote record. Verified is a uint
// flag instead of a bool to stay inside rlp's value set.
type recordRLP struct {
	ID            string
	Title         string
	Description   string
	Creator       string
	CreatedAt     uint64 // unix seconds
	Ciphertext    []byte
	Proof         []byte
	PublicMirror  uint64
	Reserved      uint64
	Verified      uint64
	RevealedValue uint64
	Category      string
}

func encodeRecord(r recordRLP) ([]byte, error) {
	return rlp.EncodeToBytes(r)
}

func decodeRecord(b []byte) (recordRLP, error) {
	var r recordRLP
	if err := rlp.DecodeBytes(b, &r); err != nil {
		return recordRLP{}, err
	}

	return r, nil
}

func (r recordRLP) project() vote.Record {
	record := vote.NewRecord(
		r.ID,
		r.Title,
		r.Description,
		vote.Address(r.Creator),
		common.Time{Time: time.Unix(int64(r.CreatedAt), 0)},
		r.Category,
	).SetPublicMirror(r.PublicMirror)

	if r.Verified > 0 {
		record = record.SetVerified(r.RevealedValue)
	}

	return record
}
