// Package memledger is an in-process vote ledger satisfying the
// ledger.Reader and ledger.Writer contracts. It keeps the session's
// records in an in-memory leveldb; nothing survives Close. It stands in
// for the on-chain contract client in tests and the simulator, and its
// verification gate reproduces the contract's first-writer-wins
// semantics.
package memledger

import (
	"sync"

	"github.com/inconshreveable/log15"
	"github.com/syndtr/goleveldb/leveldb"
	leveldbStorage "github.com/syndtr/goleveldb/leveldb/storage"
	leveldbUtil "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/veilvote/veilvote/common"
	"github.com/veilvote/veilvote/ledger"
	"github.com/veilvote/veilvote/vote"
)

var log log15.Logger = log15.New("module", "memledger")

func Log() log15.Logger {
	return log
}

var recordKeyPrefix = []byte("r:")

func recordKey(id string) []byte {
	return append(recordKeyPrefix, []byte(id)...)
}

// ProofCheck validates a decryption proof before verification is
// accepted; nil means the ledger accepts any proof.
type ProofCheck func(id string, clearValue uint64, proof []byte) error

type Ledger struct {
	sync.RWMutex
	*common.Logger
	db         *leveldb.DB
	pending    map[ledger.TxHandle]string
	proofCheck ProofCheck
	available  bool

	// fault injection for tests and the simulator
	enumerateErr error
	fetchErrs    map[string]error
	rejectNext   bool
	confirmErr   error
}

func New() (*Ledger, error) {
	db, err := leveldb.Open(leveldbStorage.NewMemStorage(), nil)
	if err != nil {
		return nil, LevelDBError.SetError(err)
	}

	return &Ledger{
		Logger:    common.NewLogger(log, "module", "memledger"),
		db:        db,
		pending:   map[ledger.TxHandle]string{},
		fetchErrs: map[string]error{},
		available: true,
	}, nil
}

func (l *Ledger) Close() error {
	l.Lock()
	defer l.Unlock()

	if l.db == nil {
		return nil
	}

	if err := l.db.Close(); err != nil {
		return LevelDBError.SetError(err)
	}

	l.db = nil

	return nil
}

func (l *Ledger) SetProofCheck(check ProofCheck) *Ledger {
	l.Lock()
	defer l.Unlock()

	l.proofCheck = check

	return l
}

func (l *Ledger) SetAvailable(available bool) *Ledger {
	l.Lock()
	defer l.Unlock()

	l.available = available

	return l
}

// SetEnumerationError makes every RecordIDs call fail until cleared
// with nil.
func (l *Ledger) SetEnumerationError(err error) *Ledger {
	l.Lock()
	defer l.Unlock()

	l.enumerateErr = err

	return l
}

// SetFetchError makes fetches of one record fail until cleared with
// nil.
func (l *Ledger) SetFetchError(id string, err error) *Ledger {
	l.Lock()
	defer l.Unlock()

	if err == nil {
		delete(l.fetchErrs, id)
	} else {
		l.fetchErrs[id] = err
	}

	return l
}

// RejectNextSubmit makes the next SubmitCreate fail as a signer
// rejection.
func (l *Ledger) RejectNextSubmit() *Ledger {
	l.Lock()
	defer l.Unlock()

	l.rejectNext = true

	return l
}

// FailNextConfirmation makes the next AwaitConfirmation fail with err.
func (l *Ledger) FailNextConfirmation(err error) *Ledger {
	l.Lock()
	defer l.Unlock()

	l.confirmErr = err

	return l
}

func (l *Ledger) RecordIDs() ([]string, error) {
	l.RLock()
	defer l.RUnlock()

	if l.db == nil {
		return nil, NotOpenError
	}

	if l.enumerateErr != nil {
		return nil, ledger.EnumerationFailedError.SetError(l.enumerateErr)
	}

	var ids []string
	iter := l.db.NewIterator(leveldbUtil.BytesPrefix(recordKeyPrefix), nil)
	for iter.Next() {
		ids = append(ids, string(iter.Key()[len(recordKeyPrefix):]))
	}
	iter.Release()

	if err := iter.Error(); err != nil {
		return nil, ledger.EnumerationFailedError.SetError(err)
	}

	return ids, nil
}

func (l *Ledger) Record(id string) (vote.Record, error) {
	l.RLock()
	defer l.RUnlock()

	r, err := l.record(id)
	if err != nil {
		return vote.Record{}, err
	}

	return r.project(), nil
}

func (l *Ledger) CiphertextHandle(id string) (string, error) {
	l.RLock()
	defer l.RUnlock()

	if _, err := l.record(id); err != nil {
		return "", err
	}

	// one ciphertext per record; the handle is the record id
	return id, nil
}

// Ciphertext resolves a handle to the stored ciphertext bytes; the
// decryption engine reads through this.
func (l *Ledger) Ciphertext(handle string) ([]byte, error) {
	l.RLock()
	defer l.RUnlock()

	r, err := l.record(handle)
	if err != nil {
		return nil, err
	}

	return r.Ciphertext, nil
}

func (l *Ledger) SystemAvailable() (bool, error) {
	l.RLock()
	defer l.RUnlock()

	if l.db == nil {
		return false, NotOpenError
	}

	return l.available, nil
}

func (l *Ledger) record(id string) (recordRLP, error) {
	if l.db == nil {
		return recordRLP{}, NotOpenError
	}

	if err, found := l.fetchErrs[id]; found {
		return recordRLP{}, err
	}

	b, err := l.db.Get(recordKey(id), nil)
	if err == leveldb.ErrNotFound {
		return recordRLP{}, ledger.RecordNotFoundError.SetMessage("record not found; id=%q", id)
	} else if err != nil {
		return recordRLP{}, LevelDBError.SetError(err)
	}

	return decodeRecord(b)
}

func (l *Ledger) putRecord(r recordRLP) error {
	b, err := encodeRecord(r)
	if err != nil {
		return err
	}

	if err := l.db.Put(recordKey(r.ID), b, nil); err != nil {
		return LevelDBError.SetError(err)
	}

	return nil
}

// SignerWriter binds a ledger.Writer to the signer identity, the way a
// contract client is bound to a connected wallet.
func (l *Ledger) SignerWriter(signer vote.Address) ledger.Writer {
	return &signerWriter{ledger: l, signer: signer}
}

type signerWriter struct {
	ledger *Ledger
	signer vote.Address
}

func (w *signerWriter) Signer() vote.Address {
	return w.signer
}

func (w *signerWriter) SubmitCreate(
	id string,
	title string,
	ciphertext []byte,
	proof []byte,
	publicMirror uint64,
	reserved uint64,
	description string,
	category string,
) (ledger.TxHandle, error) {
	l := w.ledger

	l.Lock()
	defer l.Unlock()

	if l.db == nil {
		return "", NotOpenError
	}

	if l.rejectNext {
		l.rejectNext = false
		return "", ledger.UserRejectedError
	}

	if _, err := l.record(id); err == nil {
		return "", ledger.RecordAlreadyExistsError.SetMessage("record already exists; id=%q", id)
	} else if !ledger.RecordNotFoundError.Equal(err) {
		return "", err
	}

	r := recordRLP{
		ID:           id,
		Title:        title,
		Description:  description,
		Creator:      w.signer.String(),
		CreatedAt:    uint64(common.Now().Unix()),
		Ciphertext:   ciphertext,
		Proof:        proof,
		PublicMirror: publicMirror,
		Reserved:     reserved,
		Category:     category,
	}

	if err := l.putRecord(r); err != nil {
		return "", ledger.SubmissionFailedError.SetError(err)
	}

	tx := ledger.TxHandle(common.RandomUUID())
	l.pending[tx] = id

	l.Log().Debug("create submitted", "id", id, "tx", tx, "signer", w.signer)

	return tx, nil
}

func (w *signerWriter) AwaitConfirmation(tx ledger.TxHandle) error {
	l := w.ledger

	l.Lock()
	defer l.Unlock()

	id, found := l.pending[tx]
	if !found {
		return UnknownTxError.SetMessage("unknown transaction handle; tx=%q", tx)
	}
	delete(l.pending, tx)

	if l.confirmErr != nil {
		err := l.confirmErr
		l.confirmErr = nil

		// the submission never finalized; drop the record again
		_ = l.db.Delete(recordKey(id), nil)

		return ledger.ConfirmationFailedError.SetError(err)
	}

	l.Log().Debug("transaction confirmed", "id", id, "tx", tx)

	return nil
}

func (w *signerWriter) SubmitVerification(id string, clearValues map[string]uint64, proof []byte) error {
	l := w.ledger

	l.Lock()
	defer l.Unlock()

	r, err := l.record(id)
	if err != nil {
		return err
	}

	if r.Verified > 0 {
		return ledger.AlreadyVerifiedError
	}

	clear, found := clearValues[id]
	if !found {
		return ledger.SubmissionFailedError.SetMessage("no clear value for handle; handle=%q", id)
	}

	if l.proofCheck != nil {
		if err := l.proofCheck(id, clear, proof); err != nil {
			return ledger.SubmissionFailedError.SetError(err)
		}
	}

	r.Verified = 1
	r.RevealedValue = clear
	if err := l.putRecord(r); err != nil {
		return ledger.SubmissionFailedError.SetError(err)
	}

	l.Log().Debug("verification accepted", "id", id, "value", clear, "signer", w.signer)

	return nil
}
