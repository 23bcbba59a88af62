// Package fhesim is a deterministic stand-in for the off-process
// encryption engines. It is not cryptography: a keyed hash stream hides
// the value and keyed hashes act as proofs, just enough for the ledger
// gate and the lifecycle machines to be exercised end to end.
package fhesim

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"sort"
	"sync"

	"github.com/btcsuite/btcutil/base58"
	"github.com/inconshreveable/log15"
	"golang.org/x/xerrors"

	"github.com/veilvote/veilvote/common"
	"github.com/veilvote/veilvote/gateway"
	"github.com/veilvote/veilvote/vote"
)

var log log15.Logger = log15.New("module", "fhesim")

func Log() log15.Logger {
	return log
}

const proofSize = sha256.Size

var (
	inputDomain  = []byte("veilvote-input")
	revealDomain = []byte("veilvote-reveal")
)

// CiphertextLookup resolves a ciphertext handle to the stored bytes;
// the ledger provides it.
type CiphertextLookup func(handle string) ([]byte, error)

type Engine struct {
	sync.Mutex
	*common.Logger
	key    []byte
	lookup CiphertextLookup

	cancelNext     bool
	nextRevealErr  error
	nextEncryptErr error
}

func New(key []byte, lookup CiphertextLookup) *Engine {
	return &Engine{
		Logger: common.NewLogger(log, "module", "fhesim"),
		key:    key,
		lookup: lookup,
	}
}

// CancelNextEncrypt simulates the signer rejecting the engine prompt.
func (e *Engine) CancelNextEncrypt() *Engine {
	e.Lock()
	defer e.Unlock()

	e.cancelNext = true

	return e
}

// FailNextEncrypt makes the next Encrypt fail with err.
func (e *Engine) FailNextEncrypt(err error) *Engine {
	e.Lock()
	defer e.Unlock()

	e.nextEncryptErr = err

	return e
}

// FailNextReveal makes the next PrepareReveal fail with err.
func (e *Engine) FailNextReveal(err error) *Engine {
	e.Lock()
	defer e.Unlock()

	e.nextRevealErr = err

	return e
}

func (e *Engine) keystream() []byte {
	h := sha256.New()
	h.Write(e.key)
	h.Write([]byte("stream"))

	return h.Sum(nil)
}

func (e *Engine) Encrypt(target, requester vote.Address, value uint64) ([]byte, []byte, error) {
	e.Lock()
	defer e.Unlock()

	if e.cancelNext {
		e.cancelNext = false
		return nil, nil, gateway.UserCancelledError
	}

	if e.nextEncryptErr != nil {
		err := e.nextEncryptErr
		e.nextEncryptErr = nil
		return nil, nil, gateway.EncryptFailedError.SetError(err)
	}

	ks := e.keystream()

	ciphertext := make([]byte, 8)
	binary.BigEndian.PutUint64(ciphertext, value)
	for i := range ciphertext {
		ciphertext[i] ^= ks[i]
	}

	proof := e.inputProof(ciphertext)

	e.Log().Debug("value encrypted",
		"target", target,
		"requester", requester,
		"ciphertext", Fingerprint(ciphertext),
	)

	return ciphertext, proof, nil
}

func (e *Engine) PrepareReveal(handles []string, target vote.Address) (gateway.ProofBundle, error) {
	e.Lock()
	defer e.Unlock()

	if e.nextRevealErr != nil {
		err := e.nextRevealErr
		e.nextRevealErr = nil

		if ge, ok := err.(common.Error); ok {
			return gateway.ProofBundle{}, ge
		}

		return gateway.ProofBundle{}, gateway.RevealFailedError.SetError(err)
	}

	if len(handles) < 1 {
		return gateway.ProofBundle{}, gateway.RevealFailedError.SetMessage("no handles given")
	}

	sorted := make([]string, len(handles))
	copy(sorted, handles)
	sort.Strings(sorted)

	ks := e.keystream()

	bundle := gateway.ProofBundle{ClearValues: map[string]uint64{}}
	for _, handle := range sorted {
		ciphertext, err := e.lookup(handle)
		if err != nil {
			return gateway.ProofBundle{}, gateway.RevealFailedError.SetError(err)
		}

		if len(ciphertext) != 8 {
			return gateway.ProofBundle{}, gateway.RevealFailedError.SetMessage(
				"malformed ciphertext; handle=%q", handle,
			)
		}

		plain := make([]byte, 8)
		for i := range plain {
			plain[i] = ciphertext[i] ^ ks[i]
		}

		value := binary.BigEndian.Uint64(plain)
		bundle.ClearValues[handle] = value
		bundle.Proof = append(bundle.Proof, e.revealProof(handle, value)...)
	}

	e.Log().Debug("reveal prepared", "target", target, "handles", len(handles))

	return bundle, nil
}

// CheckProof is the ledger-side validation of a reveal bundle: the
// per-handle proof for (id, clearValue) must appear among the bundle's
// proof chunks. It matches the memledger's proof check signature.
func (e *Engine) CheckProof(id string, clearValue uint64, proof []byte) error {
	if len(proof) < proofSize || len(proof)%proofSize != 0 {
		return xerrors.Errorf("malformed decryption proof; size=%d", len(proof))
	}

	expected := e.revealProof(id, clearValue)
	for off := 0; off < len(proof); off += proofSize {
		if bytes.Equal(proof[off:off+proofSize], expected) {
			return nil
		}
	}

	return xerrors.Errorf("decryption proof does not cover handle; handle=%q", id)
}

func (e *Engine) inputProof(ciphertext []byte) []byte {
	h := sha256.New()
	h.Write(inputDomain)
	h.Write(e.key)
	h.Write(ciphertext)

	return h.Sum(nil)
}

func (e *Engine) revealProof(handle string, value uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, value)

	h := sha256.New()
	h.Write(revealDomain)
	h.Write(e.key)
	h.Write([]byte(handle))
	h.Write(b)

	return h.Sum(nil)
}

// Fingerprint renders bytes the way hashes are usually logged.
func Fingerprint(b []byte) string {
	sum := sha256.Sum256(b)
	return base58.Encode(sum[:8])
}
