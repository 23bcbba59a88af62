package lifecycle

import (
	"sync/atomic"
	"time"

	"github.com/veilvote/veilvote/gateway"
	"github.com/veilvote/veilvote/gateway/fhesim"
	"github.com/veilvote/veilvote/ledger"
	"github.com/veilvote/veilvote/ledger/memledger"
	"github.com/veilvote/veilvote/vote"
)

var testSigner = vote.Address("0x1f9840a85d5aF5bf1D1762F925BDADdC4201F984")

// countingReader counts enumerations so tests can assert how often the
// repository was rebuilt.
type countingReader struct {
	ledger.Reader
	enumerated int32
}

func (r *countingReader) RecordIDs() ([]string, error) {
	atomic.AddInt32(&r.enumerated, 1)

	return r.Reader.RecordIDs()
}

func (r *countingReader) Enumerated() int {
	return int(atomic.LoadInt32(&r.enumerated))
}

type countingEncryptor struct {
	gateway.Encryptor
	calls int32
}

func (e *countingEncryptor) Encrypt(target, requester vote.Address, value uint64) ([]byte, []byte, error) {
	atomic.AddInt32(&e.calls, 1)

	return e.Encryptor.Encrypt(target, requester, value)
}

func (e *countingEncryptor) Calls() int {
	return int(atomic.LoadInt32(&e.calls))
}

type countingDecryptor struct {
	gateway.Decryptor
	calls int32
}

func (d *countingDecryptor) PrepareReveal(handles []string, target vote.Address) (gateway.ProofBundle, error) {
	atomic.AddInt32(&d.calls, 1)

	return d.Decryptor.PrepareReveal(handles, target)
}

func (d *countingDecryptor) Calls() int {
	return int(atomic.LoadInt32(&d.calls))
}

// harness wires a real in-memory ledger and simulated engine behind a
// controller, with status windows short enough to observe reverts.
type harness struct {
	ledger    *memledger.Ledger
	engine    *fhesim.Engine
	reader    *countingReader
	encryptor *countingEncryptor
	decryptor *countingDecryptor
	ct        *Controller
}

func testPolicy() Policy {
	return Policy{
		SuccessStatusWindow: time.Millisecond * 30,
		ErrorStatusWindow:   time.Millisecond * 50,
		ContractAddress:     vote.Address("0xFHEVoting000000000000000000000000000000"),
	}
}

func newHarness(signer vote.Address) (*harness, error) {
	l, err := memledger.New()
	if err != nil {
		return nil, err
	}

	engine := fhesim.New([]byte("lifecycle-test-key"), l.Ciphertext)
	l.SetProofCheck(engine.CheckProof)

	reader := &countingReader{Reader: l}
	encryptor := &countingEncryptor{Encryptor: engine}
	decryptor := &countingDecryptor{Decryptor: engine}

	var writer ledger.Writer
	if !signer.IsEmpty() {
		writer = l.SignerWriter(signer)
	}

	ct, err := NewController(testPolicy(), reader, writer, encryptor, decryptor)
	if err != nil {
		_ = l.Close()
		return nil, err
	}

	return &harness{
		ledger:    l,
		engine:    engine,
		reader:    reader,
		encryptor: encryptor,
		decryptor: decryptor,
		ct:        ct,
	}, nil
}

func (h *harness) close() {
	_ = h.ct.Close()
	_ = h.ledger.Close()
}

// seed writes a confirmed record straight into the ledger, bypassing
// the controller.
func (h *harness) seed(id, title string, value uint64, category string) error {
	ciphertext, proof, err := h.engine.Encrypt(h.ct.Policy().ContractAddress, testSigner, value)
	if err != nil {
		return err
	}

	writer := h.ledger.SignerWriter(testSigner)
	tx, err := writer.SubmitCreate(id, title, ciphertext, proof, value, 0, "seeded", category)
	if err != nil {
		return err
	}

	return writer.AwaitConfirmation(tx)
}

// nextStatus waits for one status change, skipping nothing.
func nextStatus(ch <-chan Status, timeout time.Duration) (Status, bool) {
	select {
	case status := <-ch:
		return status, true
	case <-time.After(timeout):
		return Status{}, false
	}
}

// waitPhase drains the channel until the wanted phase or timeout.
func waitPhase(ch <-chan Status, phase Phase, timeout time.Duration) (Status, bool) {
	deadline := time.After(timeout)
	for {
		select {
		case status := <-ch:
			if status.Phase() == phase {
				return status, true
			}
		case <-deadline:
			return Status{}, false
		}
	}
}
