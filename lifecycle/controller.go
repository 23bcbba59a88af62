package lifecycle

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/veilvote/veilvote/common"
	"github.com/veilvote/veilvote/gateway"
	"github.com/veilvote/veilvote/ledger"
	"github.com/veilvote/veilvote/vote"
)

// Controller owns the create-vote and reveal-vote lifecycles for one
// client session. It coordinates the encryption gateways and the
// ledger client, keeps the session repository fresh, and projects the
// shared operation status for the presentation layer.
//
// Operations return their own results; the status slot is only the UI
// projection and keeps the last-writer-wins behavior of a single
// shared toast.
type Controller struct {
	sync.RWMutex
	*common.Logger
	policy     Policy
	reader     ledger.Reader
	writer     ledger.Writer
	encryptor  gateway.Encryptor
	decryptor  gateway.Decryptor
	repository *Repository
	slot       *StatusSlot
	creating   int32
}

func NewController(
	policy Policy,
	reader ledger.Reader,
	writer ledger.Writer,
	encryptor gateway.Encryptor,
	decryptor gateway.Decryptor,
) (*Controller, error) {
	if err := policy.IsValid(); err != nil {
		return nil, err
	}

	return &Controller{
		Logger:     common.NewLogger(log, "module", "controller"),
		policy:     policy,
		reader:     reader,
		writer:     writer,
		encryptor:  encryptor,
		decryptor:  decryptor,
		repository: NewRepository(reader),
		slot:       NewStatusSlot(policy),
	}, nil
}

func (c *Controller) Policy() Policy {
	return c.policy
}

// Identity is the current signer; empty when no wallet is connected.
func (c *Controller) Identity() vote.Address {
	c.RLock()
	defer c.RUnlock()

	if c.writer == nil {
		return vote.EmptyAddress
	}

	return c.writer.Signer()
}

// SetWriter swaps the signer-bound ledger writer, e.g. after a wallet
// reconnect.
func (c *Controller) SetWriter(writer ledger.Writer) {
	c.Lock()
	defer c.Unlock()

	c.writer = writer
}

func (c *Controller) Status() Status {
	return c.slot.Current()
}

func (c *Controller) WatchStatus() <-chan Status {
	return c.slot.Watch()
}

func (c *Controller) Repository() *Repository {
	return c.repository
}

func (c *Controller) Stats() vote.Stats {
	return c.repository.Stats(c.Identity())
}

func (c *Controller) History() []vote.Record {
	return c.repository.History(c.Identity())
}

func (c *Controller) Filter(search, category string) []vote.Record {
	return c.repository.Filter(search, category)
}

// Busy reports whether a create-vote run is in flight. It is
// advisory: callers are expected to disable the trigger, the machine
// itself never queues or rejects overlap.
func (c *Controller) Busy() bool {
	return atomic.LoadInt32(&c.creating) > 0
}

// RefreshRecords rebuilds the repository from the ledger. Only a
// failing enumeration is terminal; it is also surfaced on the status
// slot.
func (c *Controller) RefreshRecords() ([]vote.Record, error) {
	records, err := c.repository.Refresh()
	if err != nil {
		c.Log().Error("refresh failed", "error", err)
		c.slot.Set(ErrorStatus("Failed to load votes"))

		return nil, err
	}

	return records, nil
}

// refreshAfter is the post-operation refresh; the operation already
// resolved, so a refresh failure only surfaces on the status slot.
func (c *Controller) refreshAfter() {
	_, _ = c.RefreshRecords()
}

// CreateVote validates the raw form fields and runs the create-vote
// lifecycle: encrypt the value, submit the record, await confirmation,
// refresh the repository.
func (c *Controller) CreateVote(title, rawValue, description, category string) (CreateResult, error) {
	atomic.AddInt32(&c.creating, 1)
	defer atomic.AddInt32(&c.creating, -1)

	checker := common.NewChainChecker(
		"create-vote",
		context.Background(),
		checkerSigner,
		checkerCreateInput,
	)
	checker.
		SetContext("signer", c.Identity()).
		SetContext("title", title).
		SetContext("rawValue", rawValue).
		SetContext("description", description).
		SetContext("category", category)

	if err := checker.Check(); err != nil {
		return CreateResult{}, c.blocked("Creation failed", err)
	}

	var input vote.Input
	if err := checker.ContextValue("input", &input); err != nil {
		return CreateResult{}, err
	}

	c.RLock()
	writer := c.writer
	c.RUnlock()

	result, err := newCreateVote(c.policy, writer, c.encryptor, c.slot).run(input)
	if err != nil {
		return CreateResult{}, err
	}

	c.refreshAfter()

	return result, nil
}

// RevealVote runs the reveal-vote lifecycle for one record id: check
// the on-ledger verification flag, prepare the decryption proof,
// submit the verification, refresh the repository.
func (c *Controller) RevealVote(id string) (RevealResult, error) {
	checker := common.NewChainChecker(
		"reveal-vote",
		context.Background(),
		checkerSigner,
		checkerRecordID,
	)
	checker.
		SetContext("signer", c.Identity()).
		SetContext("id", id)

	if err := checker.Check(); err != nil {
		return RevealResult{}, c.blocked("Decryption failed", err)
	}

	c.RLock()
	writer := c.writer
	c.RUnlock()

	return newRevealVote(c.policy, c.reader, writer, c.decryptor, c.slot, c.refreshAfter).run(id)
}

// CheckAvailability asks the ledger whether the encryption system is
// usable.
func (c *Controller) CheckAvailability() (bool, error) {
	available, err := c.reader.SystemAvailable()
	if err != nil {
		c.Log().Error("availability check failed", "error", err)
		c.slot.Set(ErrorStatus("Availability check failed"))

		return false, err
	}

	if available {
		c.slot.Set(SuccessStatus("FHE system is available!"))
	}

	return available, nil
}

// Close releases the status slot; the controller itself holds no other
// resources.
func (c *Controller) Close() error {
	return c.slot.Close()
}

// blocked maps a pre-side-effect rejection to its status and returns
// the error unchanged.
func (c *Controller) blocked(prefix string, err error) error {
	c.Log().Debug("operation blocked", "error", err)

	if UnauthenticatedError.Equal(err) {
		c.slot.Set(ErrorStatus("Please connect wallet first"))
	} else {
		c.slot.Set(ErrorStatus("%s: %s", prefix, causeOf(err)))
	}

	return err
}
