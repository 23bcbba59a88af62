package lifecycle

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/xerrors"

	"github.com/veilvote/veilvote/gateway"
	"github.com/veilvote/veilvote/ledger"
	"github.com/veilvote/veilvote/vote"
)

type testCreateVote struct {
	suite.Suite
	harness *harness
}

func (t *testCreateVote) SetupTest() {
	h, err := newHarness(testSigner)
	t.NoError(err)

	t.harness = h
}

func (t *testCreateVote) TearDownTest() {
	t.harness.close()
}

func (t *testCreateVote) TestHappyPath() {
	result, err := t.harness.ct.CreateVote("City budget", "3", "allocate funds", "governance")
	t.NoError(err)
	t.True(strings.HasPrefix(result.ID, "vote-"))
	t.NotEmpty(result.Tx)

	record, err := t.harness.ledger.Record(result.ID)
	t.NoError(err)
	t.Equal("City budget", record.Title())
	t.Equal("governance", record.Category())
	t.True(record.Creator().Equal(testSigner))
	t.False(record.IsVerified())
	t.Equal(uint64(3), record.PublicMirror())

	// the created record is visible without a manual refresh
	t.Equal(1, t.harness.ct.Repository().Len())

	status := t.harness.ct.Status()
	t.Equal(PhaseSuccess, status.Phase())
	t.Equal("Encrypted vote created successfully!", status.Message())
}

func (t *testCreateVote) TestCiphertextRoundTrip() {
	result, err := t.harness.ct.CreateVote("Park renewal", "42", "", "")
	t.NoError(err)

	handle, err := t.harness.ledger.CiphertextHandle(result.ID)
	t.NoError(err)

	bundle, err := t.harness.engine.PrepareReveal([]string{handle}, t.harness.ct.Policy().ContractAddress)
	t.NoError(err)
	t.Equal(uint64(42), bundle.ClearValues[handle])
}

func (t *testCreateVote) TestEmptyTitle() {
	_, err := t.harness.ct.CreateVote("   ", "1", "", "")
	t.True(ValidationError.Equal(err))

	// rejected before any side effect
	t.Equal(0, t.harness.encryptor.Calls())
	t.Equal(0, t.harness.ct.Repository().Len())

	status := t.harness.ct.Status()
	t.Equal(PhaseError, status.Phase())
	t.Contains(status.Message(), "Creation failed")
}

func (t *testCreateVote) TestUnparsableValue() {
	for _, raw := range []string{"", "abc", "-3", "1.5", "1e3"} {
		_, err := t.harness.ct.CreateVote("Budget", raw, "", "")
		t.True(ValidationError.Equal(err), "value=%q", raw)
	}

	t.Equal(0, t.harness.encryptor.Calls())
}

func (t *testCreateVote) TestUnauthenticated() {
	h, err := newHarness(vote.EmptyAddress)
	t.NoError(err)
	defer h.close()

	_, err = h.ct.CreateVote("Budget", "1", "", "")
	t.True(UnauthenticatedError.Equal(err))
	t.Equal(0, h.encryptor.Calls())

	status := h.ct.Status()
	t.Equal(PhaseError, status.Phase())
	t.Equal("Please connect wallet first", status.Message())
}

func (t *testCreateVote) TestEncryptCancelled() {
	t.harness.engine.CancelNextEncrypt()

	_, err := t.harness.ct.CreateVote("Budget", "1", "", "")
	t.True(gateway.UserCancelledError.Equal(err))

	status := t.harness.ct.Status()
	t.Equal(PhaseError, status.Phase())
	t.Equal("Transaction rejected", status.Message())
	t.Equal(0, t.harness.ct.Repository().Len())
}

func (t *testCreateVote) TestEncryptFailed() {
	t.harness.engine.FailNextEncrypt(xerrors.Errorf("relayer timeout"))

	_, err := t.harness.ct.CreateVote("Budget", "1", "", "")
	t.Error(err)

	status := t.harness.ct.Status()
	t.Equal(PhaseError, status.Phase())
	t.Contains(status.Message(), "Creation failed")
	t.Contains(status.Message(), "relayer timeout")
}

func (t *testCreateVote) TestSubmitRejected() {
	t.harness.ledger.RejectNextSubmit()

	_, err := t.harness.ct.CreateVote("Budget", "1", "", "")
	t.True(ledger.UserRejectedError.Equal(err))

	t.Equal("Transaction rejected", t.harness.ct.Status().Message())
	t.Equal(0, t.harness.ct.Repository().Len())
}

func (t *testCreateVote) TestConfirmationFailed() {
	t.harness.ledger.FailNextConfirmation(xerrors.Errorf("dropped from mempool"))

	_, err := t.harness.ct.CreateVote("Budget", "1", "", "")
	t.True(ledger.ConfirmationFailedError.Equal(err))

	// a failed confirmation leaves no record behind
	ids, err := t.harness.ledger.RecordIDs()
	t.NoError(err)
	t.Empty(ids)

	status := t.harness.ct.Status()
	t.Equal(PhaseError, status.Phase())
	t.Contains(status.Message(), "Creation failed")
}

func (t *testCreateVote) TestStatusSequence() {
	watch := t.harness.ct.WatchStatus()

	initial, ok := nextStatus(watch, time.Second)
	t.True(ok)
	t.True(initial.IsIdle())

	_, err := t.harness.ct.CreateVote("Budget", "1", "", "")
	t.NoError(err)

	expected := []string{
		"Creating encrypted vote with FHE...",
		"Waiting for transaction confirmation...",
		"Encrypted vote created successfully!",
	}
	for _, message := range expected {
		status, ok := nextStatus(watch, time.Second)
		t.True(ok)
		t.Equal(message, status.Message())
	}

	// the success status reverts to idle after its window
	reverted, ok := waitPhase(watch, PhaseIdle, time.Second)
	t.True(ok)
	t.True(reverted.IsIdle())
}

func (t *testCreateVote) TestCategoryDefault() {
	result, err := t.harness.ct.CreateVote("Budget", "1", "", "")
	t.NoError(err)

	record, err := t.harness.ledger.Record(result.ID)
	t.NoError(err)
	t.Equal("general", record.Category())
}

func (t *testCreateVote) TestNotBusyAfterRun() {
	t.False(t.harness.ct.Busy())

	_, err := t.harness.ct.CreateVote("Budget", "1", "", "")
	t.NoError(err)
	t.False(t.harness.ct.Busy())
}

func TestCreateVote(t *testing.T) {
	suite.Run(t, &testCreateVote{})
}
