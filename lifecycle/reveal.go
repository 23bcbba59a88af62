package lifecycle

import (
	"fmt"

	"github.com/veilvote/veilvote/common"
	"github.com/veilvote/veilvote/gateway"
	"github.com/veilvote/veilvote/ledger"
)

type RevealStage uint

const (
	RevealStageChecking RevealStage = iota
	RevealStageProving
	RevealStageVerifying
	RevealStageDone
)

func (s RevealStage) String() string {
	switch s {
	case RevealStageChecking:
		return "checking"
	case RevealStageProving:
		return "proving"
	case RevealStageVerifying:
		return "verifying"
	case RevealStageDone:
		return "done"
	default:
		return fmt.Sprintf("reveal-stage(%d)", uint(s))
	}
}

// RevealResult is the outcome of a finished reveal-vote run. Revealed
// is false on the soft already-verified path, where no value was
// decrypted by this run; the refreshed repository carries the
// authoritative one.
type RevealResult struct {
	ID       string `json:"id"`
	Value    uint64 `json:"value"`
	Revealed bool   `json:"revealed"`
}

// revealVote runs one reveal-vote lifecycle: check the ledger state,
// prepare the decryption proof off-chain, submit the verification.
type revealVote struct {
	*common.Logger
	policy    Policy
	reader    ledger.Reader
	writer    ledger.Writer
	decryptor gateway.Decryptor
	slot      *StatusSlot
	refresh   func()
	stage     RevealStage
}

func newRevealVote(
	policy Policy,
	reader ledger.Reader,
	writer ledger.Writer,
	decryptor gateway.Decryptor,
	slot *StatusSlot,
	refresh func(),
) *revealVote {
	return &revealVote{
		Logger:    common.NewLogger(log, "module", "reveal-vote"),
		policy:    policy,
		reader:    reader,
		writer:    writer,
		decryptor: decryptor,
		slot:      slot,
		refresh:   refresh,
		stage:     RevealStageChecking,
	}
}

func (rv *revealVote) advance(stage RevealStage) {
	rv.Log().Debug("stage transition", "from", rv.stage, "to", stage)
	rv.stage = stage
}

func (rv *revealVote) run(id string) (RevealResult, error) {
	// read the verification flag from the ledger, not the local
	// repository; verification is one-time and another party may have
	// won the race already
	record, err := rv.reader.Record(id)
	if err != nil {
		return RevealResult{}, rv.fail(err)
	}

	if record.IsVerified() {
		rv.advance(RevealStageDone)
		rv.slot.Set(SuccessStatus("Vote already verified on-chain"))
		rv.refresh()

		rv.Log().Debug("reveal short-circuited", "id", id, "value", record.RevealedValue())

		return RevealResult{ID: id, Value: record.RevealedValue(), Revealed: true}, nil
	}

	handle, err := rv.reader.CiphertextHandle(id)
	if err != nil {
		return RevealResult{}, rv.fail(err)
	}

	rv.advance(RevealStageProving)

	bundle, err := rv.decryptor.PrepareReveal([]string{handle}, rv.policy.ContractAddress)
	if err != nil {
		if isAlreadyVerified(err) {
			return rv.alreadyVerified(id), nil
		}

		return RevealResult{}, rv.fail(err)
	}

	rv.advance(RevealStageVerifying)
	rv.slot.Set(PendingStatus("Verifying decryption on-chain..."))

	if err := rv.writer.SubmitVerification(id, bundle.ClearValues, bundle.Proof); err != nil {
		if isAlreadyVerified(err) {
			return rv.alreadyVerified(id), nil
		}

		return RevealResult{}, rv.fail(err)
	}

	// report the value proven during this run, not a re-read; the
	// repository refresh below re-derives the ledger's state
	value := bundle.ClearValues[handle]

	rv.advance(RevealStageDone)
	rv.slot.Set(SuccessStatus("Vote decrypted and verified!"))
	rv.refresh()

	rv.Log().Info("vote revealed", "id", id, "value", value)

	return RevealResult{ID: id, Value: value, Revealed: true}, nil
}

// alreadyVerified resolves the lost race as a soft success: no value
// from this run, a refresh picks up the winner's.
func (rv *revealVote) alreadyVerified(id string) RevealResult {
	rv.advance(RevealStageDone)
	rv.slot.Set(SuccessStatus("Vote is already verified"))
	rv.refresh()

	rv.Log().Debug("reveal lost verification race", "id", id)

	return RevealResult{ID: id}
}

func (rv *revealVote) fail(err error) error {
	rv.Log().Error("reveal-vote failed", "stage", rv.stage, "error", err)
	rv.slot.Set(ErrorStatus("Decryption failed: %s", causeOf(err)))

	return err
}

func isAlreadyVerified(err error) bool {
	return gateway.AlreadyVerifiedError.Equal(err) || ledger.AlreadyVerifiedError.Equal(err)
}
