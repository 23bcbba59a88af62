package lifecycle

import (
	"fmt"

	"github.com/veilvote/veilvote/common"
	"github.com/veilvote/veilvote/gateway"
	"github.com/veilvote/veilvote/ledger"
	"github.com/veilvote/veilvote/vote"
)

type CreateStage uint

const (
	CreateStageEncrypting CreateStage = iota
	CreateStageSubmitting
	CreateStageConfirming
	CreateStageDone
)

func (s CreateStage) String() string {
	switch s {
	case CreateStageEncrypting:
		return "encrypting"
	case CreateStageSubmitting:
		return "submitting"
	case CreateStageConfirming:
		return "confirming"
	case CreateStageDone:
		return "done"
	default:
		return fmt.Sprintf("create-stage(%d)", uint(s))
	}
}

// CreateResult is the outcome of a finished create-vote run.
type CreateResult struct {
	ID string          `json:"id"`
	Tx ledger.TxHandle `json:"tx"`
}

// createVote runs one create-vote lifecycle: encrypt, submit, confirm.
// One instance per run; the machine never goes backwards.
type createVote struct {
	*common.Logger
	policy    Policy
	writer    ledger.Writer
	encryptor gateway.Encryptor
	slot      *StatusSlot
	stage     CreateStage
}

func newCreateVote(policy Policy, writer ledger.Writer, encryptor gateway.Encryptor, slot *StatusSlot) *createVote {
	return &createVote{
		Logger:    common.NewLogger(log, "module", "create-vote"),
		policy:    policy,
		writer:    writer,
		encryptor: encryptor,
		slot:      slot,
		stage:     CreateStageEncrypting,
	}
}

func (cv *createVote) advance(stage CreateStage) {
	cv.Log().Debug("stage transition", "from", cv.stage, "to", stage)
	cv.stage = stage
}

func (cv *createVote) run(input vote.Input) (CreateResult, error) {
	cv.slot.Set(PendingStatus("Creating encrypted vote with FHE..."))

	signer := cv.writer.Signer()

	ciphertext, proof, err := cv.encryptor.Encrypt(cv.policy.ContractAddress, signer, input.Value())
	if err != nil {
		return CreateResult{}, cv.fail(err)
	}

	cv.advance(CreateStageSubmitting)

	id := fmt.Sprintf("vote-%d", common.Now().UnixMillis())

	// the plaintext value travels next to its ciphertext; the contract
	// requires the mirror field on create
	tx, err := cv.writer.SubmitCreate(
		id,
		input.Title(),
		ciphertext,
		proof,
		input.Value(),
		0,
		input.Description(),
		input.Category(),
	)
	if err != nil {
		return CreateResult{}, cv.fail(err)
	}

	cv.advance(CreateStageConfirming)
	cv.slot.Set(PendingStatus("Waiting for transaction confirmation..."))

	if err := cv.writer.AwaitConfirmation(tx); err != nil {
		return CreateResult{}, cv.fail(err)
	}

	cv.advance(CreateStageDone)
	cv.slot.Set(SuccessStatus("Encrypted vote created successfully!"))

	cv.Log().Info("encrypted vote created", "id", id, "tx", tx, "signer", signer)

	return CreateResult{ID: id, Tx: tx}, nil
}

// fail maps the failure to its user-facing status; a signer rejection
// keeps its fixed non-technical message.
func (cv *createVote) fail(err error) error {
	cv.Log().Error("create-vote failed", "stage", cv.stage, "error", err)

	if isUserCancelled(err) {
		cv.slot.Set(ErrorStatus("Transaction rejected"))
	} else {
		cv.slot.Set(ErrorStatus("Creation failed: %s", causeOf(err)))
	}

	return err
}

func isUserCancelled(err error) bool {
	return gateway.UserCancelledError.Equal(err) || ledger.UserRejectedError.Equal(err)
}

// causeOf renders an error for a status message, dropping the error
// code the way a toast would.
func causeOf(err error) string {
	ce, ok := err.(common.Error)
	if !ok {
		return err.Error()
	}

	if cause := ce.Unwrap(); cause != nil {
		return fmt.Sprintf("%s; %v", ce.Message(), cause)
	}

	return ce.Message()
}
