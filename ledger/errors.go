package ledger

import (
	"github.com/veilvote/veilvote/common"
)

const (
	_ uint = iota
	EnumerationFailedErrorCode
	RecordNotFoundErrorCode
	RecordAlreadyExistsErrorCode
	SubmissionFailedErrorCode
	ConfirmationFailedErrorCode
	AlreadyVerifiedErrorCode
	UserRejectedErrorCode
	NotAvailableErrorCode
)

var (
	EnumerationFailedError   common.Error = common.NewError("ledger", EnumerationFailedErrorCode, "failed to enumerate record ids")
	RecordNotFoundError      common.Error = common.NewError("ledger", RecordNotFoundErrorCode, "record not found")
	RecordAlreadyExistsError common.Error = common.NewError("ledger", RecordAlreadyExistsErrorCode, "record already exists")
	SubmissionFailedError    common.Error = common.NewError("ledger", SubmissionFailedErrorCode, "submission failed")
	ConfirmationFailedError  common.Error = common.NewError("ledger", ConfirmationFailedErrorCode, "confirmation failed")
	// AlreadyVerifiedError is the soft race outcome; another party
	// verified the record first.
	AlreadyVerifiedError common.Error = common.NewError("ledger", AlreadyVerifiedErrorCode, "data already verified")
	// UserRejectedError is the signer explicitly refusing to sign.
	UserRejectedError common.Error = common.NewError("ledger", UserRejectedErrorCode, "user rejected transaction")
	NotAvailableError common.Error = common.NewError("ledger", NotAvailableErrorCode, "system not available")
)
