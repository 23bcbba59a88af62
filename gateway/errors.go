package gateway

import (
	"github.com/veilvote/veilvote/common"
)

const (
	_ uint = iota
	EncryptFailedErrorCode
	RevealFailedErrorCode
	UserCancelledErrorCode
	AlreadyVerifiedErrorCode
)

var (
	EncryptFailedError common.Error = common.NewError("gateway", EncryptFailedErrorCode, "encryption failed")
	RevealFailedError  common.Error = common.NewError("gateway", RevealFailedErrorCode, "reveal failed")
	// UserCancelledError is the signer rejecting the engine prompt.
	UserCancelledError common.Error = common.NewError("gateway", UserCancelledErrorCode, "user cancelled")
	// AlreadyVerifiedError mirrors the ledger's soft race outcome when
	// the engine detects it first.
	AlreadyVerifiedError common.Error = common.NewError("gateway", AlreadyVerifiedErrorCode, "data already verified")
)
