package lifecycle

import (
	"github.com/veilvote/veilvote/common"
)

const (
	_ uint = iota
	UnauthenticatedErrorCode
	ValidationErrorCode
	InvalidPolicyErrorCode
)

var (
	// UnauthenticatedError blocks any operation before side effects
	// when no signer identity is present.
	UnauthenticatedError common.Error = common.NewError("lifecycle", UnauthenticatedErrorCode, "no signer identity")
	ValidationError      common.Error = common.NewError("lifecycle", ValidationErrorCode, "invalid input")
	InvalidPolicyError   common.Error = common.NewError("lifecycle", InvalidPolicyErrorCode, "invalid policy")
)
