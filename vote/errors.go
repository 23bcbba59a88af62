package vote

import (
	"github.com/veilvote/veilvote/common"
)

const (
	_ uint = iota
	EmptyTitleErrorCode
	InvalidVoteValueErrorCode
)

var (
	EmptyTitleError       common.Error = common.NewError("vote", EmptyTitleErrorCode, "title is empty")
	InvalidVoteValueError common.Error = common.NewError("vote", InvalidVoteValueErrorCode, "vote value is not a non-negative integer")
)
