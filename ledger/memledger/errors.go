package memledger

import (
	"github.com/veilvote/veilvote/common"
)

const (
	_ uint = iota
	LevelDBErrorCode
	NotOpenErrorCode
	UnknownTxErrorCode
)

var (
	LevelDBError   common.Error = common.NewError("memledger", LevelDBErrorCode, "leveldb error")
	NotOpenError   common.Error = common.NewError("memledger", NotOpenErrorCode, "ledger is not open")
	UnknownTxError common.Error = common.NewError("memledger", UnknownTxErrorCode, "unknown transaction handle")
)
