package common

const (
	_ uint = iota
	ContextValueNotFoundErrorCode
	DaemonAlreadyStartedErrorCode
	TimerAlreadyStartedErrorCode
	InvalidVersionErrorCode
)

var (
	ContextValueNotFoundError Error = NewError("common", ContextValueNotFoundErrorCode, "value not found in context")
	DaemonAlreadyStartedError Error = NewError("common", DaemonAlreadyStartedErrorCode, "daemon already started")
	TimerAlreadyStartedError  Error = NewError("common", TimerAlreadyStartedErrorCode, "timer already started")
	InvalidVersionError       Error = NewError("common", InvalidVersionErrorCode, "invalid version")
)
