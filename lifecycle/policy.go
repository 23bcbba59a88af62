package lifecycle

import (
	"time"

	"github.com/veilvote/veilvote/vote"
)

const (
	// DefaultSuccessStatusWindow is how long a success status stays
	// visible before reverting to idle.
	DefaultSuccessStatusWindow = time.Second * 2
	// DefaultErrorStatusWindow is the same for error statuses.
	DefaultErrorStatusWindow = time.Second * 3
)

// Policy carries the observable timing contract and the target
// contract address the gateways encrypt against.
type Policy struct {
	SuccessStatusWindow time.Duration
	ErrorStatusWindow   time.Duration
	ContractAddress     vote.Address
}

func DefaultPolicy(contract vote.Address) Policy {
	return Policy{
		SuccessStatusWindow: DefaultSuccessStatusWindow,
		ErrorStatusWindow:   DefaultErrorStatusWindow,
		ContractAddress:     contract,
	}
}

func (p Policy) IsValid() error {
	if p.SuccessStatusWindow <= 0 {
		return InvalidPolicyError.SetMessage("success status window must be positive; window=%v", p.SuccessStatusWindow)
	}

	if p.ErrorStatusWindow <= 0 {
		return InvalidPolicyError.SetMessage("error status window must be positive; window=%v", p.ErrorStatusWindow)
	}

	return nil
}
