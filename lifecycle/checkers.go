package lifecycle

import (
	"github.com/veilvote/veilvote/common"
	"github.com/veilvote/veilvote/vote"
)

// checkerSigner guards every operation: without a signer identity
// nothing may reach a gateway or the ledger.
func checkerSigner(c *common.ChainChecker) error {
	var signer vote.Address
	if err := c.ContextValue("signer", &signer); err != nil {
		return err
	}

	if signer.IsEmpty() {
		return UnauthenticatedError
	}

	return nil
}

// checkerCreateInput validates the raw form fields into a vote.Input
// before any side effect.
func checkerCreateInput(c *common.ChainChecker) error {
	var title, rawValue, description, category string
	if err := c.ContextValue("title", &title); err != nil {
		return err
	}
	if err := c.ContextValue("rawValue", &rawValue); err != nil {
		return err
	}
	if err := c.ContextValue("description", &description); err != nil {
		return err
	}
	if err := c.ContextValue("category", &category); err != nil {
		return err
	}

	input, err := vote.NewInput(title, rawValue, description, category)
	if err != nil {
		return ValidationError.SetError(err)
	}

	c.SetContext("input", input)

	return nil
}

// checkerRecordID rejects a reveal of nothing.
func checkerRecordID(c *common.ChainChecker) error {
	var id string
	if err := c.ContextValue("id", &id); err != nil {
		return err
	}

	if len(id) < 1 {
		return ValidationError.SetMessage("record id is empty")
	}

	return nil
}
