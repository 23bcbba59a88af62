package common

import (
	"context"
	"reflect"

	"github.com/inconshreveable/log15"
)

type ChainCheckerFunc func(*ChainChecker) error

// ChainCheckerStop is not an error; a checker returns it to end the
// chain early without failing it.
type ChainCheckerStop struct {
	message string
}

func NewChainCheckerStop(message string) ChainCheckerStop {
	return ChainCheckerStop{message: message}
}

func (c ChainCheckerStop) Error() string {
	return c.message
}

// ChainChecker runs checker funcs in order over a shared context; the
// first error stops the chain.
type ChainChecker struct {
	name     string
	ctx      context.Context
	checkers []ChainCheckerFunc
	log      log15.Logger
}

func NewChainChecker(name string, ctx context.Context, checkers ...ChainCheckerFunc) *ChainChecker {
	if ctx == nil {
		ctx = context.Background()
	}

	return &ChainChecker{
		name:     name,
		ctx:      ctx,
		checkers: checkers,
		log:      log.New(log15.Ctx{"module": "chain-checker", "name": name}),
	}
}

func (c *ChainChecker) Context() context.Context {
	return c.ctx
}

func (c *ChainChecker) SetContext(key, value interface{}) *ChainChecker {
	c.ctx = context.WithValue(c.ctx, key, value)
	return c
}

func (c *ChainChecker) ContextValue(key interface{}, value interface{}) error {
	v := c.ctx.Value(key)
	if v == nil {
		return ContextValueNotFoundError.SetMessage("key=%v", key)
	}

	reflect.ValueOf(value).Elem().Set(reflect.ValueOf(v))

	return nil
}

func (c *ChainChecker) Check() error {
	for _, checker := range c.checkers {
		err := checker(c)
		if err == nil {
			continue
		}

		if _, ok := err.(ChainCheckerStop); ok {
			c.log.Debug("checker chain stopped", "stop", err.Error())
			return nil
		}

		return err
	}

	return nil
}
