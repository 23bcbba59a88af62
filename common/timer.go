package common

import (
	"sync"
	"time"

	"github.com/inconshreveable/log15"
)

// CallbackTimer fires the callback after timeout; with keepRunning it
// keeps firing until stopped.
type CallbackTimer struct {
	sync.RWMutex
	name        string
	timeout     time.Duration
	callback    func() error
	keepRunning bool
	stopChan    chan struct{}
	log         log15.Logger
}

func NewCallbackTimer(name string, timeout time.Duration, callback func() error, keepRunning bool) *CallbackTimer {
	return &CallbackTimer{
		name:        name,
		timeout:     timeout,
		callback:    callback,
		keepRunning: keepRunning,
		log:         log.New(log15.Ctx{"module": "callback-timer", "name": name}),
	}
}

func (c *CallbackTimer) Start() error {
	c.Lock()
	defer c.Unlock()

	if c.stopChan != nil {
		return TimerAlreadyStartedError
	}

	c.stopChan = make(chan struct{})

	go c.waiting(c.stopChan)

	c.log.Debug("timer started", "timeout", c.timeout)

	return nil
}

func (c *CallbackTimer) Stop() error {
	c.Lock()
	defer c.Unlock()

	if c.stopChan == nil {
		return nil
	}

	close(c.stopChan)
	c.stopChan = nil

	c.log.Debug("timer stopped")

	return nil
}

func (c *CallbackTimer) IsStopped() bool {
	c.RLock()
	defer c.RUnlock()

	return c.stopChan == nil
}

func (c *CallbackTimer) waiting(stopChan chan struct{}) {
	for {
		select {
		case <-stopChan:
			return
		case <-time.After(c.timeout):
			if err := c.callback(); err != nil {
				c.log.Error("callback returned error", "error", err)
			}
			if !c.keepRunning {
				_ = c.Stop()
				return
			}
		}
	}
}
