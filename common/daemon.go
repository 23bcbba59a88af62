package common

import (
	"sync"
)

type Daemon interface {
	Start() error
	Stop() error
	IsStopped() bool
}

// ReaderDaemon drains a channel and hands every value to the callback;
// with synchronous=false each callback runs in its own goroutine.
type ReaderDaemon struct {
	sync.RWMutex
	*Logger
	synchronous bool
	reader      chan interface{}
	stop        chan struct{}
	stopOnce    *sync.Once
	callback    func(interface{}) error
	errCallback func(error)
}

func NewReaderDaemon(synchronous bool, callback func(interface{}) error) *ReaderDaemon {
	return &ReaderDaemon{
		Logger:      NewLogger(log, "module", "reader-daemon"),
		synchronous: synchronous,
		reader:      make(chan interface{}, 100),
		callback:    callback,
	}
}

func (d *ReaderDaemon) SetErrCallback(errCallback func(error)) *ReaderDaemon {
	d.Lock()
	defer d.Unlock()

	d.errCallback = errCallback

	return d
}

// Write queues a value for the callback; returns false when the daemon
// is not running.
func (d *ReaderDaemon) Write(v interface{}) bool {
	d.RLock()
	defer d.RUnlock()

	if d.stop == nil {
		return false
	}

	d.reader <- v

	return true
}

func (d *ReaderDaemon) Start() error {
	d.Lock()
	defer d.Unlock()

	if d.stop != nil {
		return DaemonAlreadyStartedError
	}

	d.stop = make(chan struct{})
	d.stopOnce = new(sync.Once)

	go d.loop(d.stop)

	return nil
}

func (d *ReaderDaemon) Stop() error {
	d.Lock()
	defer d.Unlock()

	if d.stop == nil {
		return nil
	}

	stopOnce := d.stopOnce
	stop := d.stop
	stopOnce.Do(func() {
		close(stop)
	})

	d.stop = nil
	d.stopOnce = nil

	return nil
}

func (d *ReaderDaemon) IsStopped() bool {
	d.RLock()
	defer d.RUnlock()

	return d.stop == nil
}

func (d *ReaderDaemon) loop(stop chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case v := <-d.reader:
			if d.synchronous {
				d.runCallback(v)
			} else {
				go d.runCallback(v)
			}
		}
	}
}

func (d *ReaderDaemon) runCallback(v interface{}) {
	d.RLock()
	callback := d.callback
	errCallback := d.errCallback
	d.RUnlock()

	if callback == nil {
		return
	}

	if err := callback(v); err != nil {
		d.Log().Error("reader callback failed", "error", err)
		if errCallback != nil {
			go errCallback(err)
		}
	}
}
