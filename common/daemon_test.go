package common

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type testReaderDaemon struct {
	suite.Suite
}

func (t *testReaderDaemon) waitFor(check func() bool) bool {
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if check() {
			return true
		}

		<-time.After(time.Millisecond * 10)
	}

	return check()
}

func (t *testReaderDaemon) TestReceiveInOrder() {
	var lock sync.Mutex
	var received []int

	d := NewReaderDaemon(true, func(v interface{}) error {
		lock.Lock()
		defer lock.Unlock()

		received = append(received, v.(int))

		return nil
	})
	t.NoError(d.Start())
	defer func() {
		_ = d.Stop()
	}()

	for i := 0; i < 10; i++ {
		t.True(d.Write(i))
	}

	t.True(t.waitFor(func() bool {
		lock.Lock()
		defer lock.Unlock()

		return len(received) == 10
	}))

	lock.Lock()
	defer lock.Unlock()
	for i, v := range received {
		t.Equal(i, v)
	}
}

func (t *testReaderDaemon) TestWriteBeforeStart() {
	d := NewReaderDaemon(true, func(interface{}) error { return nil })
	t.False(d.Write(1))
}

func (t *testReaderDaemon) TestWriteAfterStop() {
	d := NewReaderDaemon(true, func(interface{}) error { return nil })
	t.NoError(d.Start())
	t.NoError(d.Stop())
	t.True(d.IsStopped())
	t.False(d.Write(1))
}

func (t *testReaderDaemon) TestStartTwice() {
	d := NewReaderDaemon(true, func(interface{}) error { return nil })
	t.NoError(d.Start())
	defer func() {
		_ = d.Stop()
	}()

	err := d.Start()
	t.True(DaemonAlreadyStartedError.Equal(err))
}

func (t *testReaderDaemon) TestErrCallback() {
	var lock sync.Mutex
	var got error

	d := NewReaderDaemon(true, func(interface{}) error {
		return TimerAlreadyStartedError
	})
	d.SetErrCallback(func(err error) {
		lock.Lock()
		defer lock.Unlock()

		got = err
	})
	t.NoError(d.Start())
	defer func() {
		_ = d.Stop()
	}()

	t.True(d.Write(1))

	t.True(t.waitFor(func() bool {
		lock.Lock()
		defer lock.Unlock()

		return got != nil
	}))

	lock.Lock()
	defer lock.Unlock()
	t.True(TimerAlreadyStartedError.Equal(got))
}

func TestReaderDaemon(t *testing.T) {
	suite.Run(t, &testReaderDaemon{})
}
