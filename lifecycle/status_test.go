package lifecycle

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type testStatusSlot struct {
	suite.Suite
	slot *StatusSlot
}

func (t *testStatusSlot) SetupTest() {
	t.slot = NewStatusSlot(testPolicy())
}

func (t *testStatusSlot) TearDownTest() {
	_ = t.slot.Close()
}

func (t *testStatusSlot) TestStartsIdle() {
	t.True(t.slot.Current().IsIdle())
}

func (t *testStatusSlot) TestLastWriterWins() {
	t.slot.Set(PendingStatus("step one"))
	t.slot.Set(PendingStatus("step two"))

	status := t.slot.Current()
	t.Equal(PhasePending, status.Phase())
	t.Equal("step two", status.Message())
}

func (t *testStatusSlot) TestSuccessReverts() {
	t.slot.Set(SuccessStatus("done"))
	t.Equal(PhaseSuccess, t.slot.Current().Phase())

	watch := t.slot.Watch()
	reverted, ok := waitPhase(watch, PhaseIdle, time.Second)
	t.True(ok)
	t.True(reverted.IsIdle())
}

func (t *testStatusSlot) TestErrorOutlivesSuccessWindow() {
	t.slot.Set(ErrorStatus("boom"))

	// past the success window the error must still be visible
	<-time.After(testPolicy().SuccessStatusWindow + time.Millisecond*5)
	t.Equal(PhaseError, t.slot.Current().Phase())

	watch := t.slot.Watch()
	_, ok := waitPhase(watch, PhaseIdle, time.Second)
	t.True(ok)
}

func (t *testStatusSlot) TestOverwriteCancelsRevert() {
	t.slot.Set(SuccessStatus("first"))
	t.slot.Set(PendingStatus("second run started"))

	// the first status's window elapsing must not clear the new one
	<-time.After(testPolicy().SuccessStatusWindow * 2)

	status := t.slot.Current()
	t.Equal(PhasePending, status.Phase())
	t.Equal("second run started", status.Message())
}

func (t *testStatusSlot) TestPendingNeverReverts() {
	t.slot.Set(PendingStatus("working..."))

	<-time.After(testPolicy().ErrorStatusWindow * 2)
	t.Equal(PhasePending, t.slot.Current().Phase())
}

func (t *testStatusSlot) TestWatchDeliversCurrentFirst() {
	t.slot.Set(PendingStatus("already running"))

	watch := t.slot.Watch()
	status, ok := nextStatus(watch, time.Second)
	t.True(ok)
	t.Equal("already running", status.Message())
}

func (t *testStatusSlot) TestSlowWatcherDropsInsteadOfBlocking() {
	_ = t.slot.Watch() // never drained

	for i := 0; i < 300; i++ {
		t.slot.Set(PendingStatus("update %d", i))
	}

	t.Equal("update 299", t.slot.Current().Message())
}

func (t *testStatusSlot) TestStatusJSON() {
	b, err := json.Marshal(SuccessStatus("done"))
	t.NoError(err)

	var decoded map[string]string
	t.NoError(json.Unmarshal(b, &decoded))
	t.Equal("success", decoded["phase"])
	t.Equal("done", decoded["message"])
}

func (t *testStatusSlot) TestPhaseString() {
	t.Equal("idle", PhaseIdle.String())
	t.Equal("pending", PhasePending.String())
	t.Equal("success", PhaseSuccess.String())
	t.Equal("error", PhaseError.String())
}

func TestStatusSlot(t *testing.T) {
	suite.Run(t, &testStatusSlot{})
}
