package lifecycle

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/veilvote/veilvote/common"
)

type Phase uint

const (
	PhaseIdle Phase = iota
	PhasePending
	PhaseSuccess
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePending:
		return "pending"
	case PhaseSuccess:
		return "success"
	case PhaseError:
		return "error"
	default:
		return fmt.Sprintf("phase(%d)", uint(p))
	}
}

// Status is the tagged operation status: a phase and its message. Idle
// carries no message.
type Status struct {
	phase   Phase
	message string
}

func IdleStatus() Status {
	return Status{phase: PhaseIdle}
}

func PendingStatus(format string, args ...interface{}) Status {
	return Status{phase: PhasePending, message: fmt.Sprintf(format, args...)}
}

func SuccessStatus(format string, args ...interface{}) Status {
	return Status{phase: PhaseSuccess, message: fmt.Sprintf(format, args...)}
}

func ErrorStatus(format string, args ...interface{}) Status {
	return Status{phase: PhaseError, message: fmt.Sprintf(format, args...)}
}

func (s Status) Phase() Phase {
	return s.phase
}

func (s Status) Message() string {
	return s.message
}

func (s Status) IsIdle() bool {
	return s.phase == PhaseIdle
}

func (s Status) String() string {
	if s.phase == PhaseIdle {
		return s.phase.String()
	}

	return fmt.Sprintf("%s: %s", s.phase, s.message)
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{
		"phase":   s.phase.String(),
		"message": s.message,
	})
}

// StatusSlot is the single shared status the presentation layer reads.
// Writers overwrite each other; the last resolved step wins. Success
// and error statuses revert to idle after their policy window unless
// overwritten first.
type StatusSlot struct {
	sync.RWMutex
	*common.Logger
	policy     Policy
	current    Status
	generation uint64
	timer      *common.CallbackTimer
	watchers   []chan Status
}

func NewStatusSlot(policy Policy) *StatusSlot {
	return &StatusSlot{
		Logger:  common.NewLogger(log, "module", "status-slot"),
		policy:  policy,
		current: IdleStatus(),
	}
}

func (s *StatusSlot) Current() Status {
	s.RLock()
	defer s.RUnlock()

	return s.current
}

// Watch returns a channel receiving every status change, the current
// value first. Slow watchers drop updates instead of blocking writers.
func (s *StatusSlot) Watch() <-chan Status {
	s.Lock()
	defer s.Unlock()

	ch := make(chan Status, 100)
	ch <- s.current
	s.watchers = append(s.watchers, ch)

	return ch
}

func (s *StatusSlot) Set(status Status) {
	s.Lock()
	defer s.Unlock()

	s.setLocked(status)
}

func (s *StatusSlot) setLocked(status Status) {
	if s.timer != nil {
		_ = s.timer.Stop()
		s.timer = nil
	}

	s.generation++
	s.current = status
	s.notifyLocked(status)

	var window time.Duration
	switch status.Phase() {
	case PhaseSuccess:
		window = s.policy.SuccessStatusWindow
	case PhaseError:
		window = s.policy.ErrorStatusWindow
	default:
		return
	}

	generation := s.generation
	timer := common.NewCallbackTimer(
		"status-revert",
		window,
		func() error {
			s.revert(generation)
			return nil
		},
		false,
	)
	if err := timer.Start(); err != nil {
		s.Log().Error("failed to start revert timer", "error", err)
		return
	}

	s.timer = timer
}

// revert returns the slot to idle, but only when no later writer has
// taken the slot since the timer was armed.
func (s *StatusSlot) revert(generation uint64) {
	s.Lock()
	defer s.Unlock()

	if s.generation != generation {
		return
	}

	s.timer = nil
	s.setLocked(IdleStatus())
}

func (s *StatusSlot) notifyLocked(status Status) {
	for _, ch := range s.watchers {
		select {
		case ch <- status:
		default:
		}
	}
}

func (s *StatusSlot) Close() error {
	s.Lock()
	defer s.Unlock()

	if s.timer != nil {
		_ = s.timer.Stop()
		s.timer = nil
	}

	for _, ch := range s.watchers {
		close(ch)
	}
	s.watchers = nil

	return nil
}
