package common

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/beevik/ntp"
)

const TimeFormatISO8601 string = "2006-01-02T15:04:05.000000000Z07:00"

var (
	ZeroTime   Time = Time{Time: time.Time{}}
	timeSyncer *TimeSyncer
)

type Time struct {
	time.Time
}

func Now() Time {
	if timeSyncer == nil {
		return Time{Time: time.Now()}
	}

	return Time{Time: time.Now().Add(timeSyncer.Offset())}
}

func FormatISO8601(t Time) string {
	return t.Time.Format(TimeFormatISO8601)
}

func ParseISO8601(s string) (Time, error) {
	t, err := time.Parse(TimeFormatISO8601, s)
	if err != nil {
		return Time{}, err
	}

	return Time{Time: t}, nil
}

func (t Time) UTC() Time {
	return Time{Time: t.Time.UTC()}
}

func (t Time) String() string {
	return FormatISO8601(t)
}

// UnixMillis is used for ledger record identifiers.
func (t Time) UnixMillis() int64 {
	return t.Time.UnixNano() / int64(time.Millisecond)
}

func (t Time) Equal(a Time) bool {
	return t.Time.Equal(a.Time)
}

func (t Time) Before(a Time) bool {
	return t.Time.Before(a.Time)
}

func (t Time) After(a Time) bool {
	return t.Time.After(a.Time)
}

func (t Time) Sub(a Time) time.Duration {
	return t.Time.Sub(a.Time)
}

func (t Time) Add(d time.Duration) Time {
	return Time{Time: t.Time.Add(d)}
}

func (t Time) IsZero() bool {
	return t.Time.Equal(ZeroTime.Time)
}

func (t Time) MarshalJSON() ([]byte, error) {
	return json.Marshal(FormatISO8601(t))
}

func (t *Time) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	n, err := ParseISO8601(s)
	if err != nil {
		return err
	}

	*t = n

	return nil
}

// TimeSyncer keeps a clock offset against an ntp server; when set
// through SetTimeSyncer, Now() applies the offset.
type TimeSyncer struct {
	sync.RWMutex
	*Logger
	server   string
	offset   time.Duration
	interval time.Duration
	stopChan chan struct{}
}

func NewTimeSyncer(server string, checkInterval time.Duration) (*TimeSyncer, error) {
	if _, err := ntp.Query(server); err != nil {
		return nil, err
	}

	return &TimeSyncer{
		Logger: NewLogger(
			log,
			"module", "time-syncer",
			"server", server,
			"interval", checkInterval,
		),
		server:   server,
		interval: checkInterval,
	}, nil
}

func SetTimeSyncer(syncer *TimeSyncer) {
	timeSyncer = syncer
	log.Debug("common.timeSyncer is set")
}

func (s *TimeSyncer) Start() error {
	s.Lock()
	defer s.Unlock()

	if s.stopChan != nil {
		return DaemonAlreadyStartedError
	}

	s.stopChan = make(chan struct{})

	go s.schedule(s.stopChan)

	s.Log().Debug("started")

	return nil
}

func (s *TimeSyncer) Stop() error {
	s.Lock()
	defer s.Unlock()

	if s.stopChan == nil {
		return nil
	}

	close(s.stopChan)
	s.stopChan = nil

	s.Log().Debug("stopped")

	return nil
}

func (s *TimeSyncer) IsStopped() bool {
	s.RLock()
	defer s.RUnlock()

	return s.stopChan == nil
}

func (s *TimeSyncer) Offset() time.Duration {
	s.RLock()
	defer s.RUnlock()

	return s.offset
}

func (s *TimeSyncer) schedule(stopChan chan struct{}) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopChan:
			return
		case <-ticker.C:
			s.check()
		}
	}
}

func (s *TimeSyncer) check() {
	response, err := ntp.Query(s.server)
	if err != nil {
		s.Log().Error("failed to query ntp server", "error", err)
		return
	}

	if err := response.Validate(); err != nil {
		s.Log().Error("invalid ntp response", "error", err)
		return
	}

	s.Lock()
	defer s.Unlock()

	s.offset = response.ClockOffset
	s.Log().Debug("time checked", "offset", s.offset)
}
