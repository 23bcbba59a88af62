package common

import (
	"sync"

	"github.com/inconshreveable/log15"
)

// Logger is embedded by long-lived components to give them a
// contextualized log15 logger rooted at their package logger.
type Logger struct {
	sync.RWMutex
	root log15.Logger
	log  log15.Logger
}

func NewLogger(root log15.Logger, args ...interface{}) *Logger {
	return &Logger{root: root, log: root.New(args...)}
}

func (l *Logger) Log() log15.Logger {
	l.RLock()
	defer l.RUnlock()

	return l.log
}

func (l *Logger) SetLogContext(args ...interface{}) *Logger {
	l.Lock()
	defer l.Unlock()

	l.log = l.log.New(args...)

	return l
}
