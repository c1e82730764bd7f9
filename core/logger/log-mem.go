package logger

import (
	"fmt"
	"strings"
	"sync"
)

// MemLogger keeps everything logged so unit tests can check what was written. Safe for use
// from multiple goroutines because side-effects log from background routines.
type MemLogger struct {
	mutex sync.Mutex
	lines []string
}

func (l *MemLogger) Printf(level LogLevel, format string, a ...interface{}) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	l.lines = append(l.lines, logLevelPrefix[level]+": "+fmt.Sprintf(format, a...))
}
func (l *MemLogger) Debugf(format string, a ...interface{}) {
	l.Printf(LogDebug, format, a...)
}
func (l *MemLogger) Infof(format string, a ...interface{}) {
	l.Printf(LogInfo, format, a...)
}
func (l *MemLogger) Errorf(format string, a ...interface{}) {
	l.Printf(LogError, format, a...)
}

// Lines returns a copy of what was logged so far
func (l *MemLogger) Lines() []string {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	result := make([]string, len(l.lines))
	copy(result, l.lines)
	return result
}

// LinesAt returns only lines logged at the given level
func (l *MemLogger) LinesAt(level LogLevel) []string {
	prefix := logLevelPrefix[level] + ": "
	result := []string{}
	for _, line := range l.Lines() {
		if strings.HasPrefix(line, prefix) {
			result = append(result, line)
		}
	}
	return result
}

// NullLogger drops everything
type NullLogger struct {
}

func (l *NullLogger) Printf(level LogLevel, format string, a ...interface{}) {}
func (l *NullLogger) Debugf(format string, a ...interface{})                 {}
func (l *NullLogger) Infof(format string, a ...interface{})                  {}
func (l *NullLogger) Errorf(format string, a ...interface{})                 {}
