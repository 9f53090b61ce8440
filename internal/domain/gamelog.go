package domain

import (
	"fmt"

	"dungeon-kernel/pkg/logger"

	"github.com/sirupsen/logrus"
)

// GameLog keeps every message of the run. The core never trims it; a UI shows
// however many of the newest entries fit.
type GameLog struct {
	entries []string
}

func NewGameLog(first ...string) *GameLog {
	l := &GameLog{}
	for _, s := range first {
		l.Add(s)
	}
	return l
}

func (l *GameLog) Add(text string) {
	l.entries = append(l.entries, text)
	logger.Log.WithFields(logrus.Fields{
		"component": "game_log",
		"seq":       len(l.entries),
	}).Debug(text)
}

func (l *GameLog) Addf(format string, args ...any) {
	l.Add(fmt.Sprintf(format, args...))
}

// Entries returns a copy, newest first.
func (l *GameLog) Entries() []string {
	out := make([]string, len(l.entries))
	for i, s := range l.entries {
		out[len(l.entries)-1-i] = s
	}
	return out
}

// Recent returns at most n entries, newest first.
func (l *GameLog) Recent(n int) []string {
	if n > len(l.entries) {
		n = len(l.entries)
	}
	out := make([]string, 0, n)
	for i := len(l.entries) - 1; i >= len(l.entries)-n; i-- {
		out = append(out, l.entries[i])
	}
	return out
}

func (l *GameLog) Latest() string {
	if len(l.entries) == 0 {
		return ""
	}
	return l.entries[len(l.entries)-1]
}

func (l *GameLog) Len() int {
	return len(l.entries)
}
