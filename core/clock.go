package core

import "time"

// Clock supplies the current time; injected so due-date checks and the
// task sweeper are testable.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func NewClock() Clock { return realClock{} }

func (realClock) Now() time.Time { return time.Now().UTC() }
