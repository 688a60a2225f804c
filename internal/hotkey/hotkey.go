// Package hotkey turns global key presses into overlay requests.
package hotkey

import (
	"context"
	"sync"
)

type Event string

const (
	Toggle Event = "toggle"
	Show   Event = "show"
	Hide   Event = "hide"
	Exit   Event = "exit"
)

// Source delivers events from outside the control loop. Consumers must
// forward them onto the loop instead of acting on them directly.
type Source interface {
	Start(ctx context.Context) error
	Stop() error
	Events() <-chan Event
}

type NoopSource struct {
	ch   chan Event
	once sync.Once
}

func NewNoopSource() *NoopSource { return &NoopSource{ch: make(chan Event)} }

func (n *NoopSource) Start(ctx context.Context) error { return nil }
func (n *NoopSource) Stop() error                     { n.once.Do(func() { close(n.ch) }); return nil }
func (n *NoopSource) Events() <-chan Event            { return n.ch }

// ManualSource emits whatever Send is given; the simulator and console use it
// to stand in for real key presses.
type ManualSource struct {
	ch     chan Event
	mu     sync.Mutex
	closed bool
}

func NewManualSource() *ManualSource { return &ManualSource{ch: make(chan Event, 16)} }

func (m *ManualSource) Start(ctx context.Context) error { return nil }

func (m *ManualSource) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.closed = true
		close(m.ch)
	}
	return nil
}

func (m *ManualSource) Events() <-chan Event { return m.ch }

// Send queues ev and reports false when the source is stopped or its queue
// is full.
func (m *ManualSource) Send(ev Event) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return false
	}
	select {
	case m.ch <- ev:
		return true
	default:
		return false
	}
}
