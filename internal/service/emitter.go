package service

import (
	"context"
	"sync"
)

// ─────────────────────────────────────────────────────────────
// EventEmitter — decouples services from the UI layer
// ─────────────────────────────────────────────────────────────

// EventEmitter is an interface for surfacing transient notifications
// (save failures, external reloads) to whatever front end is attached.
// Services receive this interface instead of a UI handle, which makes them
// independently testable with a mock emitter.
type EventEmitter interface {
	Emit(ctx context.Context, event string, data any)
}

// Events emitted by the document service.
const (
	EventDocSaved      = "doc:saved"
	EventDocSaveFailed = "doc:save-failed"
	EventDocReloaded   = "doc:reloaded"
	EventDocSnapshot   = "doc:snapshot"
)

// NoopEmitter discards all events; used in headless/standalone mode.
type NoopEmitter struct{}

func (NoopEmitter) Emit(_ context.Context, _ string, _ any) {}

// MockEmitter is a test-friendly EventEmitter that records all calls. Safe
// for concurrent use: autosave emits from the debounce goroutine.
type MockEmitter struct {
	mu     sync.Mutex
	events []EmittedEvent
}

// EmittedEvent holds a single recorded emission for test assertions.
type EmittedEvent struct {
	Event string
	Data  any
}

func (m *MockEmitter) Emit(_ context.Context, event string, data any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, EmittedEvent{Event: event, Data: data})
}

// Events returns a copy of everything emitted so far.
func (m *MockEmitter) Events() []EmittedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]EmittedEvent(nil), m.events...)
}

// Count returns how many times the named event was emitted.
func (m *MockEmitter) Count(event string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.events {
		if e.Event == event {
			n++
		}
	}
	return n
}
