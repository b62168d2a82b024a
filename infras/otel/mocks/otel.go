// Package mocks provides tracers for tests: a silent one and one that records what was traced.
package mocks

import (
	"context"
	"sync"

	"donorlink/infras/otel"
)

// Recorder implements otel.Otel and keeps span names, events and traced errors in memory.
// A nil Recorder traces nothing.
type Recorder struct {
	mu     sync.Mutex
	spans  []string
	events []string
	errors []error
}

func (r *Recorder) NewScope(ctx context.Context, _, spanName string) (context.Context, otel.Scope) {
	if r == nil {
		return ctx, &scope{}
	}

	r.mu.Lock()
	r.spans = append(r.spans, spanName)
	r.mu.Unlock()

	return ctx, &scope{recorder: r}
}

func (r *Recorder) Spans() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.spans...)
}

func (r *Recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.events...)
}

func (r *Recorder) Errors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]error(nil), r.errors...)
}

type scope struct {
	recorder *Recorder
}

func (s *scope) End() {}

func (s *scope) TraceError(err error) {
	if s.recorder == nil || err == nil {
		return
	}

	s.recorder.mu.Lock()
	s.recorder.errors = append(s.recorder.errors, err)
	s.recorder.mu.Unlock()
}

func (s *scope) TraceIfError(err error) {
	s.TraceError(err)
}

func (s *scope) AddEvent(name string) {
	if s.recorder == nil {
		return
	}

	s.recorder.mu.Lock()
	s.recorder.events = append(s.recorder.events, name)
	s.recorder.mu.Unlock()
}

func (s *scope) SetAttribute(_ string, _ any) {}

func (s *scope) SetAttributes(_ map[string]any) {}

// NewOtel returns a tracer that drops everything.
func NewOtel() otel.Otel {
	var silent *Recorder

	return silent
}

func NewRecorder() *Recorder {
	return &Recorder{}
}
