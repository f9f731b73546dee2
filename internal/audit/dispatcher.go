// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

package audit

import (
	"context"
	"sync"

	"github.com/chainguard-dev/clog"
)

const defaultQueueSize = 256

// event is the unit queued between Record callers and the worker.
type event struct {
	action    Action
	secretKey string
	caller    string
}

// Dispatcher decouples the secret store from the latency of the sink behind
// it. Record enqueues and returns immediately; a single worker goroutine
// drains the queue into the wrapped Recorder. A full queue drops the event
// rather than stalling a secret operation.
type Dispatcher struct {
	sink   Recorder
	events chan event

	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
	done      chan struct{}
}

// NewDispatcher wraps sink behind an asynchronous queue and starts the
// worker goroutine.
func NewDispatcher(sink Recorder) *Dispatcher {
	d := &Dispatcher{
		sink:   sink,
		events: make(chan event, defaultQueueSize),
		done:   make(chan struct{}),
	}
	go d.run()
	return d
}

// Record queues an event without blocking. Events recorded after Close
// are dropped.
func (d *Dispatcher) Record(ctx context.Context, action Action, secretKey string) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return
	}

	ev := event{action: action, secretKey: secretKey, caller: CallerAddr(ctx)}
	select {
	case d.events <- ev:
	default:
		// Auditing is best-effort, drop it.
		clog.FromContext(ctx).Debugf("audit queue full, dropping %s event", action)
	}
}

// Close stops the worker after draining queued events, then closes the
// wrapped sink.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		d.mu.Lock()
		d.closed = true
		d.mu.Unlock()

		close(d.events)
		<-d.done
		d.sink.Close()
	})
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for ev := range d.events {
		ctx := WithCallerAddr(context.Background(), ev.caller)
		d.sink.Record(ctx, ev.action, ev.secretKey)
	}
}
