// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

// Package audit records secret lifecycle events. Recording is best-effort:
// the store fires events and never blocks on, nor observes the outcome of,
// the sink behind them.
package audit

import "context"

// Action identifies what happened to a secret.
type Action string

const (
	ActionCreated   Action = "created"
	ActionRetrieved Action = "retrieved"
	ActionDeleted   Action = "deleted"
)

// Recorder is the sink interface for audit events. Implementations must not
// panic; errors are theirs to handle (typically by logging), callers ignore
// them by contract.
type Recorder interface {
	// Record appends one event. The caller address is taken from ctx when
	// present (see WithCallerAddr).
	Record(ctx context.Context, action Action, secretKey string)

	// Close releases sink resources. Events recorded after Close are dropped.
	Close()
}

// NoopRecorder discards every event.
type NoopRecorder struct{}

func (NoopRecorder) Record(context.Context, Action, string) {}

func (NoopRecorder) Close() {}

type callerAddrKey struct{}

// WithCallerAddr annotates ctx with the network address of the caller that
// triggered the operation being audited.
func WithCallerAddr(ctx context.Context, addr string) context.Context {
	return context.WithValue(ctx, callerAddrKey{}, addr)
}

// CallerAddr returns the caller address stored in ctx, or "" when the
// operation was not triggered by a remote caller.
func CallerAddr(ctx context.Context) string {
	addr, _ := ctx.Value(callerAddrKey{}).(string)
	return addr
}
