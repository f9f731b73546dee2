// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

package audit

import (
	"context"

	"github.com/chainguard-dev/clog"
)

// LogRecorder writes audit events to the structured log. It is the default
// sink when no database is configured.
type LogRecorder struct{}

func (LogRecorder) Record(ctx context.Context, action Action, secretKey string) {
	clog.FromContext(ctx).With(
		"action", string(action),
		"secret_key", secretKey,
		"ip", CallerAddr(ctx),
	).Info("audit")
}

func (LogRecorder) Close() {}
