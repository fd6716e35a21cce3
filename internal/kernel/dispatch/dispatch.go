// Package dispatch wraps a kernel.Tool's handler with the fixed
// request/response contract every tool call goes through: schema
// validation, timing, structured logging, and conversion of handler
// errors into response envelopes.
package dispatch

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/revittco/mcptoolkit/internal/kernel"
	"github.com/revittco/mcptoolkit/internal/kernel/schema"
)

// Call runs a single tool invocation through the pipeline:
//  1. record start time and mint a correlation id for the call
//  2. validate args against the tool's compiled schema; on failure, log
//     at DEBUG and return an error envelope without invoking the handler
//  3. invoke the handler
//  4. on normal return, log at DEBUG with success and latency
//  5. on handler error, log at ERROR and return an error envelope
func Call(ctx context.Context, t *kernel.Tool, args json.RawMessage) kernel.Envelope {
	start := time.Now()
	callID := uuid.NewString()

	if fieldErrs, err := schema.Validate(t.Schema(), args); err != nil {
		slog.Error("schema validation crashed", "tool", t.Name, "call_id", callID, "error", err)
		return kernel.Error(err.Error())
	} else if len(fieldErrs) > 0 {
		msg := schema.Summarize(fieldErrs)
		slog.Debug("tool call rejected", "tool", t.Name, "call_id", callID, "reason", msg,
			"duration_ms", time.Since(start).Milliseconds())
		return kernel.Error(msg)
	}

	env, err := t.Handler(ctx, args)
	elapsed := time.Since(start).Milliseconds()

	if err != nil {
		slog.Error("tool call failed",
			"tool", t.Name, "call_id", callID, "error", err, "duration_ms", elapsed)
		return kernel.Error(err.Error())
	}

	slog.Debug("tool call succeeded",
		"tool", t.Name, "call_id", callID, "duration_ms", elapsed)
	return env
}
