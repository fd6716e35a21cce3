// Package stdio implements the line-delimited JSON-RPC transport: one
// request per input line, one response per output line. The read path
// never blocks on handler work — each line is dispatched to its own
// goroutine so a slow tool call cannot stall the scanner.
package stdio

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
)

// MessageHandler processes one decoded input line and returns the
// response line to write, or nil to write nothing (e.g. a notification).
type MessageHandler func(ctx context.Context, line []byte) []byte

// maxLineBytes bounds a single input line the same way the gateway's
// scanner does.
const maxLineBytes = 1024 * 1024

// Transport is the stdio line transport. Zero value is not usable; use
// New.
type Transport struct {
	r io.Reader
	w io.Writer

	handler MessageHandler

	writeMu sync.Mutex
	wg      sync.WaitGroup

	running atomic.Bool
	done    chan struct{}
}

// New builds a Transport reading from r and writing responses to w.
func New(r io.Reader, w io.Writer) *Transport {
	return &Transport{r: r, w: w}
}

// SetMessageHandler installs the callback invoked for each input line.
// Must be called before Start.
func (t *Transport) SetMessageHandler(h MessageHandler) {
	t.handler = h
}

// IsRunning reports whether the read loop is currently active.
func (t *Transport) IsRunning() bool {
	return t.running.Load()
}

// Start runs the read loop until EOF, stop, or context cancellation,
// blocking the caller for the transport's whole lifetime. It fails
// immediately if no handler is set or the transport is already running.
func (t *Transport) Start(ctx context.Context) error {
	if t.handler == nil {
		return fmt.Errorf("stdio transport: no message handler set")
	}
	if !t.running.CompareAndSwap(false, true) {
		return fmt.Errorf("stdio transport: already running")
	}
	defer t.running.Store(false)

	t.done = make(chan struct{})
	defer close(t.done)

	scanner := bufio.NewScanner(t.r)
	scanner.Buffer(make([]byte, maxLineBytes), maxLineBytes)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			t.wg.Wait()
			return ctx.Err()
		default:
		}

		line := append([]byte(nil), scanner.Bytes()...)
		if len(line) == 0 {
			continue
		}

		t.wg.Add(1)
		go func() {
			defer t.wg.Done()
			resp := t.handler(ctx, line)
			if resp == nil {
				return
			}
			if err := t.Send(resp); err != nil {
				slog.Error("stdio transport: write failed", "error", err)
			}
		}()
	}

	t.wg.Wait()
	return scanner.Err()
}

// Stop requests the read loop to end. If the underlying reader
// implements io.Closer, it is closed to unblock a pending read;
// otherwise the loop ends naturally at the next EOF. Idempotent.
func (t *Transport) Stop() error {
	if closer, ok := t.r.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Send writes one message as a single newline-terminated line,
// synchronised against concurrent writers so responses never interleave.
func (t *Transport) Send(message []byte) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	line := append(append([]byte(nil), message...), '\n')
	_, err := t.w.Write(line)
	return err
}
