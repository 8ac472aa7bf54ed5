package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
)

// maxLineSize bounds one JSON-RPC message on stdio.
const maxLineSize = 10 << 20 // 10MB

// ServeStdio reads newline-delimited JSON-RPC messages from in and writes
// responses to out, one per line. Messages are handled concurrently, so
// responses may arrive out of order. It returns when in is exhausted and
// every in-flight message has been answered, or when ctx is cancelled.
func (r *Router) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := &lineWriter{w: out}
	var wg sync.WaitGroup
	defer wg.Wait()

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 64*1024), maxLineSize)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	r.logger.Info().Msg("serving MCP on stdio")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					if err != nil {
						return fmt.Errorf("failed to read stdin: %w", err)
					}
				default:
					return ctx.Err()
				}
				r.logger.Info().Msg("stdin closed")
				return nil
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			wg.Add(1)
			go func(msg string) {
				defer wg.Done()
				resp := r.HandleMessage(ctx, json.RawMessage(msg))
				if resp == nil {
					return
				}
				if err := w.writeJSON(resp); err != nil {
					r.logger.Error().Err(err).Msg("failed to write response")
				}
			}(line)
		}
	}
}

// lineWriter serialises whole-line writes from concurrent handlers.
type lineWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (lw *lineWriter) writeJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}
	lw.mu.Lock()
	defer lw.mu.Unlock()
	_, err = lw.w.Write(append(data, '\n'))
	return err
}
