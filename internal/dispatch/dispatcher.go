// Package dispatch routes a named tool call to its handler and turns every
// outcome into a text envelope.
package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bobmcallan/saas-mcp/internal/common"
	"github.com/bobmcallan/saas-mcp/internal/registry"
)

// Outcome labels used for logging and metrics.
const (
	OutcomeSuccess     = "success"
	OutcomeError       = "error"
	OutcomeInvalid     = "invalid"
	OutcomeUnknownTool = "unknown_tool"
	OutcomePanic       = "panic"
)

// Result is the text produced by one call.
type Result struct {
	Text    string
	IsError bool
	Outcome string
}

// ToMCP wraps the text in a single text-content block.
func (r Result) ToMCP() *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(r.Text)},
		IsError: r.IsError,
	}
}

// Recorder observes completed calls.
type Recorder interface {
	ObserveCall(tool, outcome string, d time.Duration)
}

// Dispatcher resolves names against a registry. It holds no per-call state.
type Dispatcher struct {
	registry *registry.Registry
	logger   *common.Logger
	recorder Recorder
}

// New creates a Dispatcher. recorder may be nil.
func New(reg *registry.Registry, logger *common.Logger, recorder Recorder) *Dispatcher {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Dispatcher{registry: reg, logger: logger, recorder: recorder}
}

// Registry returns the underlying registry.
func (d *Dispatcher) Registry() *registry.Registry {
	return d.registry
}

// Dispatch runs the named tool. It never panics and never returns an error:
// failures are reported in the Result text.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args map[string]any) (res Result) {
	correlationID := common.CorrelationIDFromContext(ctx)
	if correlationID == "" {
		correlationID = uuid.New().String()
		ctx = common.WithCorrelationID(ctx, correlationID)
	}
	logger := d.logger.WithCorrelationId(correlationID)
	start := time.Now()

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error().
				Str("tool", name).
				Str("panic", fmt.Sprintf("%v", rec)).
				Str("stack", string(debug.Stack())).
				Msg("tool handler panicked")
			res = Result{Text: fmt.Sprintf("%s error: panic: %v", name, rec), IsError: true, Outcome: OutcomePanic}
		}
		duration := time.Since(start)
		if d.recorder != nil {
			d.recorder.ObserveCall(name, res.Outcome, duration)
		}
		logger.Info().
			Str("tool", name).
			Str("outcome", res.Outcome).
			Bool("is_error", res.IsError).
			Int64("duration_ms", duration.Milliseconds()).
			Msg("tool call")
	}()

	entry, ok := d.registry.Resolve(name)
	if !ok {
		return Result{Text: d.unknownToolText(name), IsError: true, Outcome: OutcomeUnknownTool}
	}

	args, err := normalizeArgs(args)
	if err != nil {
		return Result{Text: (&ValidationError{Tool: name, Err: err}).Error(), IsError: true, Outcome: OutcomeInvalid}
	}
	if err := entry.ValidateArgs(args); err != nil {
		return Result{Text: (&ValidationError{Tool: name, Err: err}).Error(), IsError: true, Outcome: OutcomeInvalid}
	}

	text, err := entry.Handler.Handle(ctx, args)
	if err != nil {
		logger.Warn().Str("tool", name).Err(err).Msg("tool call failed")
		outcome := OutcomeError
		var ve *ValidationError
		if errors.As(err, &ve) {
			outcome = OutcomeInvalid
		}
		return Result{Text: ErrorText(name, err), IsError: true, Outcome: outcome}
	}
	return Result{Text: text, Outcome: OutcomeSuccess}
}

// CallTool adapts Dispatch to the mcp-go tool handler signature.
func (d *Dispatcher) CallTool(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return d.Dispatch(ctx, request.Params.Name, request.GetArguments()).ToMCP(), nil
}

func (d *Dispatcher) unknownToolText(name string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "unknown tool: %s\n\nAvailable tools:\n", name)
	for _, n := range d.registry.Names() {
		sb.WriteString("- ")
		sb.WriteString(n)
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// normalizeArgs round-trips arguments through JSON so handlers and the
// schema validator only ever see JSON-native values.
func normalizeArgs(args map[string]any) (map[string]any, error) {
	if args == nil {
		return map[string]any{}, nil
	}
	data, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("arguments are not JSON-encodable: %w", err)
	}
	out := map[string]any{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("arguments are not a JSON object: %w", err)
	}
	return out, nil
}
