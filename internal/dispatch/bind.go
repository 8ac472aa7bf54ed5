package dispatch

import (
	"context"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/bobmcallan/saas-mcp/internal/registry"
)

// Renderer is a structured tool result that renders itself as text.
type Renderer interface {
	Render() string
}

// Validator is implemented by request types with checks beyond the schema.
type Validator interface {
	Validate() error
}

// Defaulter is implemented by request types that fill optional fields.
type Defaulter interface {
	Defaults()
}

// Text is a Renderer for handlers whose result is already prose.
type Text string

// Render implements Renderer.
func (t Text) Render() string { return string(t) }

// Bind adapts a typed handler to registry.Handler. Arguments are decoded into
// Req by their json tag names, defaulted, validated, then passed to fn.
func Bind[Req any, Res Renderer](tool string, fn func(ctx context.Context, req Req) (Res, error)) registry.Handler {
	return registry.HandlerFunc(func(ctx context.Context, args map[string]any) (string, error) {
		req, err := Decode[Req](tool, args)
		if err != nil {
			return "", err
		}
		res, err := fn(ctx, req)
		if err != nil {
			return "", err
		}
		return res.Render(), nil
	})
}

// Decode converts raw arguments into Req, applying Defaults and Validate.
func Decode[Req any](tool string, args map[string]any) (Req, error) {
	var req Req

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  &req,
	})
	if err != nil {
		return req, fmt.Errorf("failed to build decoder: %w", err)
	}
	if err := decoder.Decode(args); err != nil {
		return req, &ValidationError{Tool: tool, Err: err}
	}

	if d, ok := any(&req).(Defaulter); ok {
		d.Defaults()
	}
	if v, ok := any(&req).(Validator); ok {
		if err := v.Validate(); err != nil {
			return req, &ValidationError{Tool: tool, Err: err}
		}
	}
	return req, nil
}
