// Package tools declares the tool catalogs and binds each descriptor to its
// handler.
package tools

import (
	"context"
	"fmt"
	"sync"

	"github.com/bobmcallan/saas-mcp/internal/browser"
	"github.com/bobmcallan/saas-mcp/internal/common"
	"github.com/bobmcallan/saas-mcp/internal/config"
	"github.com/bobmcallan/saas-mcp/internal/dispatch"
	"github.com/bobmcallan/saas-mcp/internal/intent"
	"github.com/bobmcallan/saas-mcp/internal/names"
	"github.com/bobmcallan/saas-mcp/internal/npm"
	"github.com/bobmcallan/saas-mcp/internal/registry"
	"github.com/bobmcallan/saas-mcp/internal/runner"
	"github.com/bobmcallan/saas-mcp/internal/scaffold"
	"github.com/bobmcallan/saas-mcp/internal/template"
	"github.com/bobmcallan/saas-mcp/internal/tooldef"
)

// Caller dispatches a tool by name. parallel uses it to run its tasks.
type Caller interface {
	Dispatch(ctx context.Context, name string, args map[string]any) dispatch.Result
}

// Deps are the collaborators shared by every handler.
type Deps struct {
	Config  *config.Config
	Logger  *common.Logger
	Runner  runner.Runner
	Names   *names.Generator
	Browser *browser.Auditor
}

// Set owns the handlers of both catalogs.
type Set struct {
	cfg        *config.Config
	logger     *common.Logger
	cloner     *template.Cloner
	npm        *npm.Inspector
	scaffold   *scaffold.Initializer
	names      *names.Generator
	browser    *browser.Auditor
	classifier *intent.Classifier

	mu     sync.RWMutex
	caller Caller
}

// New creates a Set. Nil collaborators are replaced with production defaults.
func New(deps Deps) *Set {
	cfg := deps.Config
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	logger := deps.Logger
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	r := deps.Runner
	if r == nil {
		r = runner.NewExec(logger)
	}
	gen := deps.Names
	if gen == nil {
		gen = names.New(nil)
	}
	auditor := deps.Browser
	if auditor == nil {
		auditor = browser.NewAuditor(browser.Options{
			Headless: cfg.Browser.Headless,
			Timeout:  cfg.Browser.Timeout(),
			ExecPath: cfg.Browser.ExecPath,
		}, logger)
	}

	return &Set{
		cfg:        cfg,
		logger:     logger,
		cloner:     template.NewCloner(r, cfg.Templates, logger),
		npm:        npm.New(r),
		scaffold:   scaffold.New(r, logger),
		names:      gen,
		browser:    auditor,
		classifier: intent.Default(),
	}
}

// SetCaller binds the dispatcher used by parallel. The dispatcher is built
// from the registry these catalogs feed, so it can only be bound afterwards.
func (s *Set) SetCaller(c Caller) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.caller = c
}

func (s *Set) getCaller() (Caller, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.caller == nil {
		return nil, fmt.Errorf("no dispatcher bound")
	}
	return s.caller, nil
}

// Catalogs returns the core and workflow catalogs in registration order.
func (s *Set) Catalogs() [][]registry.Tool {
	return [][]registry.Tool{s.Core(), s.Workflow()}
}

// NewRegistry builds the merged registry and binds a dispatcher to it.
func NewRegistry(s *Set, logger *common.Logger, recorder dispatch.Recorder) (*registry.Registry, *dispatch.Dispatcher, error) {
	reg, err := registry.New(logger, s.Catalogs()...)
	if err != nil {
		return nil, nil, err
	}
	d := dispatch.New(reg, logger, recorder)
	s.SetCaller(d)
	return reg, d, nil
}

func tool(def tooldef.ToolDef, h registry.Handler) registry.Tool {
	return registry.Tool{Def: def, Handler: h}
}
