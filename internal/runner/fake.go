package runner

import (
	"context"
	"strings"
	"sync"
)

// Fake records commands and answers them from a table keyed by the joined
// argv. Unknown commands succeed with empty output.
type Fake struct {
	mu        sync.Mutex
	Responses map[string]FakeResponse
	Calls     []FakeCall
}

// FakeResponse is the canned answer for one command line.
type FakeResponse struct {
	Result Result
	Err    error
}

// FakeCall is a recorded invocation.
type FakeCall struct {
	Dir  string
	Argv []string
}

// Run implements Runner.
func (f *Fake) Run(_ context.Context, dir string, argv ...string) (*Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, FakeCall{Dir: dir, Argv: append([]string(nil), argv...)})
	resp, ok := f.Responses[strings.Join(argv, " ")]
	if !ok {
		return &Result{}, nil
	}
	res := resp.Result
	return &res, resp.Err
}

// Commands returns the recorded argv lines.
func (f *Fake) Commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.Calls))
	for i, c := range f.Calls {
		out[i] = strings.Join(c.Argv, " ")
	}
	return out
}
