// Package healthcheck probes HTTP endpoints and classifies each response.
package healthcheck

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/bobmcallan/saas-mcp/internal/common"
	"github.com/bobmcallan/saas-mcp/internal/fanout"
)

// Kind classifies the outcome of one probe.
type Kind string

const (
	KindOK      Kind = "ok"      // 2xx
	KindStatus  Kind = "status"  // answered with a non-2xx status
	KindTimeout Kind = "timeout" // no answer within the timeout
	KindError   Kind = "error"   // connection or protocol failure
)

// maxConcurrentProbes bounds how many endpoints are probed at once.
const maxConcurrentProbes = 5

// Result is the outcome for one endpoint.
type Result struct {
	URL      string
	Kind     Kind
	Status   int
	Duration time.Duration
	Err      string
}

// Checker probes endpoints with HEAD, falling back to GET.
type Checker struct {
	client *http.Client
	logger *common.Logger
}

// NewChecker creates a Checker. Timeouts are applied per call, not on the
// client.
func NewChecker(logger *common.Logger) *Checker {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Checker{client: &http.Client{}, logger: logger}
}

// Check probes url. One deadline of timeout covers both the HEAD request
// and the GET fallback.
func (c *Checker) Check(ctx context.Context, url string, timeout time.Duration) Result {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	status, err := c.probe(ctx, http.MethodHead, url)
	if err != nil && !isTimeout(ctx, err) || status == http.StatusMethodNotAllowed || status == http.StatusNotImplemented {
		status, err = c.probe(ctx, http.MethodGet, url)
	}
	res := Result{URL: url, Status: status, Duration: time.Since(start)}

	switch {
	case err != nil && isTimeout(ctx, err):
		res.Kind = KindTimeout
		res.Err = fmt.Sprintf("no response within %dms", timeout.Milliseconds())
	case err != nil:
		res.Kind = KindError
		res.Err = err.Error()
	case status >= 200 && status < 300:
		res.Kind = KindOK
	default:
		res.Kind = KindStatus
	}

	c.logger.Debug().Str("url", url).Str("kind", string(res.Kind)).Int("status", status).Int64("duration_ms", res.Duration.Milliseconds()).Msg("health probe")
	return res
}

func (c *Checker) probe(ctx context.Context, method, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return 0, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// Report holds results in endpoint order.
type Report struct {
	Results []Result
}

// CheckAll probes every endpoint concurrently and keeps the input order.
func (c *Checker) CheckAll(ctx context.Context, urls []string, timeout time.Duration) *Report {
	outcomes := fanout.Run(ctx, urls, maxConcurrentProbes, func(ctx context.Context, _ int, url string) (Result, error) {
		return c.Check(ctx, url, timeout), nil
	})
	report := &Report{Results: make([]Result, len(outcomes))}
	for i, o := range outcomes {
		if o.Err != nil {
			report.Results[i] = Result{URL: urls[i], Kind: KindError, Err: o.Err.Error()}
			continue
		}
		report.Results[i] = o.Value
	}
	return report
}

// Counts returns how many results fall in each kind.
func (r *Report) Counts() map[Kind]int {
	counts := make(map[Kind]int)
	for _, res := range r.Results {
		counts[res.Kind]++
	}
	return counts
}

// Render formats one block per endpoint.
func (r *Report) Render() string {
	var b strings.Builder
	b.WriteString("🏥 API health check\n")
	for _, res := range r.Results {
		switch res.Kind {
		case KindOK:
			fmt.Fprintf(&b, "\n✅ %s\n   status: %d | %dms", res.URL, res.Status, res.Duration.Milliseconds())
		case KindStatus:
			fmt.Fprintf(&b, "\n⚠️ %s\n   status: %d | %dms", res.URL, res.Status, res.Duration.Milliseconds())
		case KindTimeout:
			fmt.Fprintf(&b, "\n⏱️ %s\n   timeout: %s", res.URL, res.Err)
		default:
			fmt.Fprintf(&b, "\n❌ %s\n   error: %s", res.URL, res.Err)
		}
	}
	counts := r.Counts()
	fmt.Fprintf(&b, "\n\n%d ok, %d status, %d timeout, %d error",
		counts[KindOK], counts[KindStatus], counts[KindTimeout], counts[KindError])
	return b.String()
}
