// Package browser audits a web page in headless Chrome via chromedp.
package browser

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/bobmcallan/saas-mcp/internal/common"
)

// Test categories.
const (
	TestResponsive    = "responsive"
	TestPerformance   = "performance"
	TestAccessibility = "accessibility"
	TestSEO           = "seo"
	TestSecurity      = "security"
)

// AllTests lists the categories in report order.
var AllTests = []string{TestResponsive, TestPerformance, TestAccessibility, TestSEO, TestSecurity}

// Device is a viewport preset.
type Device struct {
	Name   string
	Width  int64
	Height int64
}

// Devices maps preset names to viewports.
var Devices = map[string]Device{
	"mobile":  {Name: "mobile", Width: 375, Height: 667},
	"tablet":  {Name: "tablet", Width: 768, Height: 1024},
	"desktop": {Name: "desktop", Width: 1920, Height: 1080},
}

// DeviceNames returns the preset names, sorted.
func DeviceNames() []string {
	names := make([]string, 0, len(Devices))
	for name := range Devices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Options configures the Chrome process.
type Options struct {
	Headless      bool
	Timeout       time.Duration // per device
	ExecPath      string
	ScreenshotDir string // empty for os.TempDir
}

// Request is one audit.
type Request struct {
	URL        string
	Tests      []string
	Screenshot bool
	Devices    []string
}

// PageMetrics is collected in the page by auditScript.
type PageMetrics struct {
	Title            string `json:"title"`
	Description      string `json:"description"`
	ViewportMeta     bool   `json:"viewportMeta"`
	Lang             string `json:"lang"`
	Images           int    `json:"images"`
	ImagesWithoutAlt int    `json:"imagesWithoutAlt"`
	H1Count          int    `json:"h1Count"`
	HorizontalScroll bool   `json:"horizontalScroll"`
	HTTPS            bool   `json:"https"`
	InsecureForms    int    `json:"insecureForms"`
}

const auditScript = `(() => {
	const meta = (name) => document.querySelector('meta[name="' + name + '"]');
	const imgs = Array.from(document.images);
	const https = location.protocol === 'https:';
	return {
		title: document.title || '',
		description: (meta('description') && meta('description').content) || '',
		viewportMeta: !!meta('viewport'),
		lang: document.documentElement.getAttribute('lang') || '',
		images: imgs.length,
		imagesWithoutAlt: imgs.filter(i => !i.hasAttribute('alt')).length,
		h1Count: document.querySelectorAll('h1').length,
		horizontalScroll: document.documentElement.scrollWidth > window.innerWidth,
		https: https,
		insecureForms: https ? 0 : document.querySelectorAll('input[type=password]').length,
	};
})()`

// PageAudit is the result for one device.
type PageAudit struct {
	Device     Device
	LoadTime   time.Duration
	Metrics    PageMetrics
	JSErrors   []string
	Screenshot string
	Err        string
}

// Report is the result of one audit request.
type Report struct {
	URL   string
	Tests []string
	Pages []PageAudit
}

// Auditor drives Chrome.
type Auditor struct {
	opts   Options
	logger *common.Logger
}

// NewAuditor creates an Auditor.
func NewAuditor(opts Options, logger *common.Logger) *Auditor {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	return &Auditor{opts: opts, logger: logger}
}

// Audit loads req.URL once per device. A device whose page fails to load is
// reported with its error; the others still run.
func (a *Auditor) Audit(ctx context.Context, req Request) (*Report, error) {
	tests := req.Tests
	if len(tests) == 0 {
		tests = AllTests
	}
	devices, err := resolveDevices(req.Devices)
	if err != nil {
		return nil, err
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", a.opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if a.opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(a.opts.ExecPath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()
	if err := chromedp.Run(browserCtx); err != nil {
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	report := &Report{URL: req.URL, Tests: tests}
	for _, d := range devices {
		report.Pages = append(report.Pages, a.auditDevice(browserCtx, req, d))
	}
	return report, nil
}

func resolveDevices(names []string) ([]Device, error) {
	if len(names) == 0 {
		return []Device{Devices["desktop"]}, nil
	}
	var out []Device
	for _, name := range names {
		d, ok := Devices[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("unknown device %q (available: %s)", name, strings.Join(DeviceNames(), ", "))
		}
		out = append(out, d)
	}
	return out, nil
}

func (a *Auditor) auditDevice(browserCtx context.Context, req Request, d Device) PageAudit {
	tabCtx, tabCancel := chromedp.NewContext(browserCtx)
	defer tabCancel()
	tabCtx, timeoutCancel := context.WithTimeout(tabCtx, a.opts.Timeout)
	defer timeoutCancel()

	collector := newErrorCollector(tabCtx)
	audit := PageAudit{Device: d}

	start := time.Now()
	err := chromedp.Run(tabCtx,
		chromedp.EmulateViewport(d.Width, d.Height),
		chromedp.Navigate(req.URL),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	audit.LoadTime = time.Since(start)
	if err != nil {
		audit.Err = err.Error()
		a.logger.Warn().Str("url", req.URL).Str("device", d.Name).Err(err).Msg("page load failed")
		return audit
	}

	if err := chromedp.Run(tabCtx, chromedp.Evaluate(auditScript, &audit.Metrics)); err != nil {
		audit.Err = err.Error()
		return audit
	}

	if req.Screenshot {
		var buf []byte
		if err := chromedp.Run(tabCtx, chromedp.FullScreenshot(&buf, 90)); err != nil {
			a.logger.Warn().Str("device", d.Name).Err(err).Msg("screenshot failed")
		} else if path, err := a.saveScreenshot(d, buf); err != nil {
			a.logger.Warn().Err(err).Msg("failed to save screenshot")
		} else {
			audit.Screenshot = path
		}
	}

	audit.JSErrors = collector.Errors()
	a.logger.Debug().Str("url", req.URL).Str("device", d.Name).Int64("load_ms", audit.LoadTime.Milliseconds()).Int("js_errors", len(audit.JSErrors)).Msg("page audited")
	return audit
}

func (a *Auditor) saveScreenshot(d Device, png []byte) (string, error) {
	f, err := os.CreateTemp(a.opts.ScreenshotDir, "browser-test-"+d.Name+"-*.png")
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := f.Write(png); err != nil {
		return "", err
	}
	return f.Name(), nil
}

// errorCollector captures uncaught exceptions and console.error calls.
type errorCollector struct {
	mu     sync.Mutex
	errors []string
}

func newErrorCollector(ctx context.Context) *errorCollector {
	c := &errorCollector{}
	chromedp.ListenTarget(ctx, func(ev interface{}) {
		switch e := ev.(type) {
		case *runtime.EventExceptionThrown:
			desc := e.ExceptionDetails.Text
			if e.ExceptionDetails.Exception != nil && e.ExceptionDetails.Exception.Description != "" {
				desc = e.ExceptionDetails.Exception.Description
			}
			c.add("exception: " + desc)
		case *runtime.EventConsoleAPICalled:
			if e.Type != runtime.APITypeError {
				return
			}
			var parts []string
			for _, arg := range e.Args {
				if arg.Value != nil {
					parts = append(parts, string(arg.Value))
				} else if arg.Description != "" {
					parts = append(parts, arg.Description)
				}
			}
			if msg := strings.Join(parts, " "); msg != "" && !strings.Contains(msg, "favicon") {
				c.add("console.error: " + msg)
			}
		}
	})
	return c
}

func (c *errorCollector) add(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errors = append(c.errors, msg)
}

func (c *errorCollector) Errors() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.errors...)
}

func (r *Report) has(test string) bool {
	for _, t := range r.Tests {
		if t == test {
			return true
		}
	}
	return false
}

func check(ok bool) string {
	if ok {
		return "✅"
	}
	return "❌"
}

// Render formats the requested test categories per device.
func (r *Report) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "🌐 Browser audit: %s\n", r.URL)
	for _, p := range r.Pages {
		fmt.Fprintf(&b, "\n📱 %s (%dx%d)\n", p.Device.Name, p.Device.Width, p.Device.Height)
		if p.Err != "" {
			fmt.Fprintf(&b, "  ❌ failed: %s\n", p.Err)
			continue
		}
		m := p.Metrics
		if r.has(TestPerformance) {
			fmt.Fprintf(&b, "  performance: loaded in %dms\n", p.LoadTime.Milliseconds())
		}
		if r.has(TestResponsive) {
			fmt.Fprintf(&b, "  responsive: %s viewport meta, %s no horizontal scroll\n", check(m.ViewportMeta), check(!m.HorizontalScroll))
		}
		if r.has(TestAccessibility) {
			fmt.Fprintf(&b, "  accessibility: %s lang=%q, %s %d/%d images missing alt\n",
				check(m.Lang != ""), m.Lang, check(m.ImagesWithoutAlt == 0), m.ImagesWithoutAlt, m.Images)
		}
		if r.has(TestSEO) {
			fmt.Fprintf(&b, "  seo: %s title %q, %s meta description, %s h1 count %d\n",
				check(m.Title != ""), m.Title, check(m.Description != ""), check(m.H1Count == 1), m.H1Count)
		}
		if r.has(TestSecurity) {
			fmt.Fprintf(&b, "  security: %s https, %s %d password fields over http\n",
				check(m.HTTPS), check(m.InsecureForms == 0), m.InsecureForms)
		}
		if len(p.JSErrors) == 0 {
			b.WriteString("  js errors: none\n")
		} else {
			fmt.Fprintf(&b, "  js errors (%d):\n", len(p.JSErrors))
			for _, e := range p.JSErrors {
				fmt.Fprintf(&b, "    - %s\n", e)
			}
		}
		if p.Screenshot != "" {
			fmt.Fprintf(&b, "  screenshot: %s\n", p.Screenshot)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
