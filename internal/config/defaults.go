package config

import "github.com/bobmcallan/saas-mcp/internal/common"

// DefaultTemplates maps template names to their GitHub repositories.
var DefaultTemplates = map[string]string{
	"nextjs-saas":         "https://github.com/vercel/nextjs-subscription-payments",
	"t3-app":              "https://github.com/t3-oss/create-t3-app",
	"nextjs-subscription": "https://github.com/vercel/nextjs-subscription-payments",
	"shadcn-admin":        "https://github.com/shadcn-ui/ui",
	"next-saas-stripe":    "https://github.com/mickasmt/next-saas-stripe-starter",
	"taxonomy":            "https://github.com/shadcn-ui/taxonomy",
}

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	templates := make(map[string]string, len(DefaultTemplates))
	for k, v := range DefaultTemplates {
		templates[k] = v
	}

	return &Config{
		Server: ServerConfig{
			Name:      "saas-mcp",
			Transport: "stdio",
			Host:      "localhost",
			Port:      4250,
		},
		APIs: APIConfig{
			StripeURL:        "https://api.stripe.com/v1",
			VercelURL:        "https://api.vercel.com",
			RequestTimeoutMs: 30000,
		},
		Templates: templates,
		HealthCheck: HealthCheckConfig{
			DefaultTimeoutMs: 5000,
		},
		Parallel: ParallelConfig{
			DefaultConcurrency: 3,
			MaxConcurrency:     10,
			MaxTasks:           50,
		},
		Scan: ScanConfig{
			MaxFiles: 10,
		},
		Browser: BrowserConfig{
			Headless:  true,
			TimeoutMs: 60000,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Logging: common.LoggingConfig{
			Level:      "info",
			Format:     "text",
			Outputs:    []string{"console"},
			FilePath:   "logs/saas-mcp.log",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
	}
}
