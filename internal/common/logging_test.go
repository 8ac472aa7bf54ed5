package common

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewLogger_FluentAPI(t *testing.T) {
	logger := NewLogger("error")
	if logger == nil {
		t.Fatal("NewLogger returned nil")
	}
	logger.Info().Str("key", "value").Msg("test message")
	logger.Warn().Int("count", 42).Msg("warning")
	logger.Debug().Float64("rate", 3.14).Bool("ok", true).Msg("debug")
}

func TestNewLoggerFromConfig_DefaultsToConsole(t *testing.T) {
	logger := NewLoggerFromConfig(LoggingConfig{Level: "error"})
	if logger == nil {
		t.Fatal("NewLoggerFromConfig returned nil")
	}
	logger.Error().Str("tool", "stripe_check").Msg("does not panic")
}

func TestNewLoggerWithOutput_WritesToProvidedWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOutput("info", &buf)
	logger.Info().Str("key", "value").Msg("hello")

	if !strings.Contains(buf.String(), "hello") {
		t.Errorf("expected output to contain message, got %q", buf.String())
	}
}

func TestNewSilentLogger(t *testing.T) {
	logger := NewSilentLogger()
	if logger == nil {
		t.Fatal("NewSilentLogger returned nil")
	}
	logger.Error().Msg("discarded")
}

func TestWithCorrelationId(t *testing.T) {
	logger := NewSilentLogger().WithCorrelationId("abc-123")
	if logger == nil || logger.ILogger == nil {
		t.Fatal("WithCorrelationId returned nil logger")
	}
	logger.Info().Msg("correlated")
}

func TestLoggingConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     LoggingConfig
		wantErr bool
	}{
		{"defaults", LoggingConfig{}, false},
		{"console and file", LoggingConfig{Level: "debug", Outputs: []string{"console", "file"}}, false},
		{"unknown output", LoggingConfig{Outputs: []string{"syslog"}}, true},
		{"unknown level", LoggingConfig{Level: "loud"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoggingConfig_FileWriterDefaults(t *testing.T) {
	wc := LoggingConfig{}.fileWriterConfig()
	if wc.FileName != "logs/saas-mcp.log" {
		t.Errorf("expected default file logs/saas-mcp.log, got %s", wc.FileName)
	}
	if wc.MaxSize != 500*1024 || wc.MaxBackups != 20 {
		t.Errorf("unexpected rotation defaults: size=%d backups=%d", wc.MaxSize, wc.MaxBackups)
	}

	wc = LoggingConfig{FilePath: "/tmp/x.log", MaxSizeMB: 2, MaxBackups: 3}.fileWriterConfig()
	if wc.FileName != "/tmp/x.log" || wc.MaxSize != 2*1024*1024 || wc.MaxBackups != 3 {
		t.Errorf("unexpected file writer config: %+v", wc)
	}
}
