// Package providers holds the HTTP plumbing shared by the external
// competitive-data clients.
package providers

import (
	"net/http"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/helix-insights/madison/internal/config"
	"github.com/helix-insights/madison/internal/infrastructure/monitoring/logging"
)

// Query is one fetch request against a provider.
type Query struct {
	// Term narrows the search; empty fetches the unfiltered window.
	Term string

	// DaysBack is the lookback window for date-bounded providers.
	DaysBack int

	// Limit caps the page size; zero uses the provider default.
	Limit int
}

// NewHTTPClient builds a retrying HTTP client from the endpoint tunables.
// Retries use exponential backoff with jitter and honor Retry-After on 429s.
func NewHTTPClient(cfg config.ProviderEndpoint, log logging.Logger) *http.Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.RetryMax
	if cfg.RetryWaitMin > 0 {
		rc.RetryWaitMin = cfg.RetryWaitMin
	}
	if cfg.RetryWaitMax > 0 {
		rc.RetryWaitMax = cfg.RetryWaitMax
	}
	if cfg.Timeout > 0 {
		rc.HTTPClient.Timeout = cfg.Timeout
	}
	rc.Logger = &retryLogger{log: log}
	// Hand the last response back once retries are exhausted so callers can
	// map the status code to a typed error.
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	return rc.StandardClient()
}

// retryLogger adapts logging.Logger to retryablehttp.LeveledLogger.
type retryLogger struct {
	log logging.Logger
}

func (l *retryLogger) Error(msg string, keysAndValues ...interface{}) {
	l.log.Error(msg, toFields(keysAndValues)...)
}

func (l *retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.log.Warn(msg, toFields(keysAndValues)...)
}

func (l *retryLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug(msg, toFields(keysAndValues)...)
}

func (l *retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.log.Debug(msg, toFields(keysAndValues)...)
}

func toFields(keysAndValues []interface{}) []logging.Field {
	fields := make([]logging.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields = append(fields, logging.Any(key, keysAndValues[i+1]))
	}
	return fields
}
