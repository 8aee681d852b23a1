package repositories

import (
	"net/http"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
	logger "github.com/sirupsen/logrus"
)

const (
	retryWaitMin = 250 * time.Millisecond
	retryWaitMax = 2 * time.Second
)

// NewHTTPClient creates the retrying client shared by the manifest and
// transfer repositories. Connection errors and 5xx responses are retried
// retryMax times. timeout bounds the wait for response headers only, so long
// transfers are not cut off; HTTPManifestRepository applies its own deadline.
func NewHTTPClient(timeout time.Duration, retryMax int) *retryablehttp.Client {
	transport := cleanhttp.DefaultPooledTransport()
	transport.ResponseHeaderTimeout = timeout

	client := retryablehttp.NewClient()
	client.HTTPClient = &http.Client{Transport: transport}
	client.RetryMax = retryMax
	client.RetryWaitMin = retryWaitMin
	client.RetryWaitMax = retryWaitMax
	client.Logger = leveledLogger{}
	return client
}

// leveledLogger routes retryablehttp logs into logrus.
type leveledLogger struct{}

var _ retryablehttp.LeveledLogger = leveledLogger{}

func (leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	logger.WithFields(toFields(keysAndValues)).Error(msg)
}

func (leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.WithFields(toFields(keysAndValues)).Debug(msg)
}

func (leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	logger.WithFields(toFields(keysAndValues)).Trace(msg)
}

func (leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	logger.WithFields(toFields(keysAndValues)).Warn(msg)
}

func toFields(keysAndValues []interface{}) logger.Fields {
	fields := make(logger.Fields, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields[key] = keysAndValues[i+1]
	}
	return fields
}
