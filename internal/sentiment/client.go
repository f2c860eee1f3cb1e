// client.go: HTTP client for the external text-classification service.
package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"path/filepath"
	"time"

	"github.com/cinelog/cinelog-go/internal/conf"
	"github.com/cinelog/cinelog-go/internal/errors"
	"github.com/cinelog/cinelog-go/internal/logging"
	"github.com/patrickmn/go-cache"
)

// Package-level logger specific to the sentiment service
var (
	serviceLogger *slog.Logger
	closeLogger   func() error
)

func init() {
	var err error
	logFilePath := filepath.Join("logs", "sentiment.log")

	serviceLogger, closeLogger, err = logging.NewFileLogger(logFilePath, "sentiment", slog.LevelDebug)
	if err != nil {
		// Fallback: log the error and keep going with a disabled logger
		log.Printf("Failed to initialize sentiment file logger at %s: %v. Service logging disabled.", logFilePath, err)
		serviceLogger = logging.NewDiscardLogger()
		closeLogger = func() error { return nil }
	}
}

// classifyResponse represents the JSON structure of the classification
// service response.
type classifyResponse struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Client calls the text-classification HTTP service and caches results per
// input text so repeated submissions of the same content skip the network.
type Client struct {
	Settings    *conf.Settings
	Endpoint    string
	Model       string
	HTTPClient  *http.Client
	resultCache *cache.Cache
}

// ensure Client satisfies Analyzer
var _ Analyzer = (*Client)(nil)

// New creates and initializes a new sentiment Client from the given settings.
// The HTTP client timeout comes from sentiment.timeout so a stuck classifier
// cannot hang review creation indefinitely.
func New(settings *conf.Settings) (*Client, error) {
	if settings.Sentiment.Endpoint == "" {
		return nil, errors.Newf("sentiment: endpoint is not configured").
			Component("sentiment").
			Category(errors.CategoryConfiguration).
			Build()
	}

	ttl := time.Duration(settings.Sentiment.CacheTTL) * time.Minute
	serviceLogger.Info("Creating new sentiment client",
		"endpoint", settings.Sentiment.Endpoint,
		"model", settings.Sentiment.Model,
		"cache_ttl", ttl)

	// A zero TTL disables result caching entirely
	var resultCache *cache.Cache
	if ttl > 0 {
		resultCache = cache.New(ttl, 2*ttl)
	}

	return &Client{
		Settings:    settings,
		Endpoint:    settings.Sentiment.Endpoint,
		Model:       settings.Sentiment.Model,
		HTTPClient:  &http.Client{Timeout: time.Duration(settings.Sentiment.Timeout) * time.Second},
		resultCache: resultCache,
	}, nil
}

// Analyze classifies text and returns the parsed label with the classifier's
// confidence. Unrecognized labels coerce to Neutral via ParseLabel.
func (c *Client) Analyze(ctx context.Context, text string) (Result, error) {
	if c.resultCache != nil {
		if cached, found := c.resultCache.Get(text); found {
			if result, ok := cached.(Result); ok {
				serviceLogger.Debug("Returning cached classification", "label", result.Label, "score", result.Score)
				return result, nil
			}
		}
	}

	postData := struct {
		Text  string `json:"text"`
		Model string `json:"model"`
	}{
		Text:  text,
		Model: c.Model,
	}

	postDataBytes, err := json.Marshal(postData)
	if err != nil {
		serviceLogger.Error("Failed to marshal classification request", "error", err)
		return Result{}, fmt.Errorf("failed to marshal JSON data: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewBuffer(postDataBytes))
	if err != nil {
		return Result{}, fmt.Errorf("failed to build classification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return Result{}, handleNetworkError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		serviceLogger.Error("Classification request failed",
			"endpoint", c.Endpoint, "status_code", resp.StatusCode, "response_body", string(body))
		return Result{}, errors.Newf("sentiment: classification request failed with status %d", resp.StatusCode).
			Component("sentiment").
			Category(errors.CategorySentiment).
			Context("status_code", resp.StatusCode).
			Build()
	}

	var decoded classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		serviceLogger.Error("Failed to decode classification response", "error", err)
		return Result{}, errors.New(err).
			Component("sentiment").
			Category(errors.CategorySentiment).
			Context("operation", "decode_response").
			Build()
	}

	result := Result{
		Label: ParseLabel(decoded.Label),
		Score: decoded.Score,
	}

	if c.Settings.Debug {
		serviceLogger.Debug("Classification complete",
			"raw_label", decoded.Label, "label", result.Label, "score", result.Score)
	}

	if c.resultCache != nil {
		c.resultCache.Set(text, result, cache.DefaultExpiration)
	}
	return result, nil
}

// Close releases the client's logger resources.
func (c *Client) Close() {
	if closeLogger != nil {
		if err := closeLogger(); err != nil {
			log.Printf("Failed to close sentiment logger: %v", err)
		}
	}
}

// handleNetworkError handles network errors and returns a more specific error message.
func handleNetworkError(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		serviceLogger.Warn("Classification request timed out", "error", err)
		return errors.New(fmt.Errorf("request timed out: %w", err)).
			Component("sentiment").
			Category(errors.CategoryTimeout).
			Build()
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		var dnsErr *net.DNSError
		if errors.As(urlErr.Err, &dnsErr) {
			serviceLogger.Error("DNS resolution failed", "url", urlErr.URL, "error", err)
			return errors.New(fmt.Errorf("DNS resolution failed: %w", err)).
				Component("sentiment").
				Category(errors.CategoryNetwork).
				Build()
		}
	}
	serviceLogger.Error("Network error occurred", "error", err)
	return errors.New(fmt.Errorf("network error: %w", err)).
		Component("sentiment").
		Category(errors.CategoryNetwork).
		Build()
}
