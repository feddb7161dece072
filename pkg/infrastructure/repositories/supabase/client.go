// Package supabase reads whole tables through the Supabase REST (PostgREST)
// endpoint.
package supabase

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Velocidex/ordereddict"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/vsinha/pharmadash/pkg/domain/repositories"
	"github.com/vsinha/pharmadash/pkg/domain/table"
)

const maxErrorBody = 512

// Config holds the endpoint and credentials of a Supabase project
type Config struct {
	URL      string
	Key      string
	Timeout  time.Duration
	RetryMax int
}

// Client fetches tables over HTTP
type Client struct {
	baseURL string
	key     string
	http    *retryablehttp.Client
	log     *logrus.Entry
}

// Verify interface compliance
var _ repositories.Fetcher = (*Client)(nil)

// NewClient creates a client for the project at config.URL
func NewClient(config Config, logger *logrus.Entry) (*Client, error) {
	if config.URL == "" {
		return nil, errors.New("supabase: url is required")
	}
	if config.Key == "" {
		return nil, errors.New("supabase: key is required")
	}

	httpClient := retryablehttp.NewClient()
	httpClient.RetryMax = config.RetryMax
	httpClient.Logger = leveledLogger{logger}
	// non-2xx responses are reported by Fetch with their body
	httpClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	if config.Timeout > 0 {
		httpClient.HTTPClient.Timeout = config.Timeout
	}

	return &Client{
		baseURL: strings.TrimRight(config.URL, "/"),
		key:     config.Key,
		http:    httpClient,
		log:     logger,
	}, nil
}

// Source names the backend
func (c *Client) Source() string {
	return "supabase"
}

// Fetch selects every row of the named table
func (c *Client) Fetch(ctx context.Context, name string) (*table.Table, error) {
	if !table.ValidName(name) {
		return nil, errors.Errorf("supabase: invalid table name %q", name)
	}

	reqURL := c.baseURL + "/rest/v1/" + name + "?select=*"
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "supabase: build request for %s", name)
	}
	req.Header.Set("apikey", c.key)
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "supabase: request to %s failed", name)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, errors.Errorf("supabase: %s returned HTTP %d: %s",
			name, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	result, err := decodeRows(name, resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "supabase: decode %s", name)
	}
	return result, nil
}

// decodeRows reads a JSON array of objects without losing key order. Numbers
// stay json.Number so integers keep their exact value.
func decodeRows(name string, r io.Reader) (*table.Table, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	if err := expectDelim(dec, '['); err != nil {
		return nil, err
	}

	result := table.New(name)
	for dec.More() {
		if err := expectDelim(dec, '{'); err != nil {
			return nil, err
		}
		row := ordereddict.NewDict()
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := tok.(string)
			if !ok {
				return nil, errors.Errorf("expected object key, got %v", tok)
			}
			var value interface{}
			if err := dec.Decode(&value); err != nil {
				return nil, err
			}
			row.Set(key, value)
		}
		if err := expectDelim(dec, '}'); err != nil {
			return nil, err
		}
		result.AppendRow(row)
	}

	if err := expectDelim(dec, ']'); err != nil {
		return nil, err
	}
	return result, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return errors.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

// leveledLogger routes retryablehttp logs to logrus
type leveledLogger struct {
	entry *logrus.Entry
}

func (l leveledLogger) fields(keysAndValues []interface{}) *logrus.Entry {
	fields := logrus.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields[key] = keysAndValues[i+1]
	}
	return l.entry.WithFields(fields)
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.fields(keysAndValues).Error(msg)
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.fields(keysAndValues).Info(msg)
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.fields(keysAndValues).Debug(msg)
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.fields(keysAndValues).Warn(msg)
}
