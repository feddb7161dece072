package commands

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/pharmadash/pkg/config"
	"github.com/vsinha/pharmadash/pkg/infrastructure/logging"
)

const fixtureDir = "../../../infrastructure/repositories/csv/testdata"

func csvEnv(t *testing.T) (*Env, *bytes.Buffer) {
	t.Helper()
	cfg := config.Default()
	cfg.Source.Kind = config.SourceCSV
	cfg.Source.DataDir = fixtureDir
	require.NoError(t, cfg.Validate())

	now := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	var out bytes.Buffer
	return &Env{
		Config: cfg,
		Logger: logging.Discard(),
		Clock:  func() time.Time { return now },
		Out:    &out,
	}, &out
}

func TestOpenSource(t *testing.T) {
	logger := logging.Discard()

	fetcher, closeFn, err := OpenSource(config.SourceConfig{Kind: config.SourceCSV, DataDir: fixtureDir}, logger)
	require.NoError(t, err)
	assert.Equal(t, "csv", fetcher.Source())
	assert.NoError(t, closeFn())

	fetcher, closeFn, err = OpenSource(config.SourceConfig{
		Kind: config.SourceSupabase, URL: "https://example.supabase.co", Key: "k",
	}, logger)
	require.NoError(t, err)
	assert.Equal(t, "supabase", fetcher.Source())
	assert.NoError(t, closeFn())

	fetcher, closeFn, err = OpenSource(config.SourceConfig{
		Kind: config.SourcePostgres, DSN: "postgres://dash@localhost/pharma?sslmode=disable",
	}, logger)
	require.NoError(t, err)
	assert.Equal(t, "postgres", fetcher.Source())
	assert.NoError(t, closeFn())

	_, _, err = OpenSource(config.SourceConfig{Kind: config.SourceSupabase, URL: "https://x"}, logger)
	assert.EqualError(t, err, "supabase: key is required")

	_, _, err = OpenSource(config.SourceConfig{Kind: "oracle"}, logger)
	assert.EqualError(t, err, `unsupported source kind: "oracle"`)
}

func TestReportCommand_Text(t *testing.T) {
	env, out := csvEnv(t)

	require.NoError(t, NewReportCommand(env, "Testavan", "text", "", false).Execute(context.Background()))

	text := out.String()
	assert.Contains(t, text, "Items: 3")
	assert.Contains(t, text, "T-200")
	assert.Contains(t, text, "C-100")
	assert.NotContains(t, text, "C-101", "expires after the window and only Testavan is selected")
	assert.Contains(t, text, "Product View: Testavan")
	assert.Contains(t, text, "4,198")
}

func TestReportCommand_VerboseCSV(t *testing.T) {
	env, out := csvEnv(t)
	dir := t.TempDir()

	require.NoError(t, NewReportCommand(env, "Cefepime", "csv", dir, true).Execute(context.Background()))

	assert.Contains(t, out.String(), "CSV saved to: "+filepath.Join(dir, "time_to_market.csv"))
	assert.Contains(t, out.String(), "CSV saved to: "+filepath.Join(dir, "label_quantities.csv"))

	out.Reset()
	require.NoError(t, NewReportCommand(env, "Cefepime", "csv", dir, false).Execute(context.Background()))
	assert.NotContains(t, out.String(), "saved to")
}

func TestReportCommand_UnknownProduct(t *testing.T) {
	env, _ := csvEnv(t)

	err := NewReportCommand(env, "Aspirin", "text", "", false).Execute(context.Background())
	assert.ErrorContains(t, err, `unknown product "Aspirin"`)
}

func TestReportCommand_MissingData(t *testing.T) {
	env, _ := csvEnv(t)
	env.Config.Source.DataDir = t.TempDir()

	err := NewReportCommand(env, "", "json", "", false).Execute(context.Background())
	assert.ErrorContains(t, err, "fetch items")
}

func TestExportCommand(t *testing.T) {
	env, out := csvEnv(t)
	dir := filepath.Join(t.TempDir(), "charts")

	require.NoError(t, NewExportCommand(env, "Cefepime", dir).Execute(context.Background()))

	for _, name := range []string{"expiry", "time-to-market", "top-quantities", "product-expiry", "label-quantities"} {
		_, err := os.Stat(filepath.Join(dir, name+".svg"))
		assert.NoError(t, err, name)
	}
	assert.Contains(t, out.String(), "product-expiry.svg")

	assert.Error(t, NewExportCommand(env, "", "").Execute(context.Background()))
}

func TestServeCommand_Handler(t *testing.T) {
	env, _ := csvEnv(t)

	cmd := NewServeCommand(env, "")
	assert.Equal(t, ":8080", cmd.listen)

	handler, closeFn, err := cmd.Handler()
	require.NoError(t, err)
	defer closeFn()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?product=Ghryvelin", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Expiry Dates for Ghryvelin")
}

func TestServeCommand_Shutdown(t *testing.T) {
	env, _ := csvEnv(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewServeCommand(env, "127.0.0.1:0").Execute(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop after cancel")
	}
}
