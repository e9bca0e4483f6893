package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickgao/bfo-scripmaster/internal/catalog"
	"github.com/rickgao/bfo-scripmaster/internal/config"
	"github.com/rickgao/bfo-scripmaster/internal/metrics"
	"github.com/rickgao/bfo-scripmaster/internal/model"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"bogus": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(config.LoggingConfig{Level: "warn", Format: "json"}, &buf)

	logger.Info("dropped")
	logger.Warn("kept", "segment", "idx")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "idx", entry["segment"])
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}`, entry["time"])
}

func TestNewLoggerText(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(config.LoggingConfig{Level: "debug", Format: "text"}, &buf)
	logger.Debug("hello", "rows", 3)
	assert.Contains(t, buf.String(), "msg=hello rows=3")
}

func testCatalog() *catalog.Catalog {
	return catalog.NewCatalog(model.SegmentIndex, model.Table{
		{Token: "1", Symbol: "BANKEX", TradingSymbol: "BANKEX28DEC2350000CE", Expiry: "28-DEC-2023",
			Instrument: "OPTIDX", OptionType: "CE", StrikePrice: "2350000"},
		{Token: "2", Symbol: "BANKEX", TradingSymbol: "BANKEX28DEC2350100CE", Expiry: "28-DEC-2023",
			Instrument: "OPTIDX", OptionType: "CE", StrikePrice: "2350100"},
		{Token: "3", Symbol: "BANKEX", TradingSymbol: "BANKEX04JAN2450000CE", Expiry: "04-JAN-2024",
			Instrument: "OPTIDX", OptionType: "CE", StrikePrice: "2450000"},
	})
}

func TestLookupRequested(t *testing.T) {
	assert.False(t, lookup{}.requested())
	assert.True(t, lookup{symbol: "BANKEX"}.requested())
	assert.True(t, lookup{tradingSymbol: "BANKEX23DECFUT"}.requested())
}

func TestLookupNearExpiry(t *testing.T) {
	var out bytes.Buffer
	q := lookup{symbol: "bankex", instrument: "OPTIDX", expiry: "near", optionType: "CE", strike: "2350100"}

	require.NoError(t, q.run(testCatalog(), &out))
	assert.Equal(t,
		"expiry\t28-DEC-2023\ntradingsymbol\tBANKEX28DEC2350100CE\ntoken\t2\nstrikediff\t100\n",
		out.String())
}

func TestLookupAllExpiries(t *testing.T) {
	var out bytes.Buffer
	q := lookup{symbol: "BANKEX", instrument: "OPTIDX", expiry: "all"}

	require.NoError(t, q.run(testCatalog(), &out))
	assert.Equal(t, "expiries\t28-DEC-2023,04-JAN-2024\n", out.String())
}

func TestLookupByTradingSymbol(t *testing.T) {
	var out bytes.Buffer
	q := lookup{tradingSymbol: "BANKEX04JAN2450000CE", instrument: "OPTIDX", expiry: "near"}

	require.NoError(t, q.run(testCatalog(), &out))
	assert.Equal(t, "expiry\t04-JAN-2024\ntoken\t3\n", out.String())
}

func TestLookupMiss(t *testing.T) {
	q := lookup{symbol: "SENSEX", instrument: "OPTIDX", expiry: "near"}
	err := q.run(testCatalog(), &bytes.Buffer{})
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestWriteMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)
	m.ObserveLoad(metrics.SourceCache)

	var out bytes.Buffer
	require.NoError(t, writeMetrics(reg, &out))
	assert.Contains(t, out.String(), `scripmaster_loads_total{source="cache"} 1`)
}

func testConfig(t *testing.T, baseURL string) *config.Config {
	t.Helper()
	cfg := &config.Config{
		API:     config.APIConfig{BaseURL: baseURL, Timeout: 5 * time.Second, Burst: 1},
		Store:   config.StoreConfig{Driver: config.DriverFile, Dir: t.TempDir()},
		Logging: config.LoggingConfig{Level: "error", Format: "text"},
	}
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestRunLoadsSegment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"exchange":"BFO","token":"7","lotsize":"15","symbol":"BANKEX",` +
			`"tradingsymbol":"BANKEX23DECFUT","expiry":"28-DEC-2023","instrument":"FUTIDX","optiontype":"XX","strike":"-1"}]}`))
	}))
	defer srv.Close()

	cfg := testConfig(t, srv.URL)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	code := run(cfg, logger, model.SegmentIndex, false, lookup{}, false)
	assert.Equal(t, 0, code)

	_, err := os.Stat(filepath.Join(cfg.Store.Dir, catalog.CacheIndex))
	assert.NoError(t, err)
}

func TestRunRejectsUnknownSegment(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	assert.Equal(t, 1, run(cfg, logger, "cds", false, lookup{}, false))
}
