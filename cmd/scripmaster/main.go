package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/rickgao/bfo-scripmaster/internal/api"
	"github.com/rickgao/bfo-scripmaster/internal/catalog"
	"github.com/rickgao/bfo-scripmaster/internal/config"
	"github.com/rickgao/bfo-scripmaster/internal/metrics"
	"github.com/rickgao/bfo-scripmaster/internal/model"
	"github.com/rickgao/bfo-scripmaster/internal/normalize"
	"github.com/rickgao/bfo-scripmaster/internal/refresh"
	"github.com/rickgao/bfo-scripmaster/internal/store"
	"github.com/rickgao/bfo-scripmaster/internal/version"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	envFile := flag.String("env-file", ".env", "dotenv file loaded before the config")
	segment := flag.String("segment", string(model.SegmentAll), "segment to load: idx, stk or all")
	hardRefresh := flag.Bool("hard-refresh", false, "fetch even when today's cache exists")
	symbol := flag.String("symbol", "", "underlying to look up, e.g. BANKEX")
	tradingSymbol := flag.String("tradingsymbol", "", "trading symbol to look up")
	instrument := flag.String("instrument", model.InstrumentOptIdx, "FUTIDX, OPTIDX, FUTSTK or OPTSTK")
	expiry := flag.String("expiry", catalog.ExpiryNear, "near, next, far, all or a DD-MON-YYYY date")
	optionType := flag.String("optiontype", model.OptionNone, "CE, PE or XX")
	strike := flag.String("strike", "0", "strike price as published in the trading symbol")
	dumpMetrics := flag.Bool("metrics", false, "print collected metrics before exiting")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Info())
		return
	}

	if err := config.LoadDotEnv(*envFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Logging, os.Stderr)
	slog.SetDefault(logger)

	q := lookup{
		symbol:        *symbol,
		tradingSymbol: *tradingSymbol,
		instrument:    *instrument,
		expiry:        *expiry,
		optionType:    *optionType,
		strike:        *strike,
	}
	os.Exit(run(cfg, logger, model.Segment(*segment), *hardRefresh, q, *dumpMetrics))
}

// run loads the segment, answers the lookup and returns the exit code.
func run(cfg *config.Config, logger *slog.Logger, segment model.Segment, hardRefresh bool, q lookup, dumpMetrics bool) int {
	logger.Info("starting scripmaster",
		"version", version.Version,
		"commit", version.Commit,
		"store", cfg.Store.Driver,
		"base_url", cfg.API.BaseURL,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	if err != nil {
		logger.Error("failed to register metrics", "error", err)
		return 1
	}

	st, err := store.New(ctx, cfg.Store, logger)
	if err != nil {
		logger.Error("failed to open store", "driver", cfg.Store.Driver, "error", err)
		return 1
	}
	defer st.Close()

	client := api.NewClient(cfg.API.BaseURL,
		api.WithAPIKey(cfg.API.APIKey),
		api.WithTimeout(cfg.API.Timeout),
		api.WithRateLimit(cfg.API.RateLimit, cfg.API.Burst),
		api.WithLogger(logger),
	)
	policy := refresh.New(client, st, normalize.New(cfg.IndexNames),
		refresh.WithLogger(logger),
		refresh.WithMetrics(m),
	)
	loader := catalog.NewLoader(policy,
		catalog.WithLogger(logger),
		catalog.WithMetrics(m),
	)

	start := time.Now()
	cat, err := loader.Open(ctx, segment, hardRefresh)
	if err != nil {
		logger.Error("failed to load scrip master", "segment", segment, "error", err)
		return 1
	}
	logger.Info("scrip master ready",
		"segment", cat.Segment(),
		"rows", cat.Len(),
		"snapshot", cat.ID(),
		"duration", time.Since(start),
	)

	code := 0
	if q.requested() {
		if err := q.run(cat, os.Stdout); err != nil {
			logger.Error("lookup failed", "error", err)
			code = 1
		}
	}

	if dumpMetrics {
		if err := writeMetrics(reg, os.Stdout); err != nil {
			logger.Error("failed to write metrics", "error", err)
		}
	}
	return code
}

func writeMetrics(g prometheus.Gatherer, w io.Writer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	var errs []error
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
