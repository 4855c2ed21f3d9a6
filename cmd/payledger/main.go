package main

import (
	"PayLedger/internal/config"
	"PayLedger/internal/engine"
	"PayLedger/internal/ingestion"
	"PayLedger/internal/journal"
	"PayLedger/internal/observability"
	"PayLedger/internal/report"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.Load()
	logger := observability.NewLoggerWithLevel("payledger", cfg.LogLevel)

	if len(os.Args) != 2 {
		logger.Error().Msg("usage: payledger <transactions.csv> (use - for stdin)")
		return 2
	}
	inputPath := os.Args[1]

	input, err := openInput(inputPath)
	if err != nil {
		logger.Error().Err(err).Str("input", inputPath).Msg("open input")
		return 1
	}
	defer input.Close()

	metrics := observability.NewMetrics()
	if cfg.MetricsAddr != "" {
		go func() {
			if err := observability.Serve(cfg.MetricsAddr); err != nil && err != http.ErrServerClosed {
				logger.Warn().Err(err).Msg("metrics listener stopped")
			}
		}()
	}

	jrnl := journal.New()
	eng := engine.New(
		engine.WithJournal(jrnl),
		engine.WithMetrics(metrics),
	)

	runID := uuid.New()
	logger.Info().
		Str("run_id", runID.String()).
		Str("input", inputPath).
		Msg("replay starting")

	start := time.Now()
	reader := ingestion.NewReader(input)
	var processed, skipped int

	for {
		rec, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Malformed input aborts the whole run, no partial continuation.
			logger.Error().Err(err).Str("run_id", runID.String()).Msg("malformed record, aborting")
			return 1
		}

		outcome, err := eng.Apply(rec)
		if err != nil {
			logger.Error().
				Err(err).
				Str("run_id", runID.String()).
				Str("record_type", rec.Type.String()).
				Uint32("tx", rec.TxID).
				Msg("fatal record, aborting")
			return 1
		}

		processed++
		if outcome.Skipped() {
			skipped++
			// Side-channel audit of skips; the engine itself retains none.
			logger.Debug().
				Str("record_type", rec.Type.String()).
				Uint16("client", rec.ClientID).
				Uint32("tx", rec.TxID).
				Str("reason", outcome.String()).
				Msg("record skipped")
		}
	}

	snaps := eng.Snapshot()
	if err := report.WriteAccounts(os.Stdout, snaps); err != nil {
		logger.Error().Err(err).Msg("write account snapshots")
		return 1
	}

	logger.Info().
		Str("run_id", runID.String()).
		Int("records", processed).
		Int("skipped", skipped).
		Int("accounts", len(snaps)).
		Int("journal_entries", jrnl.Len()).
		Dur("elapsed", time.Since(start)).
		Msg("replay complete")
	return 0
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}
