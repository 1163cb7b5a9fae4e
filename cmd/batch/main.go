// Command batch analyzes every transcript in an xlsx workbook and writes a
// results workbook with a summary sheet.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"speech-coach-go/internal/aggregator"
	"speech-coach-go/internal/analyzer"
	"speech-coach-go/internal/config"
	"speech-coach-go/internal/dataset"
	"speech-coach-go/internal/gemini"
	"speech-coach-go/internal/logger"
	"speech-coach-go/internal/types"
)

func main() {
	in := flag.String("in", "transcripts.xlsx", "input workbook with transcript and video length columns")
	out := flag.String("out", "analysis_results.xlsx", "output workbook")
	limit := flag.Int("limit", 0, "analyze at most this many rows (0 = all)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.New().WithError(err).Fatal("failed to load configuration")
	}
	log := logger.NewWithOptions(cfg.Environment, cfg.LogLevel, os.Stdout)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	records, err := dataset.Load(*in)
	if err != nil {
		log.WithError(err).WithField("path", *in).Fatal("failed to load dataset")
	}
	if *limit > 0 && len(records) > *limit {
		records = records[:*limit]
	}

	client, err := gemini.New(ctx, gemini.Config{
		APIKey:      cfg.Gemini.APIKey,
		Model:       cfg.Gemini.Model,
		HTTPTimeout: cfg.Gemini.HTTPTimeout,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to create Gemini client")
	}
	a := analyzer.New(client,
		analyzer.WithRetryPolicy(analyzer.RetryPolicy{
			MaxAttempts: cfg.Retry.MaxAttempts,
			MinDelay:    cfg.Retry.MinDelay,
			MaxDelay:    cfg.Retry.MaxDelay,
		}),
		analyzer.WithLogger(log.Entry),
	)

	outcomes := run(ctx, a, records, log)
	summary := aggregator.Aggregate(outcomes)
	if err := dataset.WriteResults(*out, outcomes, summary); err != nil {
		log.WithError(err).Fatal("failed to write results")
	}
	log.WithField("path", *out).
		WithField("succeeded", summary.Succeeded).
		WithField("failed", summary.Failed).
		WithField("average_score", fmt.Sprintf("%.2f", summary.AverageScore)).
		Info("batch complete")
}

func run(ctx context.Context, a *analyzer.Analyzer, records []types.TranscriptRecord, log *logger.Logger) []types.AnalysisOutcome {
	outcomes := make([]types.AnalysisOutcome, 0, len(records))
	for i, rec := range records {
		if ctx.Err() != nil {
			log.Warn("interrupted, writing partial results")
			break
		}
		rowLog := log.WithField("row", rec.RowID)
		rowLog.Infof("analyzing row %d/%d", i+1, len(records))

		start := time.Now()
		o := types.AnalysisOutcome{TranscriptRecord: rec}
		res, err := a.Analyze(ctx, rec.Transcript, rec.VideoLength)
		o.DurationMs = time.Since(start).Milliseconds()
		if err != nil {
			o.ErrorKind = analyzer.ErrorKind(err)
			o.Error = err.Error()
			rowLog.WithField("kind", o.ErrorKind).Warn("row failed")
		} else {
			o.Result = res
		}
		outcomes = append(outcomes, o)
	}
	return outcomes
}
