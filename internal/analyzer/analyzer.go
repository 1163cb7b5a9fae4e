package analyzer

import (
	"context"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"speech-coach-go/internal/gemini"
	"speech-coach-go/internal/prompt"
	"speech-coach-go/internal/types"
)

// Generator is the remote model call. *gemini.Client satisfies it.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Analyzer struct {
	gen    Generator
	policy RetryPolicy
	log    *logrus.Entry
}

type Option func(*Analyzer)

func WithRetryPolicy(p RetryPolicy) Option {
	return func(a *Analyzer) { a.policy = p }
}

func WithLogger(l *logrus.Entry) Option {
	return func(a *Analyzer) { a.log = l }
}

func New(gen Generator, opts ...Option) *Analyzer {
	a := &Analyzer{
		gen:    gen,
		policy: DefaultRetryPolicy(),
		log:    logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.log = a.log.WithField("component", "analyzer")
	return a
}

// Analyze turns a transcript into a validated SpeechAnalysisResult.
//
// Transient remote failures are retried within the policy budget and end in
// a *RetryExhaustedError. Empty replies, schema failures and every other
// error are returned on the first occurrence.
func (a *Analyzer) Analyze(ctx context.Context, transcript, videoLength string) (*types.SpeechAnalysisResult, error) {
	p := prompt.BuildAnalysisPrompt(transcript, videoLength)
	log := a.log.WithFields(logrus.Fields{
		"transcript_len": len(transcript),
		"video_length":   videoLength,
	})

	attempts := 0
	op := func() (*types.SpeechAnalysisResult, error) {
		attempts++
		res, err := a.attempt(ctx, p, log.WithField("attempt", attempts))
		if err != nil && !gemini.Classify(err).Retryable() {
			return nil, backoff.Permanent(err)
		}
		return res, err
	}
	notify := func(err error, wait time.Duration) {
		log.WithFields(logrus.Fields{
			"attempt":  attempts,
			"category": gemini.Classify(err).String(),
			"wait_ms":  wait.Milliseconds(),
			"error":    err.Error(),
		}).Warn("transient model failure, retrying")
	}

	res, err := backoff.RetryNotifyWithData(op, a.policy.newBackOff(ctx), notify)
	if err != nil {
		if gemini.Classify(err).Retryable() {
			return nil, &RetryExhaustedError{Attempts: attempts, Err: err}
		}
		return nil, err
	}
	log.WithFields(logrus.Fields{"attempts": attempts, "score": res.Score}).Info("transcript analyzed")
	return res, nil
}

func (a *Analyzer) attempt(ctx context.Context, p string, log *logrus.Entry) (*types.SpeechAnalysisResult, error) {
	text, err := a.gen.Generate(ctx, p)
	if err != nil {
		log.WithFields(logrus.Fields{
			"error":    err.Error(),
			"category": gemini.Classify(err).String(),
		}).Error("error during Gemini API call")
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		log.Error("model returned an empty response")
		return nil, ErrEmptyResponse
	}

	res, err := types.ParseAnalysisResult(Sanitize(text))
	if err != nil {
		log.WithFields(logrus.Fields{
			"error":        err.Error(),
			"raw_response": text,
		}).Error("validation failed for Gemini response")
		return nil, ErrInvalidFormat
	}
	return res, nil
}
