package search

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/foundermatch/internal/ai"
	"github.com/spigell/foundermatch/internal/metrics"
	"github.com/spigell/foundermatch/internal/utils"
)

const (
	defaultTimeout      = 30 * time.Second
	defaultMaxLogLength = 200
)

const (
	outcomeOK             = "ok"
	outcomeEmptyQuery     = "empty_query"
	outcomeBackendError   = "backend_error"
	outcomeTimeout        = "timeout"
	outcomeCanceled       = "canceled"
	outcomeEmptyResponse  = "empty_response"
	outcomeMalformed      = "malformed"
	outcomeSchemaMismatch = "schema_mismatch"
	outcomePanic          = "panic"
)

var errNoBackend = errors.New("generative backend is not configured")

type Options struct {
	// Timeout bounds a single backend round trip. Zero means the default.
	Timeout time.Duration
	// MaxLogLength caps prompt and response previews in debug logs.
	MaxLogLength int
}

// Resolver turns a free-text query into organization and actor ids with one
// backend call. Resolve never fails: every error path yields Empty().
type Resolver struct {
	backend   ai.Completer
	timeout   time.Duration
	maxLogLen int
	logger    *zap.Logger
}

func NewResolver(backend ai.Completer, opts Options, logger *zap.Logger) *Resolver {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.MaxLogLength <= 0 {
		opts.MaxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Resolver{
		backend:   backend,
		timeout:   opts.Timeout,
		maxLogLen: opts.MaxLogLength,
		logger:    logger,
	}
}

type completion struct {
	raw string
	err error
}

// Resolve runs one search. Callers are expected to keep a single search in
// flight (see Gate); the resolver does not de-duplicate.
func (r *Resolver) Resolve(ctx context.Context, query string, corpus *Corpus) (result Result) {
	outcome := outcomeOK
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("search resolver recovered from panic", zap.Any("panic", rec))
			result, outcome = Empty(), outcomePanic
		}
		metrics.SearchResolutions.WithLabelValues(outcome).Inc()
	}()

	query = sanitizeQuery(query)
	if query == "" {
		r.logger.Debug("empty search query, skipping backend call")
		outcome = outcomeEmptyQuery
		return Empty()
	}

	corpusJSON, err := corpus.JSON()
	if err != nil {
		r.logger.Warn("rendering search corpus failed", zap.Error(err))
		outcome = outcomeBackendError
		return Empty()
	}

	prompt := buildPrompt(query, corpusJSON)

	r.logger.Debug("search backend request",
		zap.String("query", query),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, r.maxLogLen)),
	)

	raw, err := r.complete(ctx, prompt)
	if err != nil {
		outcome = classifyBackendError(err)
		r.logger.Warn("search backend call failed",
			zap.String("query", query),
			zap.String("outcome", outcome),
			zap.Error(err),
		)
		return Empty()
	}

	r.logger.Debug("search backend response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, r.maxLogLen)),
	)

	parsed, err := parseResponse(raw)
	if err != nil {
		outcome = classifyParseError(err)
		r.logger.Warn("discarding search backend response",
			zap.String("query", query),
			zap.String("outcome", outcome),
			zap.String("response_preview", utils.TruncateForLog(raw, r.maxLogLen)),
			zap.Error(err),
		)
		return Empty()
	}

	r.logger.Info("search resolved",
		zap.String("query", query),
		zap.Int("organizations", len(parsed.OrganizationIDs)),
		zap.Int("actors", len(parsed.ActorIDs)),
	)

	return parsed
}

// complete bounds the backend call with the resolver timeout even when the
// backend ignores its context.
func (r *Resolver) complete(ctx context.Context, prompt string) (string, error) {
	if r.backend == nil {
		return "", errNoBackend
	}

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	defer func() {
		metrics.SearchDuration.Observe(time.Since(start).Seconds())
	}()

	done := make(chan completion, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- completion{err: fmt.Errorf("backend panicked: %v", rec)}
			}
		}()
		raw, err := r.backend.Complete(callCtx, prompt)
		done <- completion{raw: raw, err: err}
	}()

	select {
	case c := <-done:
		if c.err != nil && callCtx.Err() != nil {
			return "", callCtx.Err()
		}
		return c.raw, c.err
	case <-callCtx.Done():
		return "", callCtx.Err()
	}
}

func classifyBackendError(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return outcomeTimeout
	case errors.Is(err, context.Canceled):
		return outcomeCanceled
	default:
		return outcomeBackendError
	}
}

func classifyParseError(err error) string {
	switch {
	case errors.Is(err, ErrEmptyResponse):
		return outcomeEmptyResponse
	case errors.Is(err, ErrSchemaMismatch):
		return outcomeSchemaMismatch
	default:
		return outcomeMalformed
	}
}
