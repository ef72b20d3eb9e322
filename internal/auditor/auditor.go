// Package auditor consults an external confidence scorer before a trade is
// admitted. The scorer only ever receives the aggregated statistical summary
// as named scalars — never raw price bars.
package auditor

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// Scorer maps a statistical summary to a confidence value in [0,1].
type Scorer interface {
	Score(ctx context.Context, summary map[string]float64) (float64, error)
	Name() string
}

// ErrExternalScore wraps any malformed or failed external response. The
// caller degrades to a fail-closed score instead of aborting the run.
var ErrExternalScore = errors.New("external confidence score unavailable")

var floatRe = regexp.MustCompile(`[-+]?\d*\.?\d+`)

// ParseScore defensively extracts exactly one floating-point value from a
// raw scorer response and clamps it to [0,1]. Anything else is a parse
// failure; the raw text rides along in the error for the audit log.
func ParseScore(raw string) (float64, error) {
	match := floatRe.FindString(raw)
	if match == "" {
		return 0, fmt.Errorf("%w: no numeric value in %q", ErrExternalScore, raw)
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: parse %q: %v", ErrExternalScore, raw, err)
	}
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return v, nil
}

// ScoreWithRetry invokes the scorer with a bounded per-attempt timeout and
// exponential backoff. Repeated failure degrades to the fail-closed score of
// 0 rather than halting the symbol's run.
func ScoreWithRetry(ctx context.Context, s Scorer, summary map[string]float64, timeout time.Duration, maxRetries int, log zerolog.Logger) float64 {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, timeout)
		v, err := s.Score(callCtx, summary)
		cancel()
		if err == nil {
			return v
		}
		lastErr = err
		if attempt == maxRetries {
			break
		}
		backoff := time.Duration(1<<uint(attempt)) * time.Second
		log.Warn().Err(err).Int("attempt", attempt+1).Dur("backoff", backoff).
			Str("scorer", s.Name()).Msg("external confidence score failed, retrying")
		select {
		case <-ctx.Done():
			log.Error().Err(ctx.Err()).Msg("audit canceled, failing closed")
			return 0
		case <-time.After(backoff):
		}
	}
	log.Error().Err(lastErr).Str("scorer", s.Name()).Msg("external confidence score exhausted retries, failing closed")
	return 0
}

// Static is a fixed-confidence scorer used in tests and offline runs.
type Static struct {
	Value float64
}

func (s Static) Score(_ context.Context, _ map[string]float64) (float64, error) {
	return s.Value, nil
}

func (s Static) Name() string { return "static" }
