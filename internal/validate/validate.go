package validate

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/linkscan/internal/model"
)

const (
	// DefaultPauseEvery is how many probes run between pacing pauses.
	DefaultPauseEvery = 10
	// DefaultPause is how long the validator rests between probe groups.
	DefaultPause = 500 * time.Millisecond
)

// Prober issues a lightweight reachability check for one URL and returns
// the HTTP status code. Both fetcher implementations satisfy it.
type Prober interface {
	Probe(ctx context.Context, rawURL string) (int, error)
}

// Validator checks link targets with HEAD requests, in order, pausing
// periodically so a long link list does not hammer the target hosts.
type Validator struct {
	prober     Prober
	pauseEvery int
	pause      time.Duration
	logger     *slog.Logger
}

// Option configures a Validator.
type Option func(*Validator)

// WithPause sets the rest duration between probe groups.
func WithPause(d time.Duration) Option {
	return func(v *Validator) {
		if d > 0 {
			v.pause = d
		}
	}
}

// WithPauseEvery sets how many probes run between pauses.
func WithPauseEvery(n int) Option {
	return func(v *Validator) {
		if n > 0 {
			v.pauseEvery = n
		}
	}
}

// WithLogger sets the logger for per-probe diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// NewValidator creates a validator that probes through p.
func NewValidator(p Prober, opts ...Option) *Validator {
	v := &Validator{
		prober:     p,
		pauseEvery: DefaultPauseEvery,
		pause:      DefaultPause,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Links probes every link in place, preserving order. A failed probe is
// recorded on the link as status 0 with the error message and does not stop
// the run. Cancelling ctx stops validation early; links already probed keep
// their results.
//
// The pacing pause runs only after successful probes: a dead host already
// slowed the run down by timing out.
func (v *Validator) Links(ctx context.Context, links []model.Link) error {
	for i := range links {
		if err := ctx.Err(); err != nil {
			return err
		}

		status, err := v.prober.Probe(ctx, links[i].URL)
		if err != nil {
			v.logger.Debug("link probe failed", "url", links[i].URL, "error", err)
			links[i].RecordProbe(0, err.Error())
			continue
		}
		links[i].RecordProbe(status, "")

		if i > 0 && i%v.pauseEvery == 0 {
			if err := v.rest(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}

// rest sleeps for the pause duration or until ctx is cancelled.
func (v *Validator) rest(ctx context.Context) error {
	timer := time.NewTimer(v.pause)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
