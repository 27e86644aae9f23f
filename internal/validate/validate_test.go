package validate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/nao1215/linkscan/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeProber returns scripted statuses and errors and records call order.
type fakeProber struct {
	mu     sync.Mutex
	calls  []string
	status map[string]int
	errs   map[string]error
}

func (f *fakeProber) Probe(_ context.Context, rawURL string) (int, error) {
	f.mu.Lock()
	f.calls = append(f.calls, rawURL)
	f.mu.Unlock()

	if err := f.errs[rawURL]; err != nil {
		return 0, err
	}
	if s, ok := f.status[rawURL]; ok {
		return s, nil
	}
	return 200, nil
}

func TestValidatorLinks(t *testing.T) {
	t.Parallel()

	prober := &fakeProber{
		status: map[string]int{
			"https://site.com/ok":      200,
			"https://site.com/missing": 404,
		},
		errs: map[string]error{
			"https://site.com/dead": errors.New("dial tcp: connection refused"),
		},
	}
	links := []model.Link{
		{URL: "https://site.com/ok"},
		{URL: "https://site.com/missing"},
		{URL: "https://site.com/dead"},
	}

	v := NewValidator(prober, WithLogger(discardLogger()))
	if err := v.Links(context.Background(), links); err != nil {
		t.Fatalf("Links() error = %v", err)
	}

	if !links[0].Validated() || *links[0].StatusCode != 200 || !*links[0].IsAccessible {
		t.Errorf("ok link = %+v, want status 200 and accessible", links[0])
	}
	if !links[1].Validated() || *links[1].StatusCode != 404 || *links[1].IsAccessible {
		t.Errorf("missing link = %+v, want status 404 and inaccessible", links[1])
	}
	if !links[2].Validated() || *links[2].StatusCode != 0 || *links[2].IsAccessible {
		t.Errorf("dead link = %+v, want status 0 and inaccessible", links[2])
	}
	if links[2].Error == "" {
		t.Error("dead link Error is empty, want the probe failure message")
	}
	if links[0].Error != "" || links[1].Error != "" {
		t.Error("probed links carry an error message, want none on responses")
	}

	wantOrder := []string{"https://site.com/ok", "https://site.com/missing", "https://site.com/dead"}
	if !slices.Equal(prober.calls, wantOrder) {
		t.Errorf("probe order = %v, want %v", prober.calls, wantOrder)
	}
}

func TestValidatorLinksPacing(t *testing.T) {
	t.Parallel()

	links := make([]model.Link, 7)
	for i := range links {
		links[i].URL = "https://site.com/ok"
	}

	v := NewValidator(&fakeProber{},
		WithPauseEvery(2),
		WithPause(40*time.Millisecond),
		WithLogger(discardLogger()),
	)
	start := time.Now()
	if err := v.Links(context.Background(), links); err != nil {
		t.Fatalf("Links() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed < 100*time.Millisecond {
		t.Errorf("elapsed = %v, want at least three pacing pauses", elapsed)
	}
}

func TestValidatorLinksCancelledBeforeStart(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	prober := &fakeProber{}
	links := []model.Link{{URL: "https://site.com/ok"}}

	v := NewValidator(prober, WithLogger(discardLogger()))
	if err := v.Links(ctx, links); !errors.Is(err, context.Canceled) {
		t.Fatalf("Links() error = %v, want context.Canceled", err)
	}
	if links[0].Validated() {
		t.Error("link was probed after cancellation")
	}
	if len(prober.calls) != 0 {
		t.Errorf("prober saw %d calls, want 0", len(prober.calls))
	}
}

func TestValidatorLinksCancelledDuringPause(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	prober := &fakeProber{}
	links := []model.Link{
		{URL: "https://site.com/a"},
		{URL: "https://site.com/b"},
		{URL: "https://site.com/c"},
	}

	v := NewValidator(prober,
		WithPauseEvery(1),
		WithPause(5*time.Second),
		WithLogger(discardLogger()),
	)
	if err := v.Links(ctx, links); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Links() error = %v, want context.DeadlineExceeded", err)
	}

	if !links[0].Validated() || !links[1].Validated() {
		t.Error("links probed before the pause lost their results")
	}
	if links[2].Validated() {
		t.Error("link after the interrupted pause was probed")
	}
}

func TestNewValidatorDefaults(t *testing.T) {
	t.Parallel()

	v := NewValidator(&fakeProber{})
	if v.pauseEvery != DefaultPauseEvery {
		t.Errorf("pauseEvery = %d, want %d", v.pauseEvery, DefaultPauseEvery)
	}
	if v.pause != DefaultPause {
		t.Errorf("pause = %v, want %v", v.pause, DefaultPause)
	}

	v = NewValidator(&fakeProber{}, WithPause(0), WithPauseEvery(0), WithLogger(nil))
	if v.pauseEvery != DefaultPauseEvery || v.pause != DefaultPause || v.logger == nil {
		t.Error("zero option values must not override the defaults")
	}
}
