// Package loadgen simulates concurrent users hitting one URL in bounded waves.
package loadgen

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"siteprobe/internal/fetcher"
	"siteprobe/internal/limiter"
	"siteprobe/internal/model"

	"golang.org/x/sync/errgroup"
)

// DefaultBatchSize is the largest number of requests in flight at once.
const DefaultBatchSize = 300

// Wave describes one batch of concurrent requests.
// Offset is the number of samples already collected when the wave starts.
type Wave struct {
	Index  int
	Size   int
	Offset int
}

// WaveObserver is called right before a wave is launched.
type WaveObserver func(Wave)

// Generator issues timed GET requests in waves that never overlap.
type Generator struct {
	client    *http.Client
	batchSize int
	timeout   time.Duration
	userAgent string
	clock     limiter.Timer
	logger    *slog.Logger
	observer  WaveObserver
}

// Option configures a Generator.
type Option func(*Generator)

// WithClient sets the shared session client. It should pool at least batch size connections per host.
func WithClient(client *http.Client) Option {
	return func(g *Generator) {
		g.client = client
	}
}

// WithBatchSize sets the wave size; values below one keep the default.
func WithBatchSize(size int) Option {
	return func(g *Generator) {
		if size > 0 {
			g.batchSize = size
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(g *Generator) {
		g.timeout = timeout
	}
}

// WithUserAgent sets the User-Agent header of simulated requests.
func WithUserAgent(userAgent string) Option {
	return func(g *Generator) {
		g.userAgent = userAgent
	}
}

// WithClock sets the clock used to time requests.
func WithClock(clock limiter.Timer) Option {
	return func(g *Generator) {
		g.clock = clock
	}
}

// WithLogger sets the logger for wave progress.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithWaveObserver registers fn to be notified of every wave.
func WithWaveObserver(fn WaveObserver) Option {
	return func(g *Generator) {
		g.observer = fn
	}
}

// New creates a Generator. Without WithClient it builds a pooled client sized to the batch.
func New(opts ...Option) *Generator {
	g := &Generator{
		batchSize: DefaultBatchSize,
		timeout:   fetcher.DefaultTimeout,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(g)
	}

	if g.client == nil {
		g.client = NewClient(g.batchSize)
	}

	return g
}

// NewClient returns a client whose transport keeps up to batchSize idle connections per host.
func NewClient(batchSize int) *http.Client {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConns = batchSize
	transport.MaxIdleConnsPerHost = batchSize

	return &http.Client{Transport: transport}
}

// PlanWaves splits users into consecutive waves of at most batch requests.
func PlanWaves(users, batch int) []int {
	if users <= 0 {
		return []int{}
	}

	if batch <= 0 {
		batch = DefaultBatchSize
	}

	waves := make([]int, 0, (users+batch-1)/batch)
	for remaining := users; remaining > 0; remaining -= batch {
		waves = append(waves, min(batch, remaining))
	}

	return waves
}

// Run issues exactly users requests against targetURL and returns one sample per request.
// Each wave completes before the next starts. When ctx is done between waves, the remaining
// requests are recorded as failures without being sent.
func (g *Generator) Run(ctx context.Context, targetURL string, users int) []model.LoadSample {
	fetch := fetcher.New(g.client, g.timeout, g.userAgent, nil, 0, g.clock)
	samples := make([]model.LoadSample, 0, max(users, 0))

	for index, size := range PlanWaves(users, g.batchSize) {
		wave := Wave{Index: index, Size: size, Offset: len(samples)}

		if err := ctx.Err(); err != nil {
			g.logger.Warn("load test interrupted", "wave", index, "skipped", users-len(samples), "error", err)
			for range users - len(samples) {
				samples = append(samples, failedSample(err))
			}

			break
		}

		if g.observer != nil {
			g.observer(wave)
		}

		samples = append(samples, g.runWave(ctx, fetch, targetURL, wave)...)
	}

	return samples
}

func (g *Generator) runWave(ctx context.Context, fetch *fetcher.Fetcher, targetURL string, wave Wave) []model.LoadSample {
	g.logger.Debug("wave started", "wave", wave.Index, "size", wave.Size)

	results := make([]model.LoadSample, wave.Size)

	var group errgroup.Group
	for i := range wave.Size {
		group.Go(func() error {
			results[i] = hit(ctx, fetch, targetURL)
			return nil
		})
	}

	// Workers record failures as samples, so Wait only acts as the barrier.
	_ = group.Wait()

	failures := 0
	for _, sample := range results {
		if sample.Status.Failed {
			failures++
		}
	}

	g.logger.Debug("wave finished", "wave", wave.Index, "size", wave.Size, "failures", failures)

	return results
}

func hit(ctx context.Context, fetch *fetcher.Fetcher, targetURL string) model.LoadSample {
	result, err := fetch.Fetch(ctx, targetURL)
	if err != nil {
		return failedSample(err)
	}

	return model.LoadSample{
		Status:         model.StatusCode(result.StatusCode),
		ElapsedSeconds: model.Float(result.Seconds()),
	}
}

func failedSample(err error) model.LoadSample {
	return model.LoadSample{
		Status: model.StatusError(),
		Error:  err.Error(),
	}
}
