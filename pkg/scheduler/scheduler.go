// Package scheduler triggers ingestion for every configured ticker on a cron
// schedule. Each ticker runs as its own job so one failure never blocks another.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/threading"

	"pricefeed-api/pkg/prices"
	"pricefeed-api/pkg/ticker"
)

const (
	DefaultSpec       = "@every 1m"
	DefaultJobTimeout = 30 * time.Second
)

// Runner performs one fetch-and-store for a ticker.
type Runner interface {
	FetchAndStore(ctx context.Context, ticker string) (prices.Sample, error)
}

// Config controls the schedule. Zero values fall back to the defaults above
// and to every allow-listed ticker.
type Config struct {
	Spec       string
	Tickers    []string
	JobTimeout time.Duration
}

// Scheduler owns the cron instance and the per-ticker jobs.
type Scheduler struct {
	cron    *cron.Cron
	runner  Runner
	tickers []string
	timeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc
}

// New validates cfg and registers one job per ticker. Nothing runs until Start.
func New(runner Runner, cfg Config) (*Scheduler, error) {
	if runner == nil {
		return nil, fmt.Errorf("scheduler: runner is required")
	}
	spec := cfg.Spec
	if spec == "" {
		spec = DefaultSpec
	}
	timeout := cfg.JobTimeout
	if timeout <= 0 {
		timeout = DefaultJobTimeout
	}
	tickers, err := resolveTickers(cfg.Tickers)
	if err != nil {
		return nil, err
	}

	logger := cronLogger{}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		runner:  runner,
		tickers: tickers,
		timeout: timeout,
		ctx:     ctx,
		cancel:  cancel,
	}
	for _, t := range tickers {
		t := t
		if _, err := s.cron.AddFunc(spec, func() { s.run(s.ctx, t) }); err != nil {
			cancel()
			return nil, fmt.Errorf("scheduler: invalid spec %q: %w", spec, err)
		}
	}
	return s, nil
}

// Tickers returns the normalized tickers the scheduler triggers.
func (s *Scheduler) Tickers() []string {
	return append([]string(nil), s.tickers...)
}

// Start begins the cron loop in the background.
func (s *Scheduler) Start() {
	logx.Infof("scheduler: starting %d job(s) for %v", len(s.tickers), s.tickers)
	s.cron.Start()
}

// Stop halts scheduling, cancels in-flight runs and waits for them to return
// or for ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	s.cancel()
	select {
	case <-done.Done():
		logx.Info("scheduler: stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler: stop: %w", ctx.Err())
	}
}

// RunOnce triggers every ticker concurrently and waits for all of them.
func (s *Scheduler) RunOnce(ctx context.Context) {
	group := threading.NewRoutineGroup()
	for _, t := range s.tickers {
		t := t
		group.RunSafe(func() {
			s.run(ctx, t)
		})
	}
	group.Wait()
}

func (s *Scheduler) run(parent context.Context, t string) {
	ctx, cancel := context.WithTimeout(parent, s.timeout)
	defer cancel()

	start := time.Now()
	sample, err := s.runner.FetchAndStore(ctx, t)
	if err != nil {
		logx.WithContext(ctx).Errorf("scheduler: %s run failed after %s: %v", t, time.Since(start), err)
		return
	}
	logx.WithContext(ctx).Infof("scheduler: %s stored price=%s ts=%d", t, sample.Price, sample.TsUnix)
}

func resolveTickers(raw []string) ([]string, error) {
	if len(raw) == 0 {
		return ticker.All(), nil
	}
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		t, ok := ticker.Resolve(r)
		if !ok {
			return nil, fmt.Errorf("scheduler: %w", prices.InvalidTicker(r))
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out, nil
}

// cronLogger forwards robfig/cron logs to logx.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logx.Debugw("cron: "+msg, fields(keysAndValues)...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logx.Errorw("cron: "+msg, append(fields(keysAndValues), logx.Field("error", err))...)
}

func fields(kv []interface{}) []logx.LogField {
	out := make([]logx.LogField, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, logx.Field(fmt.Sprint(kv[i]), kv[i+1]))
	}
	return out
}
