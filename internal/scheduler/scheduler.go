// Package scheduler re-runs analyses for a watchlist on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/devenn05/Crypto-signal-check/internal/app"
	"github.com/devenn05/Crypto-signal-check/internal/domain"
	"github.com/devenn05/Crypto-signal-check/internal/ports"
)

// DefaultSpec runs every five minutes, on the minute.
const DefaultSpec = "0 */5 * * * *"

// ParseWatchlist parses a comma separated list of
// market:SYMBOL:direction:interval entries, e.g. "spot:BTCUSDT:long:4h".
func ParseWatchlist(spec string) ([]app.Request, error) {
	var out []app.Request
	for _, raw := range strings.Split(spec, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		parts := strings.Split(raw, ":")
		if len(parts) != 4 {
			return nil, fmt.Errorf("watch entry %q: want market:SYMBOL:direction:interval", raw)
		}
		market, err := domain.ParseMarketType(parts[0])
		if err != nil {
			return nil, fmt.Errorf("watch entry %q: %w", raw, err)
		}
		dir, err := domain.ParseDirection(parts[2])
		if err != nil {
			return nil, fmt.Errorf("watch entry %q: %w", raw, err)
		}
		req := app.Request{
			Market:    market,
			Symbol:    strings.ToUpper(strings.TrimSpace(parts[1])),
			Direction: dir,
			Interval:  strings.TrimSpace(parts[3]),
		}
		if err := req.Validate(); err != nil {
			return nil, fmt.Errorf("watch entry %q: %w", raw, err)
		}
		out = append(out, req)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("watchlist is empty")
	}
	return out, nil
}

// Scheduler manages the watchlist cron task.
type Scheduler struct {
	cron      *cron.Cron
	analyzer  app.Analyzer
	logger    ports.Logger
	watchlist []app.Request
	timeout   time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.Mutex // serializes rounds
}

// New creates a Scheduler. timeout bounds each analysis; zero means one minute.
func New(analyzer app.Analyzer, logger ports.Logger, watchlist []app.Request, timeout time.Duration) (*Scheduler, error) {
	if analyzer == nil || logger == nil {
		return nil, fmt.Errorf("analyzer and logger are required for the scheduler")
	}
	if len(watchlist) == 0 {
		return nil, fmt.Errorf("watchlist is empty")
	}
	if timeout <= 0 {
		timeout = time.Minute
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:      cron.New(cron.WithSeconds()),
		analyzer:  analyzer,
		logger:    logger,
		watchlist: watchlist,
		timeout:   timeout,
		ctx:       ctx,
		cancel:    cancel,
	}, nil
}

// Register adds the watchlist round under spec, a seconds-enabled cron
// expression.
func (s *Scheduler) Register(spec string) error {
	if spec == "" {
		spec = DefaultSpec
	}
	if _, err := s.cron.AddFunc(spec, s.RunOnce); err != nil {
		return fmt.Errorf("register watch task %q: %w", spec, err)
	}
	s.logger.Info(s.ctx, "Watch task registered", map[string]interface{}{"spec": spec, "pairs": len(s.watchlist)})
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info(s.ctx, "Scheduler started")
}

// Stop cancels running analyses and waits for the current round to finish.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
	s.logger.Info(context.Background(), "Scheduler stopped")
}

// RunOnce analyzes every watchlist entry in order. A round that starts while
// the previous one is still running is skipped.
func (s *Scheduler) RunOnce() {
	if !s.mu.TryLock() {
		s.logger.Warn(s.ctx, "Previous watch round still running, skipping")
		return
	}
	defer s.mu.Unlock()

	for _, req := range s.watchlist {
		if s.ctx.Err() != nil {
			return
		}
		s.analyze(req)
	}
}

func (s *Scheduler) analyze(req app.Request) {
	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	res, err := s.analyzer.Analyze(ctx, req)
	if err != nil {
		s.logger.Warn(ctx, "Watch analysis failed", map[string]interface{}{
			"symbol": req.Symbol, "market": req.Market, "error": err.Error(),
		})
		return
	}
	final := res.Analysis.Final
	s.logger.Info(ctx, "Watch signal", map[string]interface{}{
		"symbol":    req.Symbol,
		"market":    req.Market,
		"direction": req.Direction,
		"interval":  req.Interval,
		"verdict":   string(final.Verdict),
		"score":     final.Score,
		"tier":      final.Confidence,
		"advice":    res.Advice.Headline,
	})
}
