package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devenn05/Crypto-signal-check/internal/app"
	"github.com/devenn05/Crypto-signal-check/internal/domain"
)

type mockLogger struct {
	mu    sync.Mutex
	infos []string
	warns []string
}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}

func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.infos = append(m.infos, msg)
}

func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.warns = append(m.warns, msg)
}

func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

type countingAnalyzer struct {
	mu      sync.Mutex
	calls   []string
	fail    map[string]bool
	entered chan struct{}
	block   chan struct{}
}

func (c *countingAnalyzer) Analyze(ctx context.Context, req app.Request) (*app.Result, error) {
	if c.block != nil {
		c.entered <- struct{}{}
		<-c.block
	}
	c.mu.Lock()
	c.calls = append(c.calls, req.Symbol)
	c.mu.Unlock()
	if c.fail[req.Symbol] {
		return nil, errors.New("exchange down")
	}
	return &app.Result{
		Request:  req,
		Analysis: &domain.Analysis{Final: domain.FinalVerdict{Verdict: domain.Yes, Score: "8/12"}},
	}, nil
}

func TestParseWatchlist(t *testing.T) {
	got, err := ParseWatchlist(" spot:btcusdt:long:4h , futures:ETHUSDT:SHORT:15m,")
	require.NoError(t, err)
	assert.Equal(t, []app.Request{
		{Market: domain.Spot, Symbol: "BTCUSDT", Direction: domain.Long, Interval: "4h"},
		{Market: domain.Futures, Symbol: "ETHUSDT", Direction: domain.Short, Interval: "15m"},
	}, got)

	for _, bad := range []string{
		"",
		"spot:BTCUSDT:long",
		"margin:BTCUSDT:long:4h",
		"spot:BTCUSDT:up:4h",
		"spot:BTCUSDT:long:7h",
		"spot::long:4h",
	} {
		_, err := ParseWatchlist(bad)
		assert.Error(t, err, "entry %q", bad)
	}
}

func TestNew(t *testing.T) {
	list := []app.Request{{Market: domain.Spot, Symbol: "BTCUSDT", Direction: domain.Long, Interval: "1h"}}

	_, err := New(nil, &mockLogger{}, list, 0)
	assert.Error(t, err)
	_, err = New(&countingAnalyzer{}, &mockLogger{}, nil, 0)
	assert.Error(t, err)

	s, err := New(&countingAnalyzer{}, &mockLogger{}, list, 0)
	require.NoError(t, err)
	assert.Equal(t, time.Minute, s.timeout)
}

func TestRegister(t *testing.T) {
	list, err := ParseWatchlist("spot:BTCUSDT:long:1h")
	require.NoError(t, err)
	s, err := New(&countingAnalyzer{}, &mockLogger{}, list, time.Second)
	require.NoError(t, err)

	assert.NoError(t, s.Register(""))
	assert.NoError(t, s.Register("*/30 * * * * *"))
	assert.Error(t, s.Register("not a cron"))
	assert.Len(t, s.cron.Entries(), 2)
}

func TestRunOnceAnalyzesEveryEntry(t *testing.T) {
	list, err := ParseWatchlist("spot:BTCUSDT:long:1h,spot:ETHUSDT:short:1h,futures:SOLUSDT:long:4h")
	require.NoError(t, err)
	analyzer := &countingAnalyzer{fail: map[string]bool{"ETHUSDT": true}}
	logger := &mockLogger{}
	s, err := New(analyzer, logger, list, time.Second)
	require.NoError(t, err)

	s.RunOnce()

	assert.Equal(t, []string{"BTCUSDT", "ETHUSDT", "SOLUSDT"}, analyzer.calls)
	assert.Equal(t, []string{"Watch signal", "Watch signal"}, logger.infos)
	assert.Equal(t, []string{"Watch analysis failed"}, logger.warns)
}

func TestRunOnceSkipsOverlappingRound(t *testing.T) {
	list, err := ParseWatchlist("spot:BTCUSDT:long:1h")
	require.NoError(t, err)
	analyzer := &countingAnalyzer{entered: make(chan struct{}), block: make(chan struct{})}
	logger := &mockLogger{}
	s, err := New(analyzer, logger, list, time.Second)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		s.RunOnce()
		close(done)
	}()

	<-analyzer.entered
	s.RunOnce()
	close(analyzer.block)
	<-done

	assert.Equal(t, []string{"BTCUSDT"}, analyzer.calls)
	assert.Contains(t, logger.warns, "Previous watch round still running, skipping")
}

func TestStopCancelsRounds(t *testing.T) {
	list, err := ParseWatchlist("spot:BTCUSDT:long:1h")
	require.NoError(t, err)
	analyzer := &countingAnalyzer{}
	s, err := New(analyzer, &mockLogger{}, list, time.Second)
	require.NoError(t, err)

	s.Start()
	s.Stop()
	s.RunOnce()

	assert.Empty(t, analyzer.calls)
}
