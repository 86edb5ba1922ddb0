package binanceclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/adshao/go-binance/v2/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devenn05/Crypto-signal-check/internal/domain"
	"github.com/devenn05/Crypto-signal-check/internal/ports"
)

// mockLogger implements ports.Logger for testing
type mockLogger struct {
	errorMsgs []string
}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
	m.errorMsgs = append(m.errorMsgs, msg)
}

// newTestServer serves canned bodies keyed by request path.
func newTestServer(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"code":-1121,"msg":"Invalid symbol."}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, spotURL, futuresURL string) (*Client, *mockLogger) {
	t.Helper()
	log := &mockLogger{}
	c, err := New(Config{Logger: log, SpotBaseURL: spotURL, FuturesBaseURL: futuresURL, Timeout: 5 * time.Second})
	require.NoError(t, err)
	return c, log
}

func TestNewRequiresLogger(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestGetKlinesSpot(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"/api/v3/klines": `[
			[1704067200000,"100.0","110.0","95.0","105.0","12.5",1704070799999,"0",10,"0","0","0"],
			[1704070800000,"105.0","112.0","101.0","111.0","7.25",1704074399999,"0",8,"0","0","0"]
		]`,
	})
	c, _ := newTestClient(t, srv.URL, srv.URL)

	klines, err := c.GetKlines(context.Background(), domain.Spot, "btcusdt", "1h", 2)
	require.NoError(t, err)
	require.Len(t, klines, 2)

	assert.Equal(t, "BTCUSDT", klines[0].Symbol)
	assert.Equal(t, "1h", klines[0].Interval)
	assert.Equal(t, time.UnixMilli(1704067200000), klines[0].OpenTime)
	assert.Equal(t, 105.0, klines[0].Close)
	assert.Equal(t, 12.5, klines[0].Volume)
	assert.Equal(t, 111.0, klines[1].Close)
}

func TestGetOrderBookFutures(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"/fapi/v1/depth": `{"lastUpdateId":1,"E":1,"T":1,"bids":[["100.5","10"],["100.0","2"]],"asks":[["101.0","6.5"]]}`,
	})
	c, _ := newTestClient(t, "", srv.URL)

	book, err := c.GetOrderBook(context.Background(), domain.Futures, "ETHUSDT", 500)
	require.NoError(t, err)
	assert.Equal(t, "ETHUSDT", book.Symbol)
	assert.Equal(t, []domain.BookLevel{{Price: 100.5, Quantity: 10}, {Price: 100, Quantity: 2}}, book.Bids)
	assert.Equal(t, []domain.BookLevel{{Price: 101, Quantity: 6.5}}, book.Asks)
}

func TestTickerPriceAndVolume(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"/api/v3/ticker/price": `{"symbol":"BTCUSDT","price":"64213.50"}`,
		"/api/v3/ticker/24hr":  `{"symbol":"BTCUSDT","lastPrice":"64213.50","volume":"1234.5"}`,
	})
	c, _ := newTestClient(t, srv.URL, "")

	price, err := c.GetTickerPrice(context.Background(), domain.Spot, "BTCUSDT")
	require.NoError(t, err)
	assert.Equal(t, 64213.5, price)

	volume, err := c.Get24hVolume(context.Background(), domain.Spot, "BTCUSDT")
	require.NoError(t, err)
	assert.Equal(t, 1234.5, volume)
}

func TestInvalidSymbol(t *testing.T) {
	srv := newTestServer(t, map[string]string{})
	c, log := newTestClient(t, srv.URL, srv.URL)

	_, err := c.GetTickerPrice(context.Background(), domain.Spot, "NOPEUSDT")
	require.Error(t, err)
	assert.ErrorIs(t, err, ports.ErrInvalidSymbol)
	assert.ErrorIs(t, err, ports.ErrDataUnavailable)
	assert.NotEmpty(t, log.errorMsgs)

	exists, err := c.SymbolExists(context.Background(), domain.Futures, "NOPEUSDT")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestHandleError(t *testing.T) {
	c, _ := newTestClient(t, "", "")
	ctx := context.Background()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"rate limited", &common.APIError{Code: -1003, Message: "too many"}, ports.ErrRateLimited},
		{"bad signature", &common.APIError{Code: -1022, Message: "sig"}, ports.ErrAuthenticationFailed},
		{"invalid symbol", &common.APIError{Code: -1121, Message: "Invalid symbol."}, ports.ErrInvalidSymbol},
		{"bad interval", &common.APIError{Code: -1120, Message: "interval"}, ports.ErrInvalidRequest},
		{"bad key", &common.APIError{Code: -2015, Message: "key"}, ports.ErrInvalidAPIKeys},
		{"unmapped code", &common.APIError{Code: -9999, Message: "?"}, ports.ErrExchangeUnavailable},
		{"deadline", context.DeadlineExceeded, ports.ErrTimeout},
		{"canceled", context.Canceled, ports.ErrContextCanceled},
		{"refused", errors.New("dial tcp: connection refused"), ports.ErrConnectionFailed},
		{"other", errors.New("boom"), ports.ErrUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.handleError(ctx, tt.err, "Op")
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, tt.err)
		})
	}
	assert.NoError(t, c.handleError(ctx, nil, "Op"))
}

func TestTranslateKlineRejectsBadNumbers(t *testing.T) {
	_, err := translateKline(rawKline{open: "x", high: "1", low: "1", close: "1", volume: "1"}, "BTCUSDT", "1h")
	assert.Error(t, err)

	_, err = translateLevels([]rawLevel{{price: "1", quantity: "n/a"}})
	assert.Error(t, err)
}
