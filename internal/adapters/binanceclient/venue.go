package binanceclient

import (
	"context"
	"fmt"

	"github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/futures"
)

// venue hides the differences between the spot and USD-M futures REST clients.
type venue interface {
	ping(ctx context.Context) error
	price(ctx context.Context, symbol string) (string, error)
	klines(ctx context.Context, q klineQuery) ([]rawKline, error)
	depth(ctx context.Context, symbol string, limit int) (bids, asks []rawLevel, err error)
	volume24h(ctx context.Context, symbol string) (string, error)
	maxKlines() int
}

type klineQuery struct {
	symbol   string
	interval string
	limit    int
	start    int64 // unix millis, 0 when unset
	end      int64
}

type rawKline struct {
	openTime, closeTime            int64
	open, high, low, close, volume string
}

type rawLevel struct {
	price, quantity string
}

type spotVenue struct {
	client *binance.Client
}

func (v *spotVenue) ping(ctx context.Context) error {
	return v.client.NewPingService().Do(ctx)
}

func (v *spotVenue) price(ctx context.Context, symbol string) (string, error) {
	prices, err := v.client.NewListPricesService().Symbol(symbol).Do(ctx)
	if err != nil {
		return "", err
	}
	for _, p := range prices {
		if p.Symbol == symbol {
			return p.Price, nil
		}
	}
	return "", fmt.Errorf("no price data returned for symbol %s", symbol)
}

func (v *spotVenue) klines(ctx context.Context, q klineQuery) ([]rawKline, error) {
	svc := v.client.NewKlinesService().Symbol(q.symbol).Interval(q.interval).Limit(q.limit)
	if q.start > 0 {
		svc = svc.StartTime(q.start)
	}
	if q.end > 0 {
		svc = svc.EndTime(q.end)
	}
	res, err := svc.Do(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]rawKline, 0, len(res))
	for _, k := range res {
		out = append(out, rawKline{
			openTime: k.OpenTime, closeTime: k.CloseTime,
			open: k.Open, high: k.High, low: k.Low, close: k.Close, volume: k.Volume,
		})
	}
	return out, nil
}

func (v *spotVenue) depth(ctx context.Context, symbol string, limit int) ([]rawLevel, []rawLevel, error) {
	res, err := v.client.NewDepthService().Symbol(symbol).Limit(limit).Do(ctx)
	if err != nil {
		return nil, nil, err
	}
	bids := make([]rawLevel, 0, len(res.Bids))
	for _, b := range res.Bids {
		bids = append(bids, rawLevel{price: b.Price, quantity: b.Quantity})
	}
	asks := make([]rawLevel, 0, len(res.Asks))
	for _, a := range res.Asks {
		asks = append(asks, rawLevel{price: a.Price, quantity: a.Quantity})
	}
	return bids, asks, nil
}

func (v *spotVenue) volume24h(ctx context.Context, symbol string) (string, error) {
	stats, err := v.client.NewListPriceChangeStatsService().Symbol(symbol).Do(ctx)
	if err != nil {
		return "", err
	}
	if len(stats) == 0 {
		return "", fmt.Errorf("no ticker data returned for symbol %s", symbol)
	}
	return stats[0].Volume, nil
}

func (v *spotVenue) maxKlines() int { return 1000 }

type futuresVenue struct {
	client *futures.Client
}

func (v *futuresVenue) ping(ctx context.Context) error {
	return v.client.NewPingService().Do(ctx)
}

func (v *futuresVenue) price(ctx context.Context, symbol string) (string, error) {
	prices, err := v.client.NewListPricesService().Symbol(symbol).Do(ctx)
	if err != nil {
		return "", err
	}
	for _, p := range prices {
		if p.Symbol == symbol {
			return p.Price, nil
		}
	}
	return "", fmt.Errorf("no price data returned for symbol %s", symbol)
}

func (v *futuresVenue) klines(ctx context.Context, q klineQuery) ([]rawKline, error) {
	svc := v.client.NewKlinesService().Symbol(q.symbol).Interval(q.interval).Limit(q.limit)
	if q.start > 0 {
		svc = svc.StartTime(q.start)
	}
	if q.end > 0 {
		svc = svc.EndTime(q.end)
	}
	res, err := svc.Do(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]rawKline, 0, len(res))
	for _, k := range res {
		out = append(out, rawKline{
			openTime: k.OpenTime, closeTime: k.CloseTime,
			open: k.Open, high: k.High, low: k.Low, close: k.Close, volume: k.Volume,
		})
	}
	return out, nil
}

func (v *futuresVenue) depth(ctx context.Context, symbol string, limit int) ([]rawLevel, []rawLevel, error) {
	res, err := v.client.NewDepthService().Symbol(symbol).Limit(limit).Do(ctx)
	if err != nil {
		return nil, nil, err
	}
	bids := make([]rawLevel, 0, len(res.Bids))
	for _, b := range res.Bids {
		bids = append(bids, rawLevel{price: b.Price, quantity: b.Quantity})
	}
	asks := make([]rawLevel, 0, len(res.Asks))
	for _, a := range res.Asks {
		asks = append(asks, rawLevel{price: a.Price, quantity: a.Quantity})
	}
	return bids, asks, nil
}

func (v *futuresVenue) volume24h(ctx context.Context, symbol string) (string, error) {
	stats, err := v.client.NewListPriceChangeStatsService().Symbol(symbol).Do(ctx)
	if err != nil {
		return "", err
	}
	if len(stats) == 0 {
		return "", fmt.Errorf("no ticker data returned for symbol %s", symbol)
	}
	return stats[0].Volume, nil
}

func (v *futuresVenue) maxKlines() int { return 1500 }
