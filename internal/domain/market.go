package domain

// BookLevel is one price level of an order book side.
type BookLevel struct {
	Price    float64
	Quantity float64
}

// OrderBook is a depth snapshot. Bids are best-first descending, asks ascending.
type OrderBook struct {
	Symbol string
	Bids   []BookLevel
	Asks   []BookLevel
}

// MarketSnapshot is everything an analysis reads, fetched once per request.
// Optional inputs carry their own fetch error so that only the evaluator
// depending on them is downgraded.
type MarketSnapshot struct {
	Symbol   string
	Market   MarketType
	Interval string
	Price    float64
	Klines   []*Kline

	Volume24h    float64
	Volume24hErr error

	OrderBook    *OrderBook
	OrderBookErr error

	FearGreed    int
	FearGreedErr error
}
