package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Coin is the market snapshot of a single asset as reported by the API.
type Coin struct {
	ID                string          `json:"id"`
	Rank              int             `json:"rank"`
	Name              string          `json:"name"`
	Symbol            string          `json:"symbol"`
	MarketCapUsd      decimal.Decimal `json:"market_cap_usd"`
	PriceUsd          decimal.Decimal `json:"price_usd"`
	ChangePercent24Hr decimal.Decimal `json:"change_percent_24h"`
}

// CoinPrice is one historical price sample.
type CoinPrice struct {
	PriceUsd decimal.Decimal `json:"price_usd"`
	DateTime time.Time       `json:"date_time"`
}

// CoinDataSource fetches coin data from a remote source.
// Every returned error is a *NetworkError.
type CoinDataSource interface {
	GetCoins(ctx context.Context) ([]Coin, error)
	GetCoinHistory(ctx context.Context, coinID string, start, end time.Time) ([]CoinPrice, error)
}
