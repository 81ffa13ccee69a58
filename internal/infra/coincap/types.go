package coincap

import (
	"time"

	"crypto_tracker/internal/domain"

	"github.com/shopspring/decimal"
)

// CoinCap sends every numeric field as a JSON string, or null when unknown.
// decimal.Decimal accepts both forms.

type coinDto struct {
	ID                string          `json:"id"`
	Rank              int             `json:"rank,string"`
	Name              string          `json:"name"`
	Symbol            string          `json:"symbol"`
	MarketCapUsd      decimal.Decimal `json:"marketCapUsd"`
	PriceUsd          decimal.Decimal `json:"priceUsd"`
	ChangePercent24Hr decimal.Decimal `json:"changePercent24Hr"`
}

type coinsResponseDto struct {
	Data []coinDto `json:"data"`
}

type coinPriceDto struct {
	PriceUsd decimal.Decimal `json:"priceUsd"`
	Time     int64           `json:"time"` // epoch millis
}

type coinHistoryDto struct {
	Data []coinPriceDto `json:"data"`
}

func (d coinDto) toCoin() domain.Coin {
	return domain.Coin{
		ID:                d.ID,
		Rank:              d.Rank,
		Name:              d.Name,
		Symbol:            d.Symbol,
		MarketCapUsd:      d.MarketCapUsd,
		PriceUsd:          d.PriceUsd,
		ChangePercent24Hr: d.ChangePercent24Hr,
	}
}

func (d coinPriceDto) toCoinPrice() domain.CoinPrice {
	return domain.CoinPrice{
		PriceUsd: d.PriceUsd,
		DateTime: time.UnixMilli(d.Time),
	}
}
