package model

import (
	"strings"

	"crypto_tracker/internal/domain"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DisplayTag selects the locale used for grouping separators.
var DisplayTag = language.English

// DisplayableNumber pairs a raw value with its rendered form.
type DisplayableNumber struct {
	Value     float64 `json:"value"`
	Formatted string  `json:"formatted"`
}

// CoinUi is the presentation projection of domain.Coin.
type CoinUi struct {
	ID                string            `json:"id"`
	Rank              int               `json:"rank"`
	Name              string            `json:"name"`
	Symbol            string            `json:"symbol"`
	IconKey           string            `json:"icon_key"`
	MarketCapUsd      DisplayableNumber `json:"market_cap_usd"`
	PriceUsd          DisplayableNumber `json:"price_usd"`
	ChangePercent24Hr DisplayableNumber `json:"change_percent_24h"`
	CoinPriceHistory  []DataPoint       `json:"coin_price_history,omitempty"`
}

// ToCoinUi maps a domain coin for display.
func ToCoinUi(c domain.Coin) CoinUi {
	return CoinUi{
		ID:                c.ID,
		Rank:              c.Rank,
		Name:              c.Name,
		Symbol:            c.Symbol,
		IconKey:           strings.ToLower(c.Symbol),
		MarketCapUsd:      ToDisplayableNumber(c.MarketCapUsd),
		PriceUsd:          ToDisplayableNumber(c.PriceUsd),
		ChangePercent24Hr: ToDisplayableNumber(c.ChangePercent24Hr),
	}
}

// ToCoinUis maps a list, keeping order. The result is never nil.
func ToCoinUis(coins []domain.Coin) []CoinUi {
	out := make([]CoinUi, len(coins))
	for i, c := range coins {
		out[i] = ToCoinUi(c)
	}
	return out
}

// ToDisplayableNumber formats d with grouping and exactly two fraction digits.
func ToDisplayableNumber(d decimal.Decimal) DisplayableNumber {
	f, _ := d.Float64()
	p := message.NewPrinter(DisplayTag)
	return DisplayableNumber{
		Value:     f,
		Formatted: p.Sprintf("%.2f", f),
	}
}

// WithHistory returns a copy of c carrying points.
func (c CoinUi) WithHistory(points []DataPoint) CoinUi {
	c.CoinPriceHistory = points
	return c
}
