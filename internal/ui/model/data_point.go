package model

import (
	"sort"
	"time"

	"crypto_tracker/internal/domain"
)

// XLabelLayout renders e.g. "5PM\n1/2": hour on the first line, month/day below.
const XLabelLayout = "3PM\n1/2"

// DataPoint is one chart point.
type DataPoint struct {
	X      float32 `json:"x"` // hour of day
	Y      float32 `json:"y"` // price in USD
	XLabel string  `json:"x_label"`
}

// ToDataPoints sorts history by time ascending and maps it to chart points in loc.
// The input slice is left untouched.
func ToDataPoints(history []domain.CoinPrice, loc *time.Location) []DataPoint {
	if loc == nil {
		loc = time.Local
	}

	sorted := make([]domain.CoinPrice, len(history))
	copy(sorted, history)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DateTime.Before(sorted[j].DateTime)
	})

	points := make([]DataPoint, len(sorted))
	for i, sample := range sorted {
		at := sample.DateTime.In(loc)
		price, _ := sample.PriceUsd.Float64()
		points[i] = DataPoint{
			X:      float32(at.Hour()),
			Y:      float32(price),
			XLabel: at.Format(XLabelLayout),
		}
	}
	return points
}
