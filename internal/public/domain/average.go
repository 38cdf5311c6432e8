package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Summary is the aggregate rendered above the review list.
type Summary struct {
	Count       int
	Average     float64
	Label       string
	FillPercent float64
}

// ComputeAverage returns the mean of every review's Total, or 0 when empty.
func ComputeAverage(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0.0
	for _, review := range reviews {
		sum += review.Total
	}
	return sum / float64(len(reviews))
}

// FormatAverage renders the average with one decimal and drops a trailing ".0".
func FormatAverage(average float64) string {
	label := decimal.NewFromFloat(average).Round(1).StringFixed(1)
	return strings.TrimSuffix(label, ".0")
}

// FillPercent maps the average onto the width of a five-star indicator.
func FillPercent(average float64) float64 {
	return average / MaxRating * 100
}

// Summarize computes every aggregate the page renders.
func Summarize(reviews []Review) Summary {
	average := ComputeAverage(reviews)
	return Summary{
		Count:       len(reviews),
		Average:     average,
		Label:       FormatAverage(average),
		FillPercent: FillPercent(average),
	}
}
