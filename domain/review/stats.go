package review

import "math"

// RatingStats is the derived rating state of one product.
type RatingStats struct {
	Quantity int
	Average  float64
}

// Calculate recounts ratings from scratch. No ratings yields zero for both fields.
func Calculate(ratings []int) RatingStats {
	if len(ratings) == 0 {
		return RatingStats{}
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return RatingStats{
		Quantity: len(ratings),
		Average:  RoundAverage(float64(sum) / float64(len(ratings))),
	}
}

// RoundAverage keeps two decimals so a store-side AVG and an in-process mean agree.
func RoundAverage(avg float64) float64 {
	return math.Round(avg*100) / 100
}
