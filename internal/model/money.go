package model

import "github.com/shopspring/decimal"

// Sum adds monetary amounts without binary floating point drift.
func Sum(values ...float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	return total.InexactFloat64()
}

// SameCents reports whether a and b are equal once rounded to the cent.
func SameCents(a, b float64) bool {
	return decimal.NewFromFloat(a).Round(2).Equal(decimal.NewFromFloat(b).Round(2))
}
