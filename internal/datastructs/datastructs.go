package datastructs

import "strings"

// RateMapping maps a display label such as "🇪🇺 EUR Buy" to its rate.
// A new one is built for every detected change of the rates file.
type RateMapping map[string]float64

// CountBySide returns how many buy and sell rates the mapping holds.
func (m RateMapping) CountBySide() (buy, sell int) {
	for k := range m {
		switch {
		case strings.HasSuffix(k, " Buy"):
			buy++
		case strings.HasSuffix(k, " Sell"):
			sell++
		}
	}
	return buy, sell
}
