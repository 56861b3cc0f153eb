package services

import "math/rand/v2"

// randomSwingService draws a uniform percentage in [-2, +2). It stands in
// for a real equity price feed so untracked tickers still get a daily
// valuation entry.
type randomSwingService struct{}

func NewSwingService() SwingService {
	return randomSwingService{}
}

func (randomSwingService) DailySwingPercent() float64 {
	return rand.Float64()*4 - 2
}
