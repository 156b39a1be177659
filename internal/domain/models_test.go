package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPositionMarketValue(t *testing.T) {
	pos := Position{Symbol: "AAPL", Quantity: 100, LastPrice: 150.0}
	assert.Equal(t, 15000.0, pos.MarketValue())

	short := Position{Symbol: "TSLA", Quantity: -50, LastPrice: 200.0}
	assert.Equal(t, -10000.0, short.MarketValue())
}

func TestOptionPositionDaysToExpiry(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		expiry time.Time
		want   int
	}{
		{"one week out", now.Add(7 * 24 * time.Hour), 7},
		{"partial day rounds up", now.Add(36 * time.Hour), 2},
		{"expires today", now, 0},
		{"already expired", now.Add(-24 * time.Hour), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opt := OptionPosition{Contract: OptionContract{Expiry: tt.expiry}}
			assert.Equal(t, tt.want, opt.DaysToExpiry(now))
		})
	}
}

func TestFillNotional(t *testing.T) {
	fill := Fill{Side: SideSell, Quantity: -10, Price: 25.0}
	assert.Equal(t, 250.0, fill.Notional())
}
