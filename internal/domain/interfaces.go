package domain

import (
	"context"
	"time"
)

// BrokerClient defines broker-agnostic portfolio and market-data operations.
// This interface abstracts away broker-specific implementations so the engine
// can be exercised against the IB gateway client, or mocks in tests.
type BrokerClient interface {
	// Position feed
	ListStockPositions(ctx context.Context, account string) ([]Position, error)
	ListOptionPositions(ctx context.Context, account string) ([]OptionPosition, error)
	GetEquity(ctx context.Context, account string) (float64, error)

	// Trade history
	GetFills(ctx context.Context, account string, from, to time.Time) ([]Fill, error)

	// Market data
	GetQuote(ctx context.Context, symbol string) (*Quote, error)

	// Connection & health
	IsConnected() bool
	HealthCheck(ctx context.Context) error
}

// TechnicalSignalProvider produces per-symbol technical signals
type TechnicalSignalProvider interface {
	GetSignals(ctx context.Context, symbol string) (*TechnicalSignals, error)
}

// FundamentalSignalProvider produces per-symbol fundamental signals
type FundamentalSignalProvider interface {
	GetSignals(ctx context.Context, symbol string) (*FundamentalSignals, error)
}

// Cache is an injected, TTL-bounded key/value store. It is an optimization,
// not a correctness mechanism: concurrent duplicate recomputation of the same
// key is tolerated, so implementations need no locking beyond map safety.
type Cache interface {
	// Get unmarshals the cached value for key into dest.
	// Returns false when the key is absent or expired.
	Get(key string, dest interface{}) (bool, error)

	// Set stores value under key for the given TTL
	Set(key string, value interface{}, ttl time.Duration) error

	// Delete removes a key
	Delete(key string)

	// Expire drops all expired entries
	Expire()
}
