package ibgw

import (
	"context"
	"time"

	"github.com/aristath/bulwark/internal/domain"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const (
	reconnectBaseDelay = time.Second
	reconnectMaxDelay  = time.Minute
)

// QuoteHandler receives each streamed quote. Handlers must not block;
// slow consumers stall the read loop.
type QuoteHandler func(domain.Quote)

// QuoteStream maintains a WebSocket subscription to the gateway's quote
// feed, reconnecting with exponential backoff after any drop.
type QuoteStream struct {
	url     string
	symbols []string
	handler QuoteHandler
	log     zerolog.Logger
}

// NewQuoteStream creates a new quote stream client
func NewQuoteStream(url string, symbols []string, handler QuoteHandler, log zerolog.Logger) *QuoteStream {
	return &QuoteStream{
		url:     url,
		symbols: symbols,
		handler: handler,
		log:     log.With().Str("client", "ibgw_stream").Logger(),
	}
}

// Run blocks until ctx is cancelled, reconnecting on every failure
func (s *QuoteStream) Run(ctx context.Context) {
	delay := reconnectBaseDelay

	for {
		if err := s.connectAndRead(ctx); err != nil {
			if ctx.Err() != nil {
				s.log.Info().Msg("Quote stream stopped")
				return
			}

			s.log.Warn().
				Err(err).
				Dur("retry_in", delay).
				Msg("Quote stream dropped, reconnecting")

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return
			}

			delay *= 2
			if delay > reconnectMaxDelay {
				delay = reconnectMaxDelay
			}
			continue
		}

		delay = reconnectBaseDelay
	}
}

type subscribeMessage struct {
	Action  string   `json:"action"`
	Symbols []string `json:"symbols"`
}

type quoteMessage struct {
	Symbol    string `json:"symbol"`
	Last      string `json:"last"`
	Bid       string `json:"bid"`
	Ask       string `json:"ask"`
	Volume    string `json:"volume"`
	Timestamp string `json:"timestamp"`
}

func (s *QuoteStream) connectAndRead(ctx context.Context) error {
	conn, _, err := websocket.Dial(ctx, s.url, nil)
	if err != nil {
		return err
	}
	defer conn.Close(websocket.StatusNormalClosure, "shutting down")

	if len(s.symbols) > 0 {
		sub := subscribeMessage{Action: "subscribe", Symbols: s.symbols}
		if err := wsjson.Write(ctx, conn, sub); err != nil {
			return err
		}
	}

	s.log.Info().Int("symbols", len(s.symbols)).Msg("Quote stream connected")

	for {
		var msg quoteMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			return err
		}

		if msg.Symbol == "" {
			continue // heartbeat or unknown frame
		}

		s.handler(s.toQuote(msg))
	}
}

func (s *QuoteStream) toQuote(msg quoteMessage) domain.Quote {
	quote := domain.Quote{
		Symbol:    msg.Symbol,
		Last:      parseStreamDecimal(msg.Last),
		Bid:       parseStreamDecimal(msg.Bid),
		Ask:       parseStreamDecimal(msg.Ask),
		Volume:    parseStreamDecimal(msg.Volume),
		Timestamp: time.Now().UTC(),
	}
	if t, err := time.Parse(time.RFC3339, msg.Timestamp); err == nil {
		quote.Timestamp = t
	}
	return quote
}

func parseStreamDecimal(value string) float64 {
	if value == "" {
		return 0
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0
	}
	return d.InexactFloat64()
}
