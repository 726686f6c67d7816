package feed

import (
	"math/rand"
	"time"

	"github.com/quantfeed/tickwire/internal/wire"
)

// mockEvents is the canned telemetry mix a Generator draws from.
var mockEvents = []wire.Event{
	wire.PriceUpdateEvent{Symbol: "BTC/USD", OldPrice: 67203.00, NewPrice: 67210.50},
	wire.PriceUpdateEvent{Symbol: "ETH/USD", OldPrice: 3212.45, NewPrice: 3217.10},
	wire.PriceUpdateEvent{Symbol: "SPY", OldPrice: 528.75, NewPrice: 529.00},
	wire.MatchEvent{Side: wire.SideBuy, Quantity: 100, Symbol: "AAPL", Price: 172.34},
	wire.MatchEvent{Side: wire.SideSell, Quantity: 5, Symbol: "BTC", Price: 67200.00},
	wire.MatchEvent{Side: wire.SideBuy, Quantity: 50, Symbol: "TSLA", Price: 187.90},
	wire.LogEvent{Level: "INFO", Message: "TCP server started on port 9001"},
	wire.LogEvent{Level: "DEBUG", Message: "Received order: ID#14352 (BUY 25 ETH @ $3,200)"},
	wire.LogEvent{Level: "INFO", Message: "Trade executed: Order#14352 matched with Order#14349"},
}

// Generator produces a pseudo-random stream of telemetry events. A non-zero
// seed makes the sequence reproducible.
type Generator struct {
	rng *rand.Rand
}

func NewGenerator(seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

func (g *Generator) Next() wire.Event {
	return mockEvents[g.rng.Intn(len(mockEvents))]
}
