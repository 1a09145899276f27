package adapters

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"spice-market/internal/core/logger"
	"spice-market/internal/features/checkout/domain"
	"spice-market/internal/features/checkout/ports"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SimulatedGateway implements ports.PaymentGateway without any external call.
// It models gateway latency and a configurable decline rate, and honors
// context cancellation during the simulated round trip.
type SimulatedGateway struct {
	// latency is the artificial duration of a charge round trip.
	latency time.Duration
	// failureRate is the fraction of charges that are declined (0.0-1.0).
	failureRate float64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulatedGateway creates a new SimulatedGateway.
func NewSimulatedGateway(latency time.Duration, failureRate float64) *SimulatedGateway {
	return &SimulatedGateway{
		latency:     latency,
		failureRate: failureRate,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Charge waits out the simulated latency, then approves or declines.
func (g *SimulatedGateway) Charge(ctx context.Context, req ports.ChargeRequest) (*ports.ChargeResult, error) {
	if g.latency > 0 {
		timer := time.NewTimer(g.latency)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("charge aborted: %w", ctx.Err())
		case <-timer.C:
		}
	}

	g.mu.Lock()
	declined := g.rng.Float64() < g.failureRate
	g.mu.Unlock()

	if declined {
		logger.Get().Warn("Simulated gateway declined charge",
			zap.String("reference", req.Reference),
			zap.String("amount", req.Amount.StringFixed(2)),
		)
		return nil, fmt.Errorf("%w: declined by gateway", domain.ErrPaymentFailed)
	}

	return &ports.ChargeResult{
		PaymentID: "sim_" + uuid.NewString(),
	}, nil
}
