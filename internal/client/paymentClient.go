package client

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"
	"vex-storefront/internal/model"

	"github.com/shopspring/decimal"
)

// ChargeResult is the gateway's verdict. A declined charge is a normal
// outcome, not an error.
type ChargeResult struct {
	Approved      bool
	TransactionID string
	Refusal       string
}

type PaymentGateway interface {
	Charge(ctx context.Context, method model.PaymentMethod, amount decimal.Decimal) (*ChargeResult, error)
}

// successRates per payment method, checked against one uniform draw.
var successRates = map[model.PaymentMethod]float64{
	model.MethodIDeal:      0.90,
	model.MethodCreditcard: 0.95,
	model.MethodPayPal:     0.85,
}

// simulatedGateway stands in for a real payment provider: it waits a
// randomized 2-4 s and approves or declines per the method's success rate.
// Once a charge starts it always resolves; there is no cancellation.
type simulatedGateway struct {
	mu    sync.Mutex
	rand  *rand.Rand
	sleep func(time.Duration)
}

func NewSimulatedGateway() PaymentGateway {
	return &simulatedGateway{
		rand:  rand.New(rand.NewSource(time.Now().UnixNano())),
		sleep: time.Sleep,
	}
}

func (g *simulatedGateway) Charge(_ context.Context, method model.PaymentMethod, amount decimal.Decimal) (*ChargeResult, error) {
	rate, ok := successRates[method]
	if !ok {
		return &ChargeResult{
			Approved: false,
			Refusal:  fmt.Sprintf("unsupported payment method %q", method),
		}, nil
	}

	g.mu.Lock()
	delay := 2*time.Second + time.Duration(g.rand.Float64()*2000)*time.Millisecond
	draw := g.rand.Float64()
	g.mu.Unlock()

	g.sleep(delay)

	if draw >= rate {
		return &ChargeResult{
			Approved: false,
			Refusal:  "payment declined",
		}, nil
	}

	return &ChargeResult{
		Approved:      true,
		TransactionID: fmt.Sprintf("TXN-%d", time.Now().UnixNano()),
	}, nil
}
