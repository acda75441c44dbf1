// Package exchange talks to the certificate exchange: deposit-address
// lookup for registration checks and trade history for the reporting
// surface.
package exchange

import (
	"context"
	"math/big"
	"time"
)

// Trade sides.
const (
	SideBid = "bid"
	SideAsk = "ask"
)

// Trade is one executed order belonging to an organization. Volume is a
// decimal watt-hour figure carried as a string because certificate
// volumes exceed int64 on large deals; Price is in cents per MWh.
type Trade struct {
	ID      string    `json:"id"`
	Created time.Time `json:"created"`
	Side    string    `json:"side"`
	Volume  string    `json:"volume"`
	Price   int64     `json:"price"`
	Product string    `json:"product,omitempty"`
}

// TotalCents returns the trade value in cents: volume (Wh) scaled to
// MWh times the per-MWh price. Returns false when the volume does not
// parse.
func (t Trade) TotalCents() (int64, bool) {
	vol, ok := new(big.Int).SetString(t.Volume, 10)
	if !ok {
		return 0, false
	}
	total := new(big.Int).Mul(vol, big.NewInt(t.Price))
	total.Div(total, big.NewInt(1_000_000)) // Wh -> MWh
	if !total.IsInt64() {
		return 0, false
	}
	return total.Int64(), true
}

// Service is the exchange surface the rest of the system depends on.
type Service interface {
	// DepositAddress returns the organization's exchange deposit
	// address, or empty when none has been created yet.
	DepositAddress(ctx context.Context, organizationID string) (string, error)
	// Trades lists the organization's executed trades, newest first.
	Trades(ctx context.Context, organizationID string) ([]Trade, error)
}

// Disabled is the Service used when no exchange endpoint is configured:
// no deposit addresses exist and histories are empty. Registration
// permission checks then fail on the deposit-address rule, which is the
// honest answer.
type Disabled struct{}

func (Disabled) DepositAddress(ctx context.Context, organizationID string) (string, error) {
	return "", nil
}

func (Disabled) Trades(ctx context.Context, organizationID string) ([]Trade, error) {
	return nil, nil
}
