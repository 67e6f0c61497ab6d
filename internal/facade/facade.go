// Package facade is the single entry point external callers (HTTP handlers,
// tests, anything else) use to talk to the matching core. It validates
// requests, resolves or spawns the right market actor, awaits its reply,
// and derives the settlement payload for any trades produced: validate,
// send, await reply, derive fills.
package facade

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"prophex/internal/actor"
	"prophex/internal/book"
	"prophex/internal/common"
	"prophex/internal/market"
	"prophex/internal/metrics"
	"prophex/internal/money"
	"prophex/internal/registry"
	"prophex/internal/settlement"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

// DefaultReplyTimeout bounds how long a request waits for its market actor
// to reply before giving up. No retry and no request deduplication happen
// on timeout — a timed-out caller simply does not know
// whether the command was applied.
const DefaultReplyTimeout = 2 * time.Second

// Facade is the request-handling boundary in front of the registry.
type Facade struct {
	registry     *registry.Registry
	settlement   settlement.Settlement
	resolve      settlement.AccountResolver
	replyTimeout time.Duration
}

// New constructs a Facade. If resolver is nil, every fill resolves to a
// zero-value AccountRefs (no real public keys) — enough to exercise the
// payload shape without a live account-provisioning service wired in.
func New(reg *registry.Registry, settle settlement.Settlement, resolver settlement.AccountResolver, replyTimeout time.Duration) *Facade {
	if settle == nil {
		settle = settlement.LoggingSettlement{}
	}
	if resolver == nil {
		resolver = func(common.MarketId, common.Outcome, common.AccountRef, common.AccountRef) settlement.AccountRefs {
			return settlement.AccountRefs{}
		}
	}
	if replyTimeout <= 0 {
		replyTimeout = DefaultReplyTimeout
	}
	return &Facade{registry: reg, settlement: settle, resolve: resolver, replyTimeout: replyTimeout}
}

// PlaceRequest is the validated input to Place.
type PlaceRequest struct {
	Market  common.MarketId
	Outcome common.Outcome
	Side    common.Side
	Owner   common.AccountRef
	Price   money.Decimal
	Qty     money.Decimal
}

// PlaceResponse is what a successful Place returns to the caller.
type PlaceResponse struct {
	OrderID   common.OrderId
	Trades    []book.Trade
	Remaining money.Decimal
}

// validate enforces the request-level invariants: non-empty owner, a price
// strictly between 0 and 1, and a strictly positive quantity.
func (r PlaceRequest) validate() error {
	if r.Owner == "" {
		return common.NewError(common.KindValidation, "owner must not be empty", nil)
	}
	if !r.Price.IsPositive() || !r.Price.LessThan(money.One) {
		return common.NewError(common.KindValidation, "price must be strictly between 0 and 1", nil)
	}
	if !r.Qty.IsPositive() {
		return common.NewError(common.KindValidation, "quantity must be positive", nil)
	}
	return nil
}

// Place admits an order into the given market, blocking until its actor has
// applied it, then derives (and submits) a settlement payload for any
// trades produced. If settlement fails, the response is returned together
// with a KindSettlement error; the trades stay applied in the book.
func (f *Facade) Place(ctx context.Context, req PlaceRequest) (PlaceResponse, error) {
	if err := req.validate(); err != nil {
		return PlaceResponse{}, err
	}

	handle := f.registry.Resolve(req.Market)
	reply := make(chan actor.PlaceResult, 1)
	cmd := actor.PlaceCmd{
		Outcome: req.Outcome,
		Side:    req.Side,
		Entry: book.OrderEntry{
			ID:     common.NewOrderId(),
			Owner:  req.Owner,
			Market: req.Market,
			Side:   req.Side,
			Price:  req.Price,
			Qty:    req.Qty,
		},
		Reply: reply,
	}

	marketLabel := strconv.FormatUint(uint64(req.Market), 10)
	timer := prometheus.NewTimer(metrics.MatchLatency.WithLabelValues(marketLabel))
	result, err := sendAndAwait(ctx, handle, cmd, reply, f.replyTimeout)
	timer.ObserveDuration()
	if err != nil {
		return PlaceResponse{}, err
	}

	metrics.OrdersPlaced.WithLabelValues(marketLabel).Inc()
	metrics.TradesExecuted.WithLabelValues(marketLabel).Add(float64(len(result.Trades)))

	resp := PlaceResponse{OrderID: result.ID, Trades: result.Trades, Remaining: result.Remaining}
	if err := f.submitTrades(ctx, req.Market, req.Outcome, result.Trades); err != nil {
		return resp, common.NewError(common.KindSettlement, "settlement failed; the match stands", err)
	}
	return resp, nil
}

// CancelRequest is the validated input to Cancel.
type CancelRequest struct {
	Market  common.MarketId
	Outcome common.Outcome
	Side    common.Side
	Price   money.Decimal
	OrderID common.OrderId
}

// Cancel removes a resting order, returning common.ErrNoSuchPrice or
// common.ErrOrderNotFound (wrapped as a KindNotFound Error) if it is gone.
func (f *Facade) Cancel(ctx context.Context, req CancelRequest) error {
	handle, ok := f.registry.Get(req.Market)
	if !ok {
		return common.NewError(common.KindNotFound, "market not found", common.ErrMarketNotFound)
	}

	reply := make(chan actor.CancelResult, 1)
	cmd := actor.CancelCmd{
		Outcome: req.Outcome,
		Side:    req.Side,
		Price:   req.Price,
		OrderID: req.OrderID,
		Reply:   reply,
	}

	result, err := sendAndAwait(ctx, handle, cmd, reply, f.replyTimeout)
	if err != nil {
		return err
	}
	if !result.OK {
		cause := common.ErrOrderNotFound
		if result.Reason == "no-such-price" {
			cause = common.ErrNoSuchPrice
		}
		return common.NewError(common.KindNotFound, "order not cancelled: "+result.Reason, cause)
	}
	metrics.OrdersCancelled.WithLabelValues(strconv.FormatUint(uint64(req.Market), 10)).Inc()
	return nil
}

// Snapshot returns a depth snapshot of a market, or a KindNotFound error if
// the market has never been touched.
func (f *Facade) Snapshot(ctx context.Context, marketID common.MarketId) (market.Snapshot, error) {
	handle, ok := f.registry.Get(marketID)
	if !ok {
		return market.Snapshot{}, common.NewError(common.KindNotFound, "market not found", common.ErrMarketNotFound)
	}
	reply := make(chan market.Snapshot, 1)
	return sendAndAwait(ctx, handle, actor.SnapshotCmd{Reply: reply}, reply, f.replyTimeout)
}

// FindOpenOrders returns every resting order owned by owner in marketID, or
// a KindNotFound error if the market has never been touched.
func (f *Facade) FindOpenOrders(ctx context.Context, marketID common.MarketId, owner common.AccountRef) ([]market.OpenOrder, error) {
	handle, ok := f.registry.Get(marketID)
	if !ok {
		return nil, common.NewError(common.KindNotFound, "market not found", common.ErrMarketNotFound)
	}
	reply := make(chan []market.OpenOrder, 1)
	return sendAndAwait(ctx, handle, actor.FindOpenCmd{Owner: owner, Reply: reply}, reply, f.replyTimeout)
}

func (f *Facade) submitTrades(ctx context.Context, marketID common.MarketId, outcome common.Outcome, trades []book.Trade) error {
	if len(trades) == 0 {
		return nil
	}
	payload, err := settlement.DerivePayload(marketID, outcome, trades, f.resolve)
	if err != nil {
		log.Error().Err(err).Uint64("market", uint64(marketID)).Msg("settlement payload derivation failed")
		return err
	}
	if err := f.settlement.Submit(ctx, payload); err != nil {
		log.Error().Err(err).Uint64("market", uint64(marketID)).Msg("settlement submit failed")
		return err
	}
	return nil
}

// sendAndAwait sends cmd to the actor's inbox and waits for a reply on
// reply, respecting both ctx and the facade's reply timeout. It classifies
// a full inbox or a dead actor as KindActorGone.
func sendAndAwait[C any, R any](ctx context.Context, handle *registry.Handle, cmd C, reply chan R, timeout time.Duration) (R, error) {
	var zero R

	sendCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	select {
	case handle.Inbox <- cmd:
	case <-sendCtx.Done():
		return zero, common.NewError(common.KindActorGone, "market actor inbox full or unreachable", sendCtx.Err())
	}

	select {
	case r := <-reply:
		return r, nil
	case <-sendCtx.Done():
		return zero, common.NewError(common.KindActorGone, fmt.Sprintf("market actor did not reply within %s", timeout), sendCtx.Err())
	}
}
