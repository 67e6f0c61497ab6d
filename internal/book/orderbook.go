// Package book implements the price-time priority limit order book: two
// price-indexed queues (bids, asks) per side-pair, following the same
// tidwall/btree-backed price-level layout, generalized
// generalized to the fixed-point Decimal type and the taker-price matching
// rule this exchange requires.
package book

import (
	"prophex/internal/common"
	"prophex/internal/money"

	"github.com/tidwall/btree"
)

type priceLevels = btree.BTreeG[*PriceLevel]

// OrderBook is one side-pair (bids, asks) for a single outcome. It has no
// lock of its own: callers (the market actor) must guarantee single-writer
// access.
type OrderBook struct {
	bids *priceLevels // comparator: descending price, so Min() yields the best (highest) bid
	asks *priceLevels // comparator: ascending price, so Min() yields the best (lowest) ask
}

// NewOrderBook constructs an empty book.
func NewOrderBook() *OrderBook {
	bids := btree.NewBTreeG(func(a, b *PriceLevel) bool {
		return a.Price.GreaterThan(b.Price)
	})
	asks := btree.NewBTreeG(func(a, b *PriceLevel) bool {
		return a.Price.LessThan(b.Price)
	})
	return &OrderBook{bids: bids, asks: asks}
}

// BestBid returns the highest resting bid price, if any.
func (ob *OrderBook) BestBid() (money.Decimal, bool) {
	lvl, ok := ob.bids.Min()
	if !ok {
		return money.Zero, false
	}
	return lvl.Price, true
}

// BestAsk returns the lowest resting ask price, if any.
func (ob *OrderBook) BestAsk() (money.Decimal, bool) {
	lvl, ok := ob.asks.Min()
	if !ok {
		return money.Zero, false
	}
	return lvl.Price, true
}

// Bids returns the resting bid levels, highest price first.
func (ob *OrderBook) Bids() []*PriceLevel { return collect(ob.bids) }

// Asks returns the resting ask levels, lowest price first (insertion/scan
// order of the ascending tree — callers that want descending order, as the
// market snapshot does, must reverse it themselves).
func (ob *OrderBook) Asks() []*PriceLevel { return collect(ob.asks) }

func collect(t *priceLevels) []*PriceLevel {
	out := make([]*PriceLevel, 0, t.Len())
	t.Scan(func(lvl *PriceLevel) bool {
		out = append(out, lvl)
		return true
	})
	return out
}

// Place admits a new order. If it crosses resting liquidity on the opposite
// side it is matched immediately (taker semantics: every emitted trade uses
// the taker's limit price, never the maker's. This is
// intentional and must not be "corrected"). Any quantity left over after
// matching rests on the book at order.Price.
//
// Returns the order's id (echoed back), the trades executed in the order
// they happened, and the quantity that ended up resting (0 if fully filled).
func (ob *OrderBook) Place(order OrderEntry, side common.Side) (common.OrderId, []Trade, money.Decimal) {
	if order.Qty.IsZero() {
		return order.ID, nil, money.Zero
	}

	var trades []Trade
	switch side {
	case common.Bid:
		trades = ob.matchBid(&order)
		if order.Qty.IsPositive() {
			rest(ob.bids, order, common.Bid)
		}
	case common.Ask:
		trades = ob.matchAsk(&order)
		if order.Qty.IsPositive() {
			rest(ob.asks, order, common.Ask)
		}
	}
	return order.ID, trades, order.Qty
}

// matchBid sweeps the ask side while it crosses the incoming bid's limit
// price, emitting one Trade per maker consumed.
func (ob *OrderBook) matchBid(taker *OrderEntry) []Trade {
	var trades []Trade
	for taker.Qty.IsPositive() {
		bestAskPrice, ok := ob.BestAsk()
		if !ok || bestAskPrice.GreaterThan(taker.Price) {
			break
		}
		level, ok := ob.asks.Get(&PriceLevel{Price: bestAskPrice})
		if !ok {
			break
		}
		for taker.Qty.IsPositive() && len(level.Orders) > 0 {
			maker := level.Orders[0]
			take := taker.Qty.Min(maker.Qty)
			maker.Qty = maker.Qty.Sub(take)
			taker.Qty = taker.Qty.Sub(take)

			trades = append(trades, Trade{
				Market:   maker.Market,
				Buyer:    taker.Owner,
				Seller:   maker.Owner,
				Price:    taker.Price,
				Quantity: take,
			})

			if maker.Qty.IsZero() {
				level.Orders = level.Orders[1:]
			}
		}
		if len(level.Orders) == 0 {
			ob.asks.Delete(&PriceLevel{Price: bestAskPrice})
		}
	}
	return trades
}

// matchAsk sweeps the bid side while it crosses the incoming ask's limit
// price; maker/taker roles are reversed relative to matchBid.
func (ob *OrderBook) matchAsk(taker *OrderEntry) []Trade {
	var trades []Trade
	for taker.Qty.IsPositive() {
		bestBidPrice, ok := ob.BestBid()
		if !ok || taker.Price.GreaterThan(bestBidPrice) {
			break
		}
		level, ok := ob.bids.Get(&PriceLevel{Price: bestBidPrice})
		if !ok {
			break
		}
		for taker.Qty.IsPositive() && len(level.Orders) > 0 {
			maker := level.Orders[0]
			take := taker.Qty.Min(maker.Qty)
			maker.Qty = maker.Qty.Sub(take)
			taker.Qty = taker.Qty.Sub(take)

			trades = append(trades, Trade{
				Market:   maker.Market,
				Buyer:    maker.Owner,
				Seller:   taker.Owner,
				Price:    taker.Price,
				Quantity: take,
			})

			if maker.Qty.IsZero() {
				level.Orders = level.Orders[1:]
			}
		}
		if len(level.Orders) == 0 {
			ob.bids.Delete(&PriceLevel{Price: bestBidPrice})
		}
	}
	return trades
}

// rest appends the (already-matched-down) residual order to the tail of its
// price level, creating the level if this is the first order at that price.
// side is stamped onto the resting entry so callers reading it back off the
// book (FindOpenOrders) see an entry whose Side field actually matches the
// tree it rests in, rather than whatever Side the original request carried.
func rest(levels *priceLevels, order OrderEntry, side common.Side) {
	entry := order.Clone()
	entry.Side = side
	if level, ok := levels.Get(&PriceLevel{Price: order.Price}); ok {
		level.Orders = append(level.Orders, &entry)
		return
	}
	levels.Set(newPriceLevel(order.Price, &entry))
}

// Cancel removes the resting order identified by (side, price, id). Cancel
// has no global id index by design: callers that
// do not already know the order's price must look it up via
// market.FindOpenOrders first.
func (ob *OrderBook) Cancel(side common.Side, price money.Decimal, id common.OrderId) (bool, string) {
	levels := ob.bids
	if side == common.Ask {
		levels = ob.asks
	}

	level, ok := levels.Get(&PriceLevel{Price: price})
	if !ok {
		return false, "no-such-price"
	}

	idx := -1
	for i, o := range level.Orders {
		if o.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, "not-found"
	}

	level.Orders = append(level.Orders[:idx], level.Orders[idx+1:]...)
	if len(level.Orders) == 0 {
		levels.Delete(&PriceLevel{Price: price})
	}
	return true, "removed"
}
