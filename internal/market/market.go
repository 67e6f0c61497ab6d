// Package market pairs the YES and NO order books for a single market and
// implements the read-side operations (snapshot, open-order listing) that
// sit on top of them. It owns two independent OrderBooks and never lets an
// order cross between them.
package market

import (
	"prophex/internal/book"
	"prophex/internal/common"
	"prophex/internal/money"
)

// SnapshotLevel is one aggregated price-level row of a depth snapshot.
type SnapshotLevel struct {
	Price    money.Decimal `json:"price"`
	Quantity money.Decimal `json:"quantity"`
	Total    money.Decimal `json:"total"`
}

// Snapshot is a point-in-time view of both outcome books. Both bids and
// asks are returned in descending price order — yes, asks too. This mirrors
// this is unusual but intentional. A caller wanting conventional ascending
// asks must reverse the slice itself.
type Snapshot struct {
	Yes BookSnapshot `json:"yes"`
	No  BookSnapshot `json:"no"`
}

// BookSnapshot holds one outcome's bid and ask depth rows.
type BookSnapshot struct {
	Bids []SnapshotLevel `json:"bids"`
	Asks []SnapshotLevel `json:"asks"`
}

// OpenOrder is a projection of one live book entry owned by one account.
type OpenOrder struct {
	ID       common.OrderId    `json:"id"`
	Market   common.MarketId   `json:"market"`
	Outcome  common.Outcome    `json:"outcome"`
	Side     common.Side       `json:"side"`
	Price    money.Decimal     `json:"price"`
	Quantity money.Decimal     `json:"quantity"`
	Owner    common.AccountRef `json:"-"`
}

// Books holds the YES and NO order books for one market. It has no lock;
// the owning actor goroutine is the only writer.
type Books struct {
	ID  common.MarketId
	Yes *book.OrderBook
	No  *book.OrderBook
}

// New constructs an empty pair of books for a market.
func New(id common.MarketId) *Books {
	return &Books{ID: id, Yes: book.NewOrderBook(), No: book.NewOrderBook()}
}

// Of returns the book for the given outcome.
func (b *Books) Of(outcome common.Outcome) *book.OrderBook {
	if outcome == common.No {
		return b.No
	}
	return b.Yes
}

// Place routes a placement to the correct outcome's book.
func (b *Books) Place(outcome common.Outcome, order book.OrderEntry, side common.Side) (common.OrderId, []book.Trade, money.Decimal) {
	return b.Of(outcome).Place(order, side)
}

// Cancel routes a cancel to the correct outcome's book.
func (b *Books) Cancel(outcome common.Outcome, side common.Side, price money.Decimal, id common.OrderId) (bool, string) {
	return b.Of(outcome).Cancel(side, price, id)
}

// TakeSnapshot aggregates both outcome books into depth rows.
func (b *Books) TakeSnapshot() Snapshot {
	return Snapshot{
		Yes: snapshotOf(b.Yes),
		No:  snapshotOf(b.No),
	}
}

func snapshotOf(ob *book.OrderBook) BookSnapshot {
	return BookSnapshot{
		Bids: levelsToSnapshot(ob.Bids()), // already descending
		Asks: reverseLevels(levelsToSnapshot(ob.Asks())), // ascending -> descending
	}
}

func levelsToSnapshot(levels []*book.PriceLevel) []SnapshotLevel {
	out := make([]SnapshotLevel, 0, len(levels))
	for _, lvl := range levels {
		qty := money.Zero
		for _, o := range lvl.Orders {
			qty = qty.Add(o.Qty)
		}
		out = append(out, SnapshotLevel{
			Price:    lvl.Price,
			Quantity: qty,
			Total:    lvl.Price.Mul(qty),
		})
	}
	return out
}

func reverseLevels(levels []SnapshotLevel) []SnapshotLevel {
	for i, j := 0, len(levels)-1; i < j; i, j = i+1, j-1 {
		levels[i], levels[j] = levels[j], levels[i]
	}
	return levels
}

// FindOpenOrders scans all four price-level containers (YES/NO x bid/ask)
// and returns an OpenOrder for every resting entry owned by owner. Order of
// the returned slice is unspecified — callers must treat it as a set keyed
// by id.
func (b *Books) FindOpenOrders(owner common.AccountRef) []OpenOrder {
	var out []OpenOrder
	out = append(out, collectOpenOrders(b.Yes, common.Yes, owner)...)
	out = append(out, collectOpenOrders(b.No, common.No, owner)...)
	return out
}

func collectOpenOrders(ob *book.OrderBook, outcome common.Outcome, owner common.AccountRef) []OpenOrder {
	var out []OpenOrder
	for _, side := range []struct {
		side   common.Side
		levels []*book.PriceLevel
	}{
		{common.Bid, ob.Bids()},
		{common.Ask, ob.Asks()},
	} {
		for _, lvl := range side.levels {
			for _, o := range lvl.Orders {
				if o.Owner != owner {
					continue
				}
				out = append(out, OpenOrder{
					ID:       o.ID,
					Market:   o.Market,
					Outcome:  outcome,
					Side:     side.side,
					Price:    o.Price,
					Quantity: o.Qty,
					Owner:    o.Owner,
				})
			}
		}
	}
	return out
}
