package book

import (
	"prophex/internal/common"
	"prophex/internal/money"
)

// OrderEntry is a single resting or in-flight order. Qty is always the
// *remaining* open quantity — it is decremented by matches and the entry is
// dropped from its PriceLevel once it reaches zero.
type OrderEntry struct {
	ID     common.OrderId
	Owner  common.AccountRef
	Market common.MarketId
	Side   common.Side
	Price  money.Decimal
	Qty    money.Decimal
}

// Clone returns a value copy of the entry; matching mutates Qty in place on
// the book's own slice, so callers that want a snapshot take a Clone.
func (o OrderEntry) Clone() OrderEntry { return o }

// PriceLevel is a FIFO queue of orders resting at one price. Insertion
// appends at the tail; matching consumes from the head, so insertion order
// is priority order within the level, per invariant 4.
type PriceLevel struct {
	Price  money.Decimal
	Orders []*OrderEntry
}

func newPriceLevel(price money.Decimal, first *OrderEntry) *PriceLevel {
	return &PriceLevel{Price: price, Orders: []*OrderEntry{first}}
}

// Trade records one maker/taker match step. Trades are never aggregated
// across levels — one Trade per consumed maker, per spec invariant 5.
type Trade struct {
	Market   common.MarketId
	Buyer    common.AccountRef
	Seller   common.AccountRef
	Price    money.Decimal
	Quantity money.Decimal
}
