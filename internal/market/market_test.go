package market

import (
	"testing"

	"prophex/internal/book"
	"prophex/internal/common"
	"prophex/internal/money"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(owner string, price, qty string) book.OrderEntry {
	return book.OrderEntry{
		ID:     common.NewOrderId(),
		Owner:  common.AccountRef(owner),
		Market: 1,
		Price:  money.MustParse(price),
		Qty:    money.MustParse(qty),
	}
}

func TestBooks_PlaceRoutesToCorrectOutcome(t *testing.T) {
	b := New(1)

	_, trades, _ := b.Place(common.Yes, entry("alice", "0.60", "5"), common.Bid)
	assert.Empty(t, trades)

	_, ok := b.Yes.BestBid()
	assert.True(t, ok)
	_, ok = b.No.BestBid()
	assert.False(t, ok, "a YES order must never rest on the NO book")
}

func TestTakeSnapshot_BothSidesDescending(t *testing.T) {
	b := New(1)
	b.Place(common.Yes, entry("a", "0.30", "5"), common.Ask)
	b.Place(common.Yes, entry("b", "0.35", "5"), common.Ask)
	b.Place(common.Yes, entry("c", "0.20", "5"), common.Bid)
	b.Place(common.Yes, entry("d", "0.25", "5"), common.Bid)

	snap := b.TakeSnapshot()

	require.Len(t, snap.Yes.Bids, 2)
	assert.True(t, snap.Yes.Bids[0].Price.GreaterThan(snap.Yes.Bids[1].Price), "bids descending")

	require.Len(t, snap.Yes.Asks, 2)
	assert.True(t, snap.Yes.Asks[0].Price.GreaterThan(snap.Yes.Asks[1].Price), "asks returned descending by design")
}

func TestFindOpenOrders_FiltersByOwnerAcrossBothOutcomes(t *testing.T) {
	b := New(1)
	b.Place(common.Yes, entry("alice", "0.40", "10"), common.Bid)
	b.Place(common.No, entry("alice", "0.55", "3"), common.Ask)
	b.Place(common.Yes, entry("bob", "0.45", "7"), common.Bid)

	open := b.FindOpenOrders("alice")

	require.Len(t, open, 2)
	for _, o := range open {
		assert.Equal(t, common.AccountRef("alice"), o.Owner)
	}
}

func TestFindOpenOrders_EmptyForUnknownOwner(t *testing.T) {
	b := New(1)
	b.Place(common.Yes, entry("alice", "0.40", "10"), common.Bid)

	open := b.FindOpenOrders("ghost")
	assert.Empty(t, open)
}
