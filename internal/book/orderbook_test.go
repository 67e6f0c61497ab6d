package book

import (
	"testing"

	"prophex/internal/common"
	"prophex/internal/money"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEntry(owner string, price, qty string) OrderEntry {
	return OrderEntry{
		ID:     common.NewOrderId(),
		Owner:  common.AccountRef(owner),
		Market: 1,
		Price:  money.MustParse(price),
		Qty:    money.MustParse(qty),
	}
}

func TestPlace_RestsWhenBookIsEmpty(t *testing.T) {
	ob := NewOrderBook()

	id, trades, remaining := ob.Place(newEntry("alice", "0.40", "10"), common.Bid)

	assert.Empty(t, trades)
	assert.True(t, remaining.Equal(money.MustParse("10")))
	bestBid, ok := ob.BestBid()
	require.True(t, ok)
	assert.True(t, bestBid.Equal(money.MustParse("0.40")))

	open := ob.Bids()
	require.Len(t, open, 1)
	require.Len(t, open[0].Orders, 1)
	assert.Equal(t, id, open[0].Orders[0].ID)
}

func TestPlace_CrossingBidMatchesAtTakerPrice(t *testing.T) {
	ob := NewOrderBook()
	_, _, _ = ob.Place(newEntry("maker", "0.40", "10"), common.Ask)

	_, trades, remaining := ob.Place(newEntry("taker", "0.45", "10"), common.Bid)

	require.Len(t, trades, 1)
	// Taker-price convention: the trade prints at the bid's limit (0.45),
	// not the resting ask's price (0.40).
	assert.True(t, trades[0].Price.Equal(money.MustParse("0.45")))
	assert.Equal(t, common.AccountRef("taker"), trades[0].Buyer)
	assert.Equal(t, common.AccountRef("maker"), trades[0].Seller)
	assert.True(t, trades[0].Quantity.Equal(money.MustParse("10")))
	assert.True(t, remaining.IsZero())

	_, ok := ob.BestAsk()
	assert.False(t, ok, "fully consumed ask level should be removed")
}

func TestPlace_CrossingAskMatchesAtTakerPrice(t *testing.T) {
	ob := NewOrderBook()
	_, _, _ = ob.Place(newEntry("maker", "0.50", "5"), common.Bid)

	_, trades, _ := ob.Place(newEntry("taker", "0.45", "5"), common.Ask)

	require.Len(t, trades, 1)
	assert.True(t, trades[0].Price.Equal(money.MustParse("0.45")))
	assert.Equal(t, common.AccountRef("maker"), trades[0].Buyer)
	assert.Equal(t, common.AccountRef("taker"), trades[0].Seller)
}

func TestPlace_PartialFillRestsRemainder(t *testing.T) {
	ob := NewOrderBook()
	_, _, _ = ob.Place(newEntry("maker", "0.40", "4"), common.Ask)

	_, trades, remaining := ob.Place(newEntry("taker", "0.40", "10"), common.Bid)

	require.Len(t, trades, 1)
	assert.True(t, trades[0].Quantity.Equal(money.MustParse("4")))
	assert.True(t, remaining.Equal(money.MustParse("6")))

	bids := ob.Bids()
	require.Len(t, bids, 1)
	assert.True(t, bids[0].Orders[0].Qty.Equal(money.MustParse("6")))
}

func TestPlace_SweepsMultipleLevelsAndPreservesFIFO(t *testing.T) {
	ob := NewOrderBook()
	_, _, _ = ob.Place(newEntry("m1", "0.40", "5"), common.Ask)
	_, _, _ = ob.Place(newEntry("m2", "0.40", "5"), common.Ask) // same level, FIFO after m1
	_, _, _ = ob.Place(newEntry("m3", "0.42", "5"), common.Ask)

	_, trades, remaining := ob.Place(newEntry("taker", "0.45", "12"), common.Bid)

	require.Len(t, trades, 3)
	assert.Equal(t, common.AccountRef("m1"), trades[0].Seller)
	assert.Equal(t, common.AccountRef("m2"), trades[1].Seller)
	assert.Equal(t, common.AccountRef("m3"), trades[2].Seller)
	assert.True(t, trades[2].Quantity.Equal(money.MustParse("2")))
	assert.True(t, remaining.IsZero())
}

func TestPlace_NeverCrossesAtWorseThanTakerLimit(t *testing.T) {
	ob := NewOrderBook()
	_, _, _ = ob.Place(newEntry("maker", "0.60", "10"), common.Ask)

	_, trades, remaining := ob.Place(newEntry("taker", "0.50", "10"), common.Bid)

	assert.Empty(t, trades)
	assert.True(t, remaining.Equal(money.MustParse("10")))
}

func TestCancel_RemovesRestingOrder(t *testing.T) {
	ob := NewOrderBook()
	id, _, _ := ob.Place(newEntry("alice", "0.40", "10"), common.Bid)

	ok, reason := ob.Cancel(common.Bid, money.MustParse("0.40"), id)
	assert.True(t, ok)
	assert.Equal(t, "removed", reason)

	_, found := ob.BestBid()
	assert.False(t, found)
}

func TestCancel_NoSuchPrice(t *testing.T) {
	ob := NewOrderBook()
	ok, reason := ob.Cancel(common.Bid, money.MustParse("0.40"), common.NewOrderId())
	assert.False(t, ok)
	assert.Equal(t, "no-such-price", reason)
}

func TestCancel_NotFoundAtExistingPrice(t *testing.T) {
	ob := NewOrderBook()
	_, _, _ = ob.Place(newEntry("alice", "0.40", "10"), common.Bid)

	ok, reason := ob.Cancel(common.Bid, money.MustParse("0.40"), common.NewOrderId())
	assert.False(t, ok)
	assert.Equal(t, "not-found", reason)
}

func TestPlace_SelfTradeIsPermitted(t *testing.T) {
	ob := NewOrderBook()
	_, _, _ = ob.Place(newEntry("alice", "0.40", "10"), common.Ask)

	_, trades, _ := ob.Place(newEntry("alice", "0.40", "5"), common.Bid)

	require.Len(t, trades, 1, "no self-trade prevention; alice may trade against herself")
}
