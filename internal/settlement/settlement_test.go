package settlement

import (
	"testing"

	"prophex/internal/book"
	"prophex/internal/common"
	"prophex/internal/money"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDerivePayload_BuildsPerTradeAccountSet(t *testing.T) {
	trades := []book.Trade{
		{Market: 1, Buyer: "alice", Seller: "bob", Price: money.MustParse("0.45"), Quantity: money.MustParse("10")},
		{Market: 1, Buyer: "carol", Seller: "dave", Price: money.MustParse("0.50"), Quantity: money.MustParse("2")},
	}

	resolve := func(marketID common.MarketId, outcome common.Outcome, buyer, seller common.AccountRef) AccountRefs {
		key := func(s string) solana.PublicKey {
			var pk solana.PublicKey
			copy(pk[:], s)
			return pk
		}
		return AccountRefs{
			BuyerCollateral:    key(string(buyer) + "-collateral"),
			SellerCollateral:   key(string(seller) + "-collateral"),
			BuyerOutcomeToken:  key(string(buyer) + "-outcome"),
			SellerOutcomeToken: key(string(seller) + "-outcome"),
			Buyer:              key(string(buyer)),
			Seller:             key(string(seller)),
		}
	}

	payload, err := DerivePayload(1, common.Yes, trades, resolve)
	require.NoError(t, err)
	require.Len(t, payload.Fills, 2)

	for i, fill := range payload.Fills {
		require.Len(t, fill.Accounts, 6, "fill %d must carry all six accounts", i)
		assert.True(t, fill.Accounts[0].IsWritable, "buyer_collateral must be writable")
		assert.True(t, fill.Accounts[1].IsWritable, "seller_collateral must be writable")
		assert.True(t, fill.Accounts[2].IsWritable, "buyer_outcome_token must be writable")
		assert.True(t, fill.Accounts[3].IsWritable, "seller_outcome_token must be writable")
		assert.False(t, fill.Accounts[4].IsWritable, "buyer wallet must be read-only")
		assert.False(t, fill.Accounts[5].IsWritable, "seller wallet must be read-only")
	}

	assert.NotEqual(t, payload.Fills[0].Accounts[4], payload.Fills[1].Accounts[4], "each fill resolves its own buyer/seller pair")
}

func TestDerivePayload_ScalesPriceAndQuantity(t *testing.T) {
	trades := []book.Trade{
		{Market: 1, Buyer: "alice", Seller: "bob", Price: money.MustParse("0.45"), Quantity: money.MustParse("10")},
	}
	resolve := func(common.MarketId, common.Outcome, common.AccountRef, common.AccountRef) AccountRefs {
		return AccountRefs{}
	}

	payload, err := DerivePayload(1, common.Yes, trades, resolve)
	require.NoError(t, err)
	require.Len(t, payload.Fills, 1)
	assert.Equal(t, uint64(450_000), payload.Fills[0].Price)
	assert.Equal(t, uint64(10_000_000), payload.Fills[0].Quantity)
}
