// Package settlement derives the on-chain settlement payload from a batch
// of matched trades and defines the boundary a real chain submitter would
// implement: a fill list scaled to a fixed six-decimal integer, plus the
// ordered account-meta list a Solana instruction needs, with
// writable/readonly markers.
package settlement

import (
	"context"

	"prophex/internal/book"
	"prophex/internal/common"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog/log"
)

// FillScale is the number of decimal places trades are scaled to before
// being packed into a FillRecord: six decimals of fixed-point precision
// for on-chain amounts.
const FillScale int32 = 6

// FillRecord is one trade rescaled into the integer form the settlement
// program expects, together with the account-meta list that one fill's
// settlement instruction touches.
type FillRecord struct {
	Buyer    common.AccountRef
	Seller   common.AccountRef
	Price    uint64 // fixed-point, scaled by 10^FillScale
	Quantity uint64 // fixed-point, scaled by 10^FillScale
	Accounts AccountSet
}

// AccountMeta mirrors a Solana AccountMeta: a public key plus the
// writable/signer markers a transaction instruction needs.
type AccountMeta struct {
	PubKey     solana.PublicKey
	IsWritable bool
	IsSigner   bool
}

// AccountSet is the ordered list of accounts one fill's settlement
// instruction touches. Order matters — it is positional, matching the
// on-chain program's expected account layout: buyer_collateral,
// seller_collateral, buyer_outcome_token, seller_outcome_token (all four
// writable), then buyer, seller (both read-only).
type AccountSet []AccountMeta

// AccountRefs is the six on-chain public keys one fill's settlement needs,
// resolved from the off-chain AccountRefs recorded on the trade. Which mint
// buyer_outcome_token/seller_outcome_token point at depends on the YES/NO
// outcome the fill traded.
type AccountRefs struct {
	BuyerCollateral    solana.PublicKey
	SellerCollateral   solana.PublicKey
	BuyerOutcomeToken  solana.PublicKey
	SellerOutcomeToken solana.PublicKey
	Buyer              solana.PublicKey
	Seller             solana.PublicKey
}

// toAccountSet orders and marks the six refs the way the settlement program
// expects: the four token accounts are writable, the two owner wallets are
// read-only.
func (r AccountRefs) toAccountSet() AccountSet {
	return AccountSet{
		{PubKey: r.BuyerCollateral, IsWritable: true},
		{PubKey: r.SellerCollateral, IsWritable: true},
		{PubKey: r.BuyerOutcomeToken, IsWritable: true},
		{PubKey: r.SellerOutcomeToken, IsWritable: true},
		{PubKey: r.Buyer, IsWritable: false},
		{PubKey: r.Seller, IsWritable: false},
	}
}

// AccountResolver resolves one fill's buyer/seller into the six on-chain
// accounts its settlement instruction needs. It is supplied by the caller
// (the facade), which knows how to map an AccountRef to real public keys;
// DerivePayload only fixes the ordering and writable markers.
type AccountResolver func(marketID common.MarketId, outcome common.Outcome, buyer, seller common.AccountRef) AccountRefs

// Payload is everything a Submit call needs to settle one batch of trades
// for one market.
type Payload struct {
	Market  common.MarketId
	Outcome common.Outcome
	Fills   []FillRecord
}

// DerivePayload converts matched trades into a settlement Payload, resolving
// each trade's account-meta list independently via resolve so that every
// fill carries its own correctly-ordered AccountSet.
func DerivePayload(marketID common.MarketId, outcome common.Outcome, trades []book.Trade, resolve AccountResolver) (Payload, error) {
	fills := make([]FillRecord, 0, len(trades))
	for _, t := range trades {
		price, err := t.Price.ScaledUint64(FillScale)
		if err != nil {
			return Payload{}, err
		}
		qty, err := t.Quantity.ScaledUint64(FillScale)
		if err != nil {
			return Payload{}, err
		}
		refs := resolve(marketID, outcome, t.Buyer, t.Seller)
		fills = append(fills, FillRecord{
			Buyer:    t.Buyer,
			Seller:   t.Seller,
			Price:    price,
			Quantity: qty,
			Accounts: refs.toAccountSet(),
		})
	}
	return Payload{Market: marketID, Outcome: outcome, Fills: fills}, nil
}

// Settlement submits a derived payload to the chain. A market's trades are
// submitted best-effort: a failed Submit is logged and surfaced to the
// caller, but the matched trades themselves are never rolled back —
// matching and settlement are intentionally decoupled.
type Settlement interface {
	Submit(ctx context.Context, payload Payload) error
}

// LoggingSettlement is a stand-in Settlement that only logs; it is wired in
// by default so the facade has something to call without a live cluster
// connection configured.
type LoggingSettlement struct{}

// Submit logs the payload and always succeeds.
func (LoggingSettlement) Submit(_ context.Context, payload Payload) error {
	log.Info().
		Uint64("market", uint64(payload.Market)).
		Str("outcome", payload.Outcome.String()).
		Int("fills", len(payload.Fills)).
		Msg("settlement payload derived")
	return nil
}
