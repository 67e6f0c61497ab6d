// Package actor implements the Market Actor: a single-threaded cooperative
// loop that owns exactly one market.Books and processes commands strictly
// in receive order, so the book itself never needs a lock. The goroutine is
// supervised by a tomb.Tomb so a parent shutdown tears the actor down
// cleanly.
package actor

import (
	"strconv"

	"prophex/internal/book"
	"prophex/internal/common"
	"prophex/internal/market"
	"prophex/internal/metrics"
	"prophex/internal/money"

	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"
)

// PlaceCmd asks the actor to admit a new order into one outcome's book.
type PlaceCmd struct {
	Outcome common.Outcome
	Side    common.Side
	Entry   book.OrderEntry
	Reply   chan PlaceResult
}

// PlaceResult is the reply to a PlaceCmd.
type PlaceResult struct {
	ID        common.OrderId
	Trades    []book.Trade
	Remaining money.Decimal
}

// CancelCmd asks the actor to remove a resting order.
type CancelCmd struct {
	Outcome common.Outcome
	Side    common.Side
	Price   money.Decimal
	OrderID common.OrderId
	Reply   chan CancelResult
}

// CancelResult is the reply to a CancelCmd.
type CancelResult struct {
	OK     bool
	Reason string
}

// SnapshotCmd asks the actor for a depth snapshot of both outcome books.
type SnapshotCmd struct {
	Reply chan market.Snapshot
}

// FindOpenCmd asks the actor to list one owner's resting orders.
type FindOpenCmd struct {
	Owner common.AccountRef
	Reply chan []market.OpenOrder
}

// DefaultInboxCapacity is the minimum bounded inbox size for a market actor.
const DefaultInboxCapacity = 64

// Actor owns one market.Books for its whole lifetime. It is created and
// torn down by the registry; nothing outside this package ever touches the
// Books directly.
type Actor struct {
	marketID    common.MarketId
	inbox       chan any
	books       *market.Books
	marketLabel string
}

// New constructs an actor for marketID. The caller must call Run (typically
// via t.Go) before sending on Inbox().
func New(marketID common.MarketId, inboxCapacity int) *Actor {
	if inboxCapacity < DefaultInboxCapacity {
		inboxCapacity = DefaultInboxCapacity
	}
	return &Actor{
		marketID:    marketID,
		inbox:       make(chan any, inboxCapacity),
		books:       market.New(marketID),
		marketLabel: strconv.FormatUint(uint64(marketID), 10),
	}
}

// Inbox returns the send side of the actor's command channel.
func (a *Actor) Inbox() chan<- any { return a.inbox }

// Run processes commands until the tomb is dying or the inbox channel is
// closed. It never interleaves two commands, which is the
// entire reason the book underneath needs no lock.
func (a *Actor) Run(t *tomb.Tomb) error {
	log.Debug().Uint64("market", uint64(a.marketID)).Msg("market actor starting")
	defer log.Debug().Uint64("market", uint64(a.marketID)).Msg("market actor exiting")

	for {
		select {
		case <-t.Dying():
			return nil
		case cmd, ok := <-a.inbox:
			if !ok {
				return nil
			}
			a.handle(cmd)
			metrics.InboxDepth.WithLabelValues(a.marketLabel).Set(float64(len(a.inbox)))
		}
	}
}

func (a *Actor) handle(cmd any) {
	switch c := cmd.(type) {
	case PlaceCmd:
		id, trades, remaining := a.books.Place(c.Outcome, c.Entry, c.Side)
		c.Reply <- PlaceResult{ID: id, Trades: trades, Remaining: remaining}
	case CancelCmd:
		ok, reason := a.books.Cancel(c.Outcome, c.Side, c.Price, c.OrderID)
		c.Reply <- CancelResult{OK: ok, Reason: reason}
	case SnapshotCmd:
		c.Reply <- a.books.TakeSnapshot()
	case FindOpenCmd:
		c.Reply <- a.books.FindOpenOrders(c.Owner)
	default:
		log.Error().Uint64("market", uint64(a.marketID)).Msg("market actor received unknown command type")
	}
}
