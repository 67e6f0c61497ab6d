// Package feed is a supplemental real-time trade feed over WebSockets. It
// sits entirely outside the matching path: the HTTP place handler publishes
// a batch of trades after a successful placement, and the hub fans it out to whichever
// clients are subscribed to that market, dropping the oldest queued message
// rather than ever blocking a publisher.
package feed

import (
	"net/http"
	"sync"

	"prophex/internal/book"
	"prophex/internal/common"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// perConnBuffer bounds how many undelivered trade batches a slow client can
// accumulate before the oldest is dropped.
const perConnBuffer = 32

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

type subscriber struct {
	out chan []book.Trade
}

// Hub fans out trades per market to subscribed WebSocket connections.
type Hub struct {
	mu   sync.RWMutex
	subs map[common.MarketId]map[*subscriber]struct{}
}

// NewHub constructs an empty feed hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[common.MarketId]map[*subscriber]struct{})}
}

// Publish broadcasts a batch of trades to every subscriber of marketID. It
// never blocks: a subscriber whose buffer is full has its oldest pending
// batch dropped to make room.
func (h *Hub) Publish(marketID common.MarketId, trades []book.Trade) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.subs[marketID] {
		select {
		case s.out <- trades:
		default:
			select {
			case <-s.out:
			default:
			}
			select {
			case s.out <- trades:
			default:
			}
		}
	}
}

// ServeHTTP upgrades the request to a WebSocket and streams trades for
// marketID until the connection closes.
func (h *Hub) ServeHTTP(marketID common.MarketId, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("trade feed upgrade failed")
		return
	}
	defer conn.Close()

	sub := &subscriber{out: make(chan []book.Trade, perConnBuffer)}
	h.add(marketID, sub)
	defer h.remove(marketID, sub)

	for trades := range sub.out {
		if err := conn.WriteJSON(tradesMessage(trades)); err != nil {
			return
		}
	}
}

func (h *Hub) add(marketID common.MarketId, s *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[marketID] == nil {
		h.subs[marketID] = make(map[*subscriber]struct{})
	}
	h.subs[marketID][s] = struct{}{}
}

func (h *Hub) remove(marketID common.MarketId, s *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs[marketID], s)
	close(s.out)
}

type tradeView struct {
	Buyer    common.AccountRef `json:"buyer"`
	Seller   common.AccountRef `json:"seller"`
	Price    string            `json:"price"`
	Quantity string            `json:"quantity"`
}

func tradesMessage(trades []book.Trade) []tradeView {
	out := make([]tradeView, 0, len(trades))
	for _, t := range trades {
		out = append(out, tradeView{
			Buyer:    t.Buyer,
			Seller:   t.Seller,
			Price:    t.Price.String(),
			Quantity: t.Quantity.String(),
		})
	}
	return out
}
