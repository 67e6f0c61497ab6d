// Package httpapi binds the facade onto an HTTP/JSON surface with
// gorilla/mux, wrapped in rs/cors so browser clients can reach it
// directly.
package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"prophex/internal/common"
	"prophex/internal/facade"
	"prophex/internal/feed"
	"prophex/internal/money"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
)

// Server wires the facade and the trade feed onto a single mux.Router. The
// /metrics endpoint is not part of it; cmd/main.go registers that separately.
type Server struct {
	facade *facade.Facade
	feed   *feed.Hub
	router *mux.Router
}

// New builds the router, registering every route.
func New(f *facade.Facade, hub *feed.Hub) *Server {
	s := &Server{facade: f, feed: hub, router: mux.NewRouter()}

	s.router.HandleFunc("/markets/{marketID}/orders", s.handlePlace).Methods(http.MethodPost)
	s.router.HandleFunc("/markets/{marketID}/orders/{orderID}", s.handleCancel).Methods(http.MethodDelete)
	s.router.HandleFunc("/markets/{marketID}/snapshot", s.handleSnapshot).Methods(http.MethodGet)
	s.router.HandleFunc("/markets/{marketID}/orders", s.handleFindOpen).Methods(http.MethodGet)
	s.router.HandleFunc("/markets/{marketID}/stream", s.handleStream).Methods(http.MethodGet)
	s.router.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)

	return s
}

// Handler returns the CORS-wrapped router ready to pass to http.Server.
func (s *Server) Handler(allowedOrigins []string) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(s.router)
}

type placeRequest struct {
	Outcome common.Outcome `json:"outcome"`
	Side    common.Side    `json:"side"`
	Owner   string         `json:"owner"`
	Price   string         `json:"price"`
	Qty     string         `json:"quantity"`
}

type placeResponse struct {
	OrderID   common.OrderId `json:"order_id"`
	Trades    []tradeView    `json:"trades"`
	Remaining money.Decimal  `json:"remaining"`
}

type tradeView struct {
	Buyer    common.AccountRef `json:"buyer"`
	Seller   common.AccountRef `json:"seller"`
	Price    money.Decimal     `json:"price"`
	Quantity money.Decimal     `json:"quantity"`
}

func (s *Server) handlePlace(w http.ResponseWriter, r *http.Request) {
	marketID, err := parseMarketID(r)
	if err != nil {
		writeError(w, common.NewError(common.KindValidation, err.Error(), err))
		return
	}

	var body placeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, common.NewError(common.KindValidation, "malformed request body", err))
		return
	}
	price, err := money.Parse(body.Price)
	if err != nil {
		writeError(w, common.NewError(common.KindValidation, err.Error(), err))
		return
	}
	qty, err := money.Parse(body.Qty)
	if err != nil {
		writeError(w, common.NewError(common.KindValidation, err.Error(), err))
		return
	}

	resp, err := s.facade.Place(r.Context(), facade.PlaceRequest{
		Market:  marketID,
		Outcome: body.Outcome,
		Side:    body.Side,
		Owner:   common.AccountRef(body.Owner),
		Price:   price,
		Qty:     qty,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	if s.feed != nil && len(resp.Trades) > 0 {
		s.feed.Publish(marketID, resp.Trades)
	}

	trades := make([]tradeView, 0, len(resp.Trades))
	for _, t := range resp.Trades {
		trades = append(trades, tradeView{Buyer: t.Buyer, Seller: t.Seller, Price: t.Price, Quantity: t.Quantity})
	}
	writeJSON(w, http.StatusOK, placeResponse{OrderID: resp.OrderID, Trades: trades, Remaining: resp.Remaining})
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	marketID, err := parseMarketID(r)
	if err != nil {
		writeError(w, common.NewError(common.KindValidation, err.Error(), err))
		return
	}
	orderID, err := uuidFromPath(r, "orderID")
	if err != nil {
		writeError(w, common.NewError(common.KindValidation, err.Error(), err))
		return
	}

	q := r.URL.Query()
	side, err := parseSide(q.Get("side"))
	if err != nil {
		writeError(w, common.NewError(common.KindValidation, err.Error(), err))
		return
	}
	outcome, err := parseOutcome(q.Get("outcome"))
	if err != nil {
		writeError(w, common.NewError(common.KindValidation, err.Error(), err))
		return
	}
	price, err := money.Parse(q.Get("price"))
	if err != nil {
		writeError(w, common.NewError(common.KindValidation, err.Error(), err))
		return
	}

	err = s.facade.Cancel(r.Context(), facade.CancelRequest{
		Market:  marketID,
		Outcome: outcome,
		Side:    side,
		Price:   price,
		OrderID: orderID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	marketID, err := parseMarketID(r)
	if err != nil {
		writeError(w, common.NewError(common.KindValidation, err.Error(), err))
		return
	}
	snap, err := s.facade.Snapshot(r.Context(), marketID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleFindOpen(w http.ResponseWriter, r *http.Request) {
	marketID, err := parseMarketID(r)
	if err != nil {
		writeError(w, common.NewError(common.KindValidation, err.Error(), err))
		return
	}
	owner := r.URL.Query().Get("owner")
	if owner == "" {
		writeError(w, common.NewError(common.KindValidation, "owner query parameter is required", nil))
		return
	}
	orders, err := s.facade.FindOpenOrders(r.Context(), marketID, common.AccountRef(owner))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	marketID, err := parseMarketID(r)
	if err != nil {
		writeError(w, common.NewError(common.KindValidation, err.Error(), err))
		return
	}
	if s.feed == nil {
		writeError(w, common.NewError(common.KindNotFound, "trade feed not enabled", nil))
		return
	}
	s.feed.ServeHTTP(marketID, w, r)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func parseMarketID(r *http.Request) (common.MarketId, error) {
	raw := mux.Vars(r)["marketID"]
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return common.MarketId(id), nil
}

func uuidFromPath(r *http.Request, key string) (common.OrderId, error) {
	return parseUUID(mux.Vars(r)[key])
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response body")
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	kind := common.KindSettlement
	if ce, ok := err.(*common.Error); ok {
		kind = ce.Kind
		switch ce.Kind {
		case common.KindValidation:
			status = http.StatusBadRequest
		case common.KindNotFound:
			status = http.StatusNotFound
		case common.KindActorGone, common.KindSettlement:
			status = http.StatusInternalServerError
		}
	}
	writeJSON(w, status, map[string]string{"error": err.Error(), "kind": kind.String()})
}
