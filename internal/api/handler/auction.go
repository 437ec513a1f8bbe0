package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/mcoot/playerauction-go/internal/api/apierr"
	"github.com/mcoot/playerauction-go/internal/api/middleware"
	"github.com/mcoot/playerauction-go/internal/api/request"
	"github.com/mcoot/playerauction-go/internal/api/response"
	"github.com/mcoot/playerauction-go/internal/model"
	"github.com/mcoot/playerauction-go/internal/services/engine"
)

// AuctionHandler handles auction-related endpoints
type AuctionHandler struct {
	engine *engine.Engine
}

// NewAuctionHandler creates a new auction handler
func NewAuctionHandler(engine *engine.Engine) *AuctionHandler {
	return &AuctionHandler{engine: engine}
}

// Create handles POST /api/v1/auctions
func (h *AuctionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateAuctionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	caller := middleware.AccountFromContext(r.Context())
	auction, err := h.engine.CreateAuction(
		r.Context(),
		caller,
		model.PlayerID(req.PlayerID),
		time.Duration(req.DurationSeconds)*time.Second,
	)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.AuctionFromModel(auction))
}

// Get handles GET /api/v1/auctions/{id}
func (h *AuctionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := auctionID(w, r)
	if !ok {
		return
	}

	auction, err := h.engine.GetAuction(r.Context(), id)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AuctionFromModel(auction))
}

// List handles GET /api/v1/auctions. Auction ids run from 1 to the
// high-water mark, so the whole ledger is a sequential scan.
func (h *AuctionHandler) List(w http.ResponseWriter, r *http.Request) {
	count, err := h.engine.AuctionCount(r.Context())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	auctions := make([]*model.Auction, 0, count)
	for id := uint64(1); id <= count; id++ {
		auction, err := h.engine.GetAuction(r.Context(), model.AuctionID(id))
		if err != nil {
			apierr.WriteError(w, err)
			return
		}
		auctions = append(auctions, auction)
	}

	response.JSON(w, http.StatusOK, response.AuctionListFromModel(count, auctions))
}

// Bid handles POST /api/v1/auctions/{id}/bids
func (h *AuctionHandler) Bid(w http.ResponseWriter, r *http.Request) {
	id, ok := auctionID(w, r)
	if !ok {
		return
	}

	var req request.PlaceBidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	bidder := middleware.AccountFromContext(r.Context())
	auction, err := h.engine.PlaceBid(r.Context(), id, bidder, req.Amount, req.Value)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AuctionFromModel(auction))
}

// End handles POST /api/v1/auctions/{id}/end
func (h *AuctionHandler) End(w http.ResponseWriter, r *http.Request) {
	id, ok := auctionID(w, r)
	if !ok {
		return
	}

	caller := middleware.AccountFromContext(r.Context())
	auction, err := h.engine.EndAuction(r.Context(), caller, id)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AuctionFromModel(auction))
}

// Withdraw handles POST /api/v1/auctions/{id}/withdraw
func (h *AuctionHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	id, ok := auctionID(w, r)
	if !ok {
		return
	}

	caller := middleware.AccountFromContext(r.Context())
	owed, err := h.engine.Withdraw(r.Context(), caller, id)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.WithdrawalFromModel(owed))
}

// Admin handles GET /api/v1/admin
func (h *AuctionHandler) Admin(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.Admin{Admin: string(h.engine.Admin())})
}

// auctionID parses the {id} path variable, writing an error on failure
func auctionID(w http.ResponseWriter, r *http.Request) (model.AuctionID, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid auction id"))
		return 0, false
	}
	return model.AuctionID(id), true
}
