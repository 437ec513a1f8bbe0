package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/playerauction-go/internal/api/apierr"
	"github.com/mcoot/playerauction-go/internal/api/middleware"
	"github.com/mcoot/playerauction-go/internal/api/request"
	"github.com/mcoot/playerauction-go/internal/api/response"
	"github.com/mcoot/playerauction-go/internal/model"
	"github.com/mcoot/playerauction-go/internal/services/engine"
)

// defaultListMax bounds an unqualified player list request
const defaultListMax = 100

// PlayerHandler handles player-related endpoints
type PlayerHandler struct {
	engine *engine.Engine
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(engine *engine.Engine) *PlayerHandler {
	return &PlayerHandler{engine: engine}
}

// Register handles POST /api/v1/players
func (h *PlayerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterPlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Name == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("name is required"))
		return
	}
	if req.Position == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("position is required"))
		return
	}

	caller := middleware.AccountFromContext(r.Context())
	player, err := h.engine.RegisterPlayer(r.Context(), caller, req.Name, req.Position, req.BasePrice)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.PlayerFromModel(player))
}

// Get handles GET /api/v1/players/{id}
func (h *PlayerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid player id"))
		return
	}

	player, err := h.engine.GetPlayer(r.Context(), model.PlayerID(id))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(player))
}

// List handles GET /api/v1/players
func (h *PlayerHandler) List(w http.ResponseWriter, r *http.Request) {
	max := defaultListMax
	if raw := r.URL.Query().Get("max"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			apierr.WriteError(w, apierr.NewInvalidRequestError("invalid max"))
			return
		}
		max = parsed
	}

	players, err := h.engine.ListPlayers(r.Context(), max)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerListFromModel(players))
}
