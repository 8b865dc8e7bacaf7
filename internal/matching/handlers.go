package matching

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/shashanksGitHub/charlie-sub013/internal/auth"
	"github.com/shashanksGitHub/charlie-sub013/internal/common/utils"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetDiscovery serves the ranked discovery feed for the authenticated user.
func (h *Handler) GetDiscovery(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Missing user identity")
		return
	}

	opts := &DiscoveryOptions{
		Limit: 20,
		Mode:  ModeMeet,
	}

	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		opts.Limit = limit
	}
	if v := r.URL.Query().Get("mode"); v != "" {
		opts.Mode = v
	}
	if v := r.URL.Query().Get("fresh"); v != "" {
		opts.Fresh, _ = strconv.ParseBool(v)
	}

	if err := utils.ValidateStruct(opts); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	ranked, err := h.service.GetRankedDiscovery(r.Context(), userID, opts)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to build discovery feed")
		return
	}

	utils.RespondWithData(w, http.StatusOK, ranked)
}

// GetCompatibility serves the detailed score breakdown against one user.
func (h *Handler) GetCompatibility(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Missing user identity")
		return
	}

	vars := mux.Vars(r)
	otherID, err := strconv.ParseInt(vars["userId"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	result, err := h.service.CompareUsers(r.Context(), userID, otherID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to compare users")
		return
	}

	utils.RespondWithData(w, http.StatusOK, result)
}
