package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/username/allrounder/backend/src/models"
	"github.com/username/allrounder/backend/src/security/validation"
	"github.com/username/allrounder/backend/src/store"
	"github.com/username/allrounder/backend/src/utils"
)

type ProfileHandler struct {
	store *store.AppStore
}

func NewProfileHandler(appStore *store.AppStore) *ProfileHandler {
	return &ProfileHandler{store: appStore}
}

func (h *ProfileHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "User not authenticated", http.StatusUnauthorized)
		return
	}
	utils.SendJSON(w, http.StatusOK, h.store.Profile(userID))
}

func (h *ProfileHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "User not authenticated", http.StatusUnauthorized)
		return
	}

	var payload models.Profile
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	payload.Name = strings.TrimSpace(validation.StripUnprintable(payload.Name))
	payload.Email = strings.TrimSpace(validation.StripUnprintable(payload.Email))
	if payload.Name == "" {
		utils.SendJSONError(w, "Name is required", http.StatusBadRequest)
		return
	}

	h.store.SetProfile(userID, payload)
	utils.SendJSON(w, http.StatusOK, payload)
}
