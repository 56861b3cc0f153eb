package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/username/allrounder/backend/src/models"
	"github.com/username/allrounder/backend/src/security/validation"
	"github.com/username/allrounder/backend/src/store"
	"github.com/username/allrounder/backend/src/utils"
)

// CategoryHandler serves the three label sets (expense, income, schedule).
// The kind is a path segment, validated before touching the store.
type CategoryHandler struct {
	store *store.AppStore
}

func NewCategoryHandler(appStore *store.AppStore) *CategoryHandler {
	return &CategoryHandler{store: appStore}
}

func (h *CategoryHandler) HandleListCategories(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "User not authenticated", http.StatusUnauthorized)
		return
	}

	categories, err := h.store.Categories(userID, r.PathValue("kind"))
	if err != nil {
		utils.SendJSONError(w, "Unknown category kind", http.StatusBadRequest)
		return
	}
	utils.SendJSON(w, http.StatusOK, categories)
}

func (h *CategoryHandler) HandleAddCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "User not authenticated", http.StatusUnauthorized)
		return
	}

	var payload struct {
		Label string `json:"label"`
		Icon  string `json:"icon"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	payload.Label = strings.TrimSpace(validation.StripUnprintable(payload.Label))
	if payload.Label == "" {
		utils.SendJSONError(w, "Label is required", http.StatusBadRequest)
		return
	}

	category := models.Category{
		ID:    uuid.NewString(),
		Label: payload.Label,
		Icon:  payload.Icon,
	}
	if err := h.store.AddCategory(userID, r.PathValue("kind"), category); err != nil {
		utils.SendJSONError(w, "Unknown category kind", http.StatusBadRequest)
		return
	}
	utils.SendJSON(w, http.StatusCreated, category)
}

func (h *CategoryHandler) HandleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "User not authenticated", http.StatusUnauthorized)
		return
	}

	err := h.store.DeleteCategory(userID, r.PathValue("kind"), r.PathValue("id"))
	switch {
	case err == nil:
		utils.SendJSON(w, http.StatusOK, map[string]string{"message": "Category deleted"})
	case errors.Is(err, store.ErrUnknownCategoryKind):
		utils.SendJSONError(w, "Unknown category kind", http.StatusBadRequest)
	case errors.Is(err, store.ErrCategoryNotFound):
		utils.SendJSONError(w, "Category not found", http.StatusNotFound)
	default:
		utils.SendJSONError(w, "Failed to delete category", http.StatusInternalServerError)
	}
}
