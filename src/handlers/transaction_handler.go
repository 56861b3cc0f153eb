package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/username/allrounder/backend/src/logger"
	"github.com/username/allrounder/backend/src/models"
	"github.com/username/allrounder/backend/src/recurrence"
	"github.com/username/allrounder/backend/src/security/validation"
	"github.com/username/allrounder/backend/src/store"
	"github.com/username/allrounder/backend/src/utils"
)

type TransactionHandler struct {
	store *store.AppStore
}

func NewTransactionHandler(appStore *store.AppStore) *TransactionHandler {
	return &TransactionHandler{store: appStore}
}

func (h *TransactionHandler) HandleListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "User not authenticated", http.StatusUnauthorized)
		return
	}
	utils.SendJSON(w, http.StatusOK, h.store.Transactions(userID))
}

type transactionPayload struct {
	Type      string `json:"type"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Title     string `json:"title"`
	Amount    int64  `json:"amount"`
	Category  string `json:"category"`
	Memo      string `json:"memo"`
	AccountID string `json:"accountId"`

	// Optional recurrence block. When Repeat is set the template is
	// materialized into dated copies at creation time.
	Repeat      bool   `json:"repeat"`
	RepeatCycle string `json:"repeatCycle"`
	RepeatCount string `json:"repeatCount"`
}

// HandleCreateTransaction records one transaction, or a whole recurrence
// series when the repeat block is present. All produced records are stored in
// one append.
func (h *TransactionHandler) HandleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "User not authenticated", http.StatusUnauthorized)
		return
	}

	var payload transactionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	payload.Title = strings.TrimSpace(validation.StripUnprintable(payload.Title))
	payload.Memo = strings.TrimSpace(validation.StripUnprintable(payload.Memo))
	if !models.ValidTransactionType(payload.Type) {
		utils.SendJSONError(w, "Unknown transaction type", http.StatusBadRequest)
		return
	}
	if payload.Title == "" {
		utils.SendJSONError(w, "Title is required", http.StatusBadRequest)
		return
	}
	if payload.Amount <= 0 {
		utils.SendJSONError(w, "Amount must be positive", http.StatusBadRequest)
		return
	}
	if utils.ParseDate(payload.Date).IsZero() {
		utils.SendJSONError(w, "Invalid date", http.StatusBadRequest)
		return
	}

	now := time.Now()
	displayTime := payload.Time
	if displayTime == "" {
		displayTime = utils.FormatClock(now)
	}

	template := models.Transaction{
		ID:        uuid.NewString(),
		Type:      payload.Type,
		Date:      payload.Date,
		Time:      displayTime,
		Title:     payload.Title,
		Amount:    payload.Amount,
		Category:  payload.Category,
		Memo:      payload.Memo,
		AccountID: payload.AccountID,
		CreatedAt: now,
	}

	created := []models.Transaction{template}
	if payload.Repeat {
		cadence := recurrence.Cadence(payload.RepeatCycle)
		if !recurrence.ValidCadence(cadence) {
			utils.SendJSONError(w, "Unknown repeat cycle", http.StatusBadRequest)
			return
		}
		count := recurrence.NormalizeCountString(payload.RepeatCount)
		created = recurrence.ExpandTransaction(template, count, cadence)
	}

	h.store.AppendTransactions(userID, created)
	logger.L.Info("Transactions recorded", "userID", userID, "count", len(created))
	utils.SendJSON(w, http.StatusCreated, created)
}

func (h *TransactionHandler) HandleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "User not authenticated", http.StatusUnauthorized)
		return
	}
	transactionID := r.PathValue("id")

	if err := h.store.DeleteTransaction(userID, transactionID); err != nil {
		if errors.Is(err, store.ErrTransactionNotFound) {
			utils.SendJSONError(w, "Transaction not found", http.StatusNotFound)
			return
		}
		utils.SendJSONError(w, "Failed to delete transaction", http.StatusInternalServerError)
		return
	}
	utils.SendJSON(w, http.StatusOK, map[string]string{"message": "Transaction deleted"})
}
