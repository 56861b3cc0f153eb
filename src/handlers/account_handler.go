package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/username/allrounder/backend/src/logger"
	"github.com/username/allrounder/backend/src/models"
	"github.com/username/allrounder/backend/src/security/validation"
	"github.com/username/allrounder/backend/src/store"
	"github.com/username/allrounder/backend/src/utils"
)

type AccountHandler struct {
	store *store.AppStore
}

func NewAccountHandler(appStore *store.AppStore) *AccountHandler {
	return &AccountHandler{store: appStore}
}

func (h *AccountHandler) HandleListAccounts(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "User not authenticated", http.StatusUnauthorized)
		return
	}
	utils.SendJSON(w, http.StatusOK, h.store.Accounts(userID))
}

// HandleGetBalances returns the derived per-account balances and their total.
// Balances are never stored; this view replays the ledger on every call.
func (h *AccountHandler) HandleGetBalances(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "User not authenticated", http.StatusUnauthorized)
		return
	}

	balances := h.store.CalculatedBalances(userID)
	var total int64
	for _, v := range balances {
		total += v
	}
	utils.SendJSON(w, http.StatusOK, map[string]interface{}{
		"balances":    balances,
		"totalAssets": total,
	})
}

type accountPayload struct {
	Name           string  `json:"name"`
	Type           string  `json:"type"`
	OpeningBalance int64   `json:"openingBalance"`
	InterestRate   float64 `json:"interestRate"`
	InterestCycle  string  `json:"interestCycle"`
	Ticker         string  `json:"ticker"`
	Holdings       float64 `json:"holdings"`
}

func (h *AccountHandler) HandleCreateAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "User not authenticated", http.StatusUnauthorized)
		return
	}

	var payload accountPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	payload.Name = strings.TrimSpace(validation.StripUnprintable(payload.Name))
	if payload.Name == "" {
		utils.SendJSONError(w, "Account name is required", http.StatusBadRequest)
		return
	}
	if !models.ValidAccountType(payload.Type) {
		utils.SendJSONError(w, "Unknown account type", http.StatusBadRequest)
		return
	}
	if payload.Type == models.AccountSavings && payload.InterestCycle != "" &&
		payload.InterestCycle != models.CycleDaily && payload.InterestCycle != models.CycleMonthly {
		utils.SendJSONError(w, "Unknown interest cycle", http.StatusBadRequest)
		return
	}

	account := models.Account{
		ID:   uuid.NewString(),
		Name: payload.Name,
		Type: payload.Type,
	}
	if payload.Type == models.AccountSavings {
		account.InterestRate = payload.InterestRate
		account.InterestCycle = payload.InterestCycle
	}
	if payload.Type == models.AccountInvestment {
		account.Ticker = strings.TrimSpace(payload.Ticker)
		account.Holdings = payload.Holdings
	}

	created := h.store.AddAccount(userID, account)
	h.store.SeedOpeningBalance(userID, created.ID, payload.OpeningBalance)

	logger.L.Info("Account created", "userID", userID, "accountID", created.ID, "type", created.Type)
	utils.SendJSON(w, http.StatusCreated, created)
}

func (h *AccountHandler) HandleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "User not authenticated", http.StatusUnauthorized)
		return
	}
	accountID := r.PathValue("id")

	var payload accountPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	payload.Name = strings.TrimSpace(validation.StripUnprintable(payload.Name))
	if payload.Name == "" {
		utils.SendJSONError(w, "Account name is required", http.StatusBadRequest)
		return
	}

	updated, err := h.store.UpdateAccount(userID, accountID, models.Account{
		Name:          payload.Name,
		InterestRate:  payload.InterestRate,
		InterestCycle: payload.InterestCycle,
		Ticker:        strings.TrimSpace(payload.Ticker),
		Holdings:      payload.Holdings,
	})
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			utils.SendJSONError(w, "Account not found", http.StatusNotFound)
			return
		}
		utils.SendJSONError(w, "Failed to update account", http.StatusInternalServerError)
		return
	}
	utils.SendJSON(w, http.StatusOK, updated)
}

func (h *AccountHandler) HandleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "User not authenticated", http.StatusUnauthorized)
		return
	}
	accountID := r.PathValue("id")

	if err := h.store.DeleteAccount(userID, accountID); err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			utils.SendJSONError(w, "Account not found", http.StatusNotFound)
			return
		}
		utils.SendJSONError(w, "Failed to delete account", http.StatusInternalServerError)
		return
	}

	logger.L.Info("Account deleted", "userID", userID, "accountID", accountID)
	utils.SendJSON(w, http.StatusOK, map[string]string{"message": "Account deleted"})
}
