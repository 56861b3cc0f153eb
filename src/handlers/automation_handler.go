package handlers

import (
	"net/http"
	"time"

	"github.com/username/allrounder/backend/src/services"
	"github.com/username/allrounder/backend/src/utils"
)

// AutomationHandler exposes an on-demand trigger for the daily asset pass.
// Normal operation relies on the startup sweep; this endpoint exists so a
// client can force a catch-up run without restarting the server.
type AutomationHandler struct {
	automation *services.AutomationService
}

func NewAutomationHandler(automation *services.AutomationService) *AutomationHandler {
	return &AutomationHandler{automation: automation}
}

func (h *AutomationHandler) HandleRunNow(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "User not authenticated", http.StatusUnauthorized)
		return
	}

	result := h.automation.RunDaily(r.Context(), userID, time.Now())
	utils.SendJSON(w, http.StatusOK, result)
}
