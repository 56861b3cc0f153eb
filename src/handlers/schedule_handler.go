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

type ScheduleHandler struct {
	store *store.AppStore
}

func NewScheduleHandler(appStore *store.AppStore) *ScheduleHandler {
	return &ScheduleHandler{store: appStore}
}

func (h *ScheduleHandler) HandleListSchedules(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "User not authenticated", http.StatusUnauthorized)
		return
	}
	utils.SendJSON(w, http.StatusOK, h.store.Schedules(userID))
}

type schedulePayload struct {
	Date     string `json:"date"`
	Time     string `json:"time"`
	EndTime  string `json:"endTime"`
	Location string `json:"location"`
	Category string `json:"category"`
	Title    string `json:"title"`
	Memo     string `json:"memo"`

	Repeat      bool   `json:"repeat"`
	RepeatCycle string `json:"repeatCycle"`
	RepeatCount string `json:"repeatCount"`
}

func (h *ScheduleHandler) HandleCreateSchedule(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "User not authenticated", http.StatusUnauthorized)
		return
	}

	var payload schedulePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	payload.Title = strings.TrimSpace(validation.StripUnprintable(payload.Title))
	payload.Memo = strings.TrimSpace(validation.StripUnprintable(payload.Memo))
	if payload.Title == "" {
		utils.SendJSONError(w, "Title is required", http.StatusBadRequest)
		return
	}
	if utils.ParseDate(payload.Date).IsZero() {
		utils.SendJSONError(w, "Invalid date", http.StatusBadRequest)
		return
	}

	template := models.Schedule{
		ID:        uuid.NewString(),
		Date:      payload.Date,
		Time:      payload.Time,
		EndTime:   payload.EndTime,
		Location:  payload.Location,
		Category:  payload.Category,
		Title:     payload.Title,
		Memo:      payload.Memo,
		CreatedAt: time.Now(),
	}

	created := []models.Schedule{template}
	if payload.Repeat {
		cadence := recurrence.Cadence(payload.RepeatCycle)
		if !recurrence.ValidCadence(cadence) {
			utils.SendJSONError(w, "Unknown repeat cycle", http.StatusBadRequest)
			return
		}
		count := recurrence.NormalizeCountString(payload.RepeatCount)
		created = recurrence.ExpandSchedule(template, count, cadence)
	}

	h.store.AppendSchedules(userID, created)
	logger.L.Info("Schedules recorded", "userID", userID, "count", len(created))
	utils.SendJSON(w, http.StatusCreated, created)
}

// HandleToggleSchedule flips one entry's completed flag.
func (h *ScheduleHandler) HandleToggleSchedule(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "User not authenticated", http.StatusUnauthorized)
		return
	}

	schedule, err := h.store.ToggleSchedule(userID, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrScheduleNotFound) {
			utils.SendJSONError(w, "Schedule not found", http.StatusNotFound)
			return
		}
		utils.SendJSONError(w, "Failed to toggle schedule", http.StatusInternalServerError)
		return
	}
	utils.SendJSON(w, http.StatusOK, schedule)
}

func (h *ScheduleHandler) HandleUpdateSchedule(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "User not authenticated", http.StatusUnauthorized)
		return
	}

	var payload struct {
		Title string `json:"title"`
		Memo  string `json:"memo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	payload.Title = strings.TrimSpace(validation.StripUnprintable(payload.Title))
	if payload.Title == "" {
		utils.SendJSONError(w, "Title is required", http.StatusBadRequest)
		return
	}

	schedule, err := h.store.UpdateSchedule(userID, r.PathValue("id"), payload.Title, strings.TrimSpace(validation.StripUnprintable(payload.Memo)))
	if err != nil {
		if errors.Is(err, store.ErrScheduleNotFound) {
			utils.SendJSONError(w, "Schedule not found", http.StatusNotFound)
			return
		}
		utils.SendJSONError(w, "Failed to update schedule", http.StatusInternalServerError)
		return
	}
	utils.SendJSON(w, http.StatusOK, schedule)
}

func (h *ScheduleHandler) HandleDeleteSchedule(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "User not authenticated", http.StatusUnauthorized)
		return
	}

	if err := h.store.DeleteSchedule(userID, r.PathValue("id")); err != nil {
		if errors.Is(err, store.ErrScheduleNotFound) {
			utils.SendJSONError(w, "Schedule not found", http.StatusNotFound)
			return
		}
		utils.SendJSONError(w, "Failed to delete schedule", http.StatusInternalServerError)
		return
	}
	utils.SendJSON(w, http.StatusOK, map[string]string{"message": "Schedule deleted"})
}
