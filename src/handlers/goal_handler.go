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
	"github.com/username/allrounder/backend/src/security/validation"
	"github.com/username/allrounder/backend/src/services"
	"github.com/username/allrounder/backend/src/store"
	"github.com/username/allrounder/backend/src/utils"
)

type GoalHandler struct {
	store   *store.AppStore
	service *services.GoalService
}

func NewGoalHandler(appStore *store.AppStore, service *services.GoalService) *GoalHandler {
	return &GoalHandler{store: appStore, service: service}
}

func (h *GoalHandler) HandleListGoals(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "User not authenticated", http.StatusUnauthorized)
		return
	}
	utils.SendJSON(w, http.StatusOK, h.store.Goals(userID))
}

type goalPayload struct {
	Type      string             `json:"type"`
	Title     string             `json:"title"`
	Deadline  string             `json:"deadline"`
	Icon      string             `json:"icon"`
	ColorFrom string             `json:"colorFrom"`
	ColorTo   string             `json:"colorTo"`
	Memo      string             `json:"memo"`
	Tracker   models.GoalTracker `json:"tracker"`
}

func (h *GoalHandler) HandleCreateGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "User not authenticated", http.StatusUnauthorized)
		return
	}

	var payload goalPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	payload.Title = strings.TrimSpace(validation.StripUnprintable(payload.Title))
	if payload.Title == "" {
		utils.SendJSONError(w, "Title is required", http.StatusBadRequest)
		return
	}
	if !models.ValidGoalType(payload.Type) {
		utils.SendJSONError(w, "Unknown goal type", http.StatusBadRequest)
		return
	}
	if payload.Tracker.Type == models.TrackerNumeric && payload.Tracker.Target <= 0 {
		utils.SendJSONError(w, "Numeric tracker needs a positive target", http.StatusBadRequest)
		return
	}

	goal := models.Goal{
		ID:        uuid.NewString(),
		Type:      payload.Type,
		Title:     payload.Title,
		Deadline:  payload.Deadline,
		Icon:      payload.Icon,
		ColorFrom: payload.ColorFrom,
		ColorTo:   payload.ColorTo,
		Memo:      payload.Memo,
		Tasks:     []models.GoalTask{},
		Tracker:   payload.Tracker,
		CreatedAt: time.Now(),
	}
	created := h.store.AddGoal(userID, goal)
	logger.L.Info("Goal created", "userID", userID, "goalID", created.ID, "type", created.Type)
	utils.SendJSON(w, http.StatusCreated, created)
}

// HandleUpdateGoal overwrites the descriptive fields of one goal. Progress,
// tasks and the tracker are owned by the progress endpoints.
func (h *GoalHandler) HandleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "User not authenticated", http.StatusUnauthorized)
		return
	}

	goal, err := h.store.GetGoal(userID, r.PathValue("id"))
	if err != nil {
		utils.SendJSONError(w, "Goal not found", http.StatusNotFound)
		return
	}

	var payload goalPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	payload.Title = strings.TrimSpace(validation.StripUnprintable(payload.Title))
	if payload.Title != "" {
		goal.Title = payload.Title
	}
	goal.Deadline = payload.Deadline
	goal.Icon = payload.Icon
	goal.ColorFrom = payload.ColorFrom
	goal.ColorTo = payload.ColorTo
	goal.Memo = payload.Memo

	saved, err := h.store.SaveGoal(userID, goal)
	if err != nil {
		utils.SendJSONError(w, "Failed to update goal", http.StatusInternalServerError)
		return
	}
	utils.SendJSON(w, http.StatusOK, saved)
}

func (h *GoalHandler) HandleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "User not authenticated", http.StatusUnauthorized)
		return
	}

	if err := h.store.DeleteGoal(userID, r.PathValue("id")); err != nil {
		if errors.Is(err, store.ErrGoalNotFound) {
			utils.SendJSONError(w, "Goal not found", http.StatusNotFound)
			return
		}
		utils.SendJSONError(w, "Failed to delete goal", http.StatusInternalServerError)
		return
	}
	utils.SendJSON(w, http.StatusOK, map[string]string{"message": "Goal deleted"})
}

// HandleSetProgress moves a goal's progress. Numeric trackers take a value
// (absolute or delta); checklist-free goals take a direct percentage.
func (h *GoalHandler) HandleSetProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "User not authenticated", http.StatusUnauthorized)
		return
	}

	var payload struct {
		Value    *int64 `json:"value"`
		Absolute bool   `json:"absolute"`
		Percent  *int   `json:"percent"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var (
		update services.GoalUpdate
		err    error
	)
	switch {
	case payload.Value != nil:
		update, err = h.service.SetNumericProgress(userID, r.PathValue("id"), *payload.Value, payload.Absolute)
	case payload.Percent != nil:
		update, err = h.service.SetManualProgress(userID, r.PathValue("id"), *payload.Percent)
	default:
		utils.SendJSONError(w, "Either value or percent is required", http.StatusBadRequest)
		return
	}
	if err != nil {
		if errors.Is(err, store.ErrGoalNotFound) {
			utils.SendJSONError(w, "Goal not found", http.StatusNotFound)
			return
		}
		utils.SendJSONError(w, "Failed to update progress", http.StatusInternalServerError)
		return
	}
	utils.SendJSON(w, http.StatusOK, update)
}

func (h *GoalHandler) HandleAddTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "User not authenticated", http.StatusUnauthorized)
		return
	}

	var payload struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	payload.Text = strings.TrimSpace(validation.StripUnprintable(payload.Text))
	if payload.Text == "" {
		utils.SendJSONError(w, "Task text is required", http.StatusBadRequest)
		return
	}

	update, err := h.service.AddTask(userID, r.PathValue("id"), payload.Text)
	if err != nil {
		if errors.Is(err, store.ErrGoalNotFound) {
			utils.SendJSONError(w, "Goal not found", http.StatusNotFound)
			return
		}
		utils.SendJSONError(w, "Failed to add task", http.StatusInternalServerError)
		return
	}
	utils.SendJSON(w, http.StatusCreated, update)
}

func (h *GoalHandler) HandleToggleTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "User not authenticated", http.StatusUnauthorized)
		return
	}

	update, err := h.service.ToggleTask(userID, r.PathValue("id"), r.PathValue("taskId"))
	if err != nil {
		h.sendTaskError(w, err)
		return
	}
	utils.SendJSON(w, http.StatusOK, update)
}

func (h *GoalHandler) HandleDeleteTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "User not authenticated", http.StatusUnauthorized)
		return
	}

	update, err := h.service.DeleteTask(userID, r.PathValue("id"), r.PathValue("taskId"))
	if err != nil {
		h.sendTaskError(w, err)
		return
	}
	utils.SendJSON(w, http.StatusOK, update)
}

func (h *GoalHandler) sendTaskError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrGoalNotFound):
		utils.SendJSONError(w, "Goal not found", http.StatusNotFound)
	case errors.Is(err, services.ErrTaskNotFound):
		utils.SendJSONError(w, "Task not found", http.StatusNotFound)
	default:
		utils.SendJSONError(w, "Failed to update task", http.StatusInternalServerError)
	}
}
