package services

import (
	"errors"
	"math"

	"github.com/google/uuid"
	"github.com/username/allrounder/backend/src/models"
	"github.com/username/allrounder/backend/src/store"
	"github.com/username/allrounder/backend/src/utils"
)

var ErrTaskNotFound = errors.New("goal task not found")

// GoalUpdate is the result of a progress-changing operation. Celebrated is
// set exactly on the call that moves a goal from below 100 to 100; repeating
// the operation at 100 does not re-trigger it.
type GoalUpdate struct {
	Goal       models.Goal `json:"goal"`
	Celebrated bool        `json:"celebrated"`
}

// GoalService derives goal progress from trackers and checklists. All reads
// and writes go through the shared state store.
type GoalService struct {
	store *store.AppStore
}

func NewGoalService(appStore *store.AppStore) *GoalService {
	return &GoalService{store: appStore}
}

// SetNumericProgress moves a numeric tracker, either to an absolute value or
// by a signed delta, and re-derives the percentage. The tracked value is
// clamped to [0, target].
func (s *GoalService) SetNumericProgress(userID int64, goalID string, value int64, absolute bool) (GoalUpdate, error) {
	goal, err := s.store.GetGoal(userID, goalID)
	if err != nil {
		return GoalUpdate{}, err
	}
	if goal.Tracker.Type != models.TrackerNumeric || goal.Tracker.Target <= 0 {
		return GoalUpdate{}, store.ErrGoalNotFound
	}

	before := goal.Progress
	current := goal.Tracker.Current + value
	if absolute {
		current = value
	}
	goal.Tracker.Current = utils.ClampInt64(current, 0, goal.Tracker.Target)
	goal.Progress = percentOf(goal.Tracker.Current, goal.Tracker.Target)

	return s.save(userID, goal, before)
}

// SetManualProgress sets the free-standing percentage directly. It only
// applies to goals without checklist items; once tasks exist they own the
// percentage.
func (s *GoalService) SetManualProgress(userID int64, goalID string, progress int) (GoalUpdate, error) {
	goal, err := s.store.GetGoal(userID, goalID)
	if err != nil {
		return GoalUpdate{}, err
	}
	if goal.Tracker.Type == models.TrackerNumeric || len(goal.Tasks) > 0 {
		return GoalUpdate{Goal: goal}, nil
	}

	before := goal.Progress
	goal.Progress = int(utils.ClampInt64(int64(progress), 0, 100))
	return s.save(userID, goal, before)
}

// AddTask appends a checklist item and re-derives progress from the
// done/total ratio.
func (s *GoalService) AddTask(userID int64, goalID, text string) (GoalUpdate, error) {
	goal, err := s.store.GetGoal(userID, goalID)
	if err != nil {
		return GoalUpdate{}, err
	}

	before := goal.Progress
	goal.Tasks = append(goal.Tasks, models.GoalTask{ID: uuid.NewString(), Text: text})
	goal.Progress = checklistPercent(goal.Tasks)
	return s.save(userID, goal, before)
}

// ToggleTask flips one checklist item and re-derives progress.
func (s *GoalService) ToggleTask(userID int64, goalID, taskID string) (GoalUpdate, error) {
	goal, err := s.store.GetGoal(userID, goalID)
	if err != nil {
		return GoalUpdate{}, err
	}

	found := false
	for i, task := range goal.Tasks {
		if task.ID == taskID {
			goal.Tasks[i].Done = !task.Done
			found = true
			break
		}
	}
	if !found {
		return GoalUpdate{}, ErrTaskNotFound
	}

	before := goal.Progress
	goal.Progress = checklistPercent(goal.Tasks)
	return s.save(userID, goal, before)
}

// DeleteTask removes one checklist item. When the last item goes, the goal
// keeps its previous percentage instead of snapping back to zero.
func (s *GoalService) DeleteTask(userID int64, goalID, taskID string) (GoalUpdate, error) {
	goal, err := s.store.GetGoal(userID, goalID)
	if err != nil {
		return GoalUpdate{}, err
	}

	found := false
	for i, task := range goal.Tasks {
		if task.ID == taskID {
			goal.Tasks = append(goal.Tasks[:i], goal.Tasks[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return GoalUpdate{}, ErrTaskNotFound
	}

	before := goal.Progress
	if len(goal.Tasks) > 0 {
		goal.Progress = checklistPercent(goal.Tasks)
	}
	return s.save(userID, goal, before)
}

func (s *GoalService) save(userID int64, goal models.Goal, before int) (GoalUpdate, error) {
	saved, err := s.store.SaveGoal(userID, goal)
	if err != nil {
		return GoalUpdate{}, err
	}
	return GoalUpdate{Goal: saved, Celebrated: before < 100 && saved.Progress == 100}, nil
}

func checklistPercent(tasks []models.GoalTask) int {
	if len(tasks) == 0 {
		return 0
	}
	done := 0
	for _, task := range tasks {
		if task.Done {
			done++
		}
	}
	return percentOf(int64(done), int64(len(tasks)))
}

func percentOf(current, target int64) int {
	pct := int(math.Round(float64(current) / float64(target) * 100))
	if pct > 100 {
		pct = 100
	}
	if pct < 0 {
		pct = 0
	}
	return pct
}
