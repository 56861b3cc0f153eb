package services

import (
	"testing"
	"time"

	"github.com/username/allrounder/backend/src/models"
	"github.com/username/allrounder/backend/src/storage"
	"github.com/username/allrounder/backend/src/store"
)

func newTestGoalService(t *testing.T) (*GoalService, *store.AppStore) {
	t.Helper()
	appStore := store.New(storage.NewMemoryStore())
	return NewGoalService(appStore), appStore
}

func seedNumericGoal(appStore *store.AppStore, userID int64, target int64) models.Goal {
	return appStore.AddGoal(userID, models.Goal{
		ID:        "g1",
		Type:      models.GoalShort,
		Title:     "비상금 모으기",
		Tasks:     []models.GoalTask{},
		Tracker:   models.GoalTracker{Type: models.TrackerNumeric, Unit: "원", Target: target},
		CreatedAt: time.Now(),
	})
}

func seedChecklistGoal(appStore *store.AppStore, userID int64, tasks []models.GoalTask) models.Goal {
	return appStore.AddGoal(userID, models.Goal{
		ID:        "g2",
		Type:      models.GoalMid,
		Title:     "자격증 취득",
		Tasks:     tasks,
		Tracker:   models.GoalTracker{Type: models.TrackerChecklist},
		CreatedAt: time.Now(),
	})
}

func TestSetNumericProgressDerivesPercent(t *testing.T) {
	t.Parallel()

	svc, appStore := newTestGoalService(t)
	const userID int64 = 1
	seedNumericGoal(appStore, userID, 1000000)

	update, err := svc.SetNumericProgress(userID, "g1", 250000, false)
	if err != nil {
		t.Fatalf("SetNumericProgress: %v", err)
	}
	if update.Goal.Tracker.Current != 250000 || update.Goal.Progress != 25 {
		t.Fatalf("current=%d progress=%d, want 250000/25", update.Goal.Tracker.Current, update.Goal.Progress)
	}
	if update.Celebrated {
		t.Fatal("celebration fired below 100")
	}
}

func TestSetNumericProgressClampsToTarget(t *testing.T) {
	t.Parallel()

	svc, appStore := newTestGoalService(t)
	const userID int64 = 1
	seedNumericGoal(appStore, userID, 1000)

	update, err := svc.SetNumericProgress(userID, "g1", 5000, true)
	if err != nil {
		t.Fatalf("SetNumericProgress: %v", err)
	}
	if update.Goal.Tracker.Current != 1000 || update.Goal.Progress != 100 {
		t.Fatalf("current=%d progress=%d, want clamp to 1000/100", update.Goal.Tracker.Current, update.Goal.Progress)
	}

	update, err = svc.SetNumericProgress(userID, "g1", -400, false)
	if err != nil {
		t.Fatalf("SetNumericProgress: %v", err)
	}
	if update.Goal.Tracker.Current != 600 || update.Goal.Progress != 60 {
		t.Fatalf("current=%d progress=%d, want 600/60 after delta", update.Goal.Tracker.Current, update.Goal.Progress)
	}

	update, err = svc.SetNumericProgress(userID, "g1", -5000, false)
	if err != nil {
		t.Fatalf("SetNumericProgress: %v", err)
	}
	if update.Goal.Tracker.Current != 0 || update.Goal.Progress != 0 {
		t.Fatalf("current=%d progress=%d, want floor at 0/0", update.Goal.Tracker.Current, update.Goal.Progress)
	}
}

func TestCelebrationFiresOnceAt100(t *testing.T) {
	t.Parallel()

	svc, appStore := newTestGoalService(t)
	const userID int64 = 1
	seedNumericGoal(appStore, userID, 100)

	update, err := svc.SetNumericProgress(userID, "g1", 100, true)
	if err != nil {
		t.Fatalf("SetNumericProgress: %v", err)
	}
	if !update.Celebrated {
		t.Fatal("crossing to 100 must celebrate")
	}

	// Already at 100: setting it again stays silent.
	update, err = svc.SetNumericProgress(userID, "g1", 100, true)
	if err != nil {
		t.Fatalf("SetNumericProgress: %v", err)
	}
	if update.Celebrated {
		t.Fatal("celebration must not repeat at 100")
	}

	// Dip below and climb back: it fires again.
	if _, err := svc.SetNumericProgress(userID, "g1", 50, true); err != nil {
		t.Fatalf("SetNumericProgress: %v", err)
	}
	update, err = svc.SetNumericProgress(userID, "g1", 100, true)
	if err != nil {
		t.Fatalf("SetNumericProgress: %v", err)
	}
	if !update.Celebrated {
		t.Fatal("re-crossing to 100 must celebrate again")
	}
}

func TestChecklistProgress(t *testing.T) {
	t.Parallel()

	svc, appStore := newTestGoalService(t)
	const userID int64 = 1
	seedChecklistGoal(appStore, userID, nil)

	update, err := svc.AddTask(userID, "g2", "기출문제 풀기")
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if update.Goal.Progress != 0 {
		t.Fatalf("progress = %d after adding an open task, want 0", update.Goal.Progress)
	}
	taskID := update.Goal.Tasks[0].ID

	if _, err := svc.AddTask(userID, "g2", "접수하기"); err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	update, err = svc.ToggleTask(userID, "g2", taskID)
	if err != nil {
		t.Fatalf("ToggleTask: %v", err)
	}
	if update.Goal.Progress != 50 {
		t.Fatalf("progress = %d with 1 of 2 done, want 50", update.Goal.Progress)
	}

	// Toggling back down reverts the percentage.
	update, err = svc.ToggleTask(userID, "g2", taskID)
	if err != nil {
		t.Fatalf("ToggleTask: %v", err)
	}
	if update.Goal.Progress != 0 {
		t.Fatalf("progress = %d after untoggling, want 0", update.Goal.Progress)
	}
}

func TestChecklistCompletionCelebrates(t *testing.T) {
	t.Parallel()

	svc, appStore := newTestGoalService(t)
	const userID int64 = 1
	seedChecklistGoal(appStore, userID, []models.GoalTask{
		{ID: "t1", Text: "첫번째", Done: true},
		{ID: "t2", Text: "두번째"},
	})

	update, err := svc.ToggleTask(userID, "g2", "t2")
	if err != nil {
		t.Fatalf("ToggleTask: %v", err)
	}
	if update.Goal.Progress != 100 || !update.Celebrated {
		t.Fatalf("progress=%d celebrated=%v, want 100/true", update.Goal.Progress, update.Celebrated)
	}
}

func TestDeleteLastTaskRetainsProgress(t *testing.T) {
	t.Parallel()

	svc, appStore := newTestGoalService(t)
	const userID int64 = 1
	seedChecklistGoal(appStore, userID, []models.GoalTask{
		{ID: "t1", Text: "끝난 일", Done: true},
	})

	// Single done task: 100%.
	update, err := svc.ToggleTask(userID, "g2", "t1")
	if err != nil {
		t.Fatalf("ToggleTask: %v", err)
	}
	update, err = svc.ToggleTask(userID, "g2", "t1")
	if err != nil {
		t.Fatalf("ToggleTask: %v", err)
	}
	if update.Goal.Progress != 100 {
		t.Fatalf("progress = %d, want 100", update.Goal.Progress)
	}

	update, err = svc.DeleteTask(userID, "g2", "t1")
	if err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if len(update.Goal.Tasks) != 0 {
		t.Fatalf("tasks remaining = %d, want 0", len(update.Goal.Tasks))
	}
	if update.Goal.Progress != 100 {
		t.Fatalf("progress = %d after deleting the last task, want retained 100", update.Goal.Progress)
	}
}

func TestSetManualProgressIgnoredWithTasks(t *testing.T) {
	t.Parallel()

	svc, appStore := newTestGoalService(t)
	const userID int64 = 1
	seedChecklistGoal(appStore, userID, []models.GoalTask{
		{ID: "t1", Text: "하나", Done: true},
		{ID: "t2", Text: "둘"},
	})

	update, err := svc.SetManualProgress(userID, "g2", 90)
	if err != nil {
		t.Fatalf("SetManualProgress: %v", err)
	}
	if update.Goal.Progress == 90 {
		t.Fatal("manual progress must not override a checklist")
	}
}

func TestSetManualProgressClamps(t *testing.T) {
	t.Parallel()

	svc, appStore := newTestGoalService(t)
	const userID int64 = 1
	seedChecklistGoal(appStore, userID, nil)

	update, err := svc.SetManualProgress(userID, "g2", 140)
	if err != nil {
		t.Fatalf("SetManualProgress: %v", err)
	}
	if update.Goal.Progress != 100 || !update.Celebrated {
		t.Fatalf("progress=%d celebrated=%v, want clamp to 100 and celebrate", update.Goal.Progress, update.Celebrated)
	}
}

func TestToggleTaskUnknownIDs(t *testing.T) {
	t.Parallel()

	svc, appStore := newTestGoalService(t)
	const userID int64 = 1
	seedChecklistGoal(appStore, userID, nil)

	if _, err := svc.ToggleTask(userID, "missing", "t1"); err != store.ErrGoalNotFound {
		t.Fatalf("unknown goal: err = %v, want ErrGoalNotFound", err)
	}
	if _, err := svc.ToggleTask(userID, "g2", "missing"); err != ErrTaskNotFound {
		t.Fatalf("unknown task: err = %v, want ErrTaskNotFound", err)
	}
}
