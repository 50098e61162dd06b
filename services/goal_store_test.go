package services

import (
	"errors"
	"testing"
	"time"

	"riftlog/database"
)

func TestGoalCreateDefaultsToActive(t *testing.T) {
	db := newTestDB(t)
	store := NewGoalStore(db)

	id, err := store.Create(&database.Goal{
		UserID: database.DefaultUserID,
		Title:  "Improve CS to 7/min",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	g, err := store.FindByID(id, database.DefaultUserID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if g.Status != database.GoalActive {
		t.Errorf("expected default status active, got %q", g.Status)
	}
	if g.CompletedAt != nil {
		t.Errorf("expected nil completed_at, got %v", g.CompletedAt)
	}
	if g.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}
}

func TestGoalFindAllStatusFilter(t *testing.T) {
	db := newTestDB(t)
	store := NewGoalStore(db)

	insertGoal(t, store, "Ward more", database.GoalActive)
	insertGoal(t, store, "Stop tilting", database.GoalActive)
	insertGoal(t, store, "Reach gold", database.GoalCompleted)
	insertGoal(t, store, "Learn Yasuo", database.GoalFailed)

	all, err := store.FindAll(database.DefaultUserID, "")
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if len(all) != 4 {
		t.Errorf("expected 4 goals, got %d", len(all))
	}

	active, err := store.FindAll(database.DefaultUserID, database.GoalActive)
	if err != nil {
		t.Fatalf("FindAll active: %v", err)
	}
	if len(active) != 2 {
		t.Errorf("expected 2 active goals, got %d", len(active))
	}
	for _, g := range active {
		if g.Status != database.GoalActive {
			t.Errorf("filter leaked status %q", g.Status)
		}
	}

	failed, err := store.FindAll(database.DefaultUserID, database.GoalFailed)
	if err != nil {
		t.Fatalf("FindAll failed: %v", err)
	}
	if len(failed) != 1 || failed[0].Title != "Learn Yasuo" {
		t.Errorf("unexpected failed goals: %v", failed)
	}
}

func TestGoalUpdateStampsCompletedAt(t *testing.T) {
	db := newTestDB(t)
	store := NewGoalStore(db)

	id := insertGoal(t, store, "Reach gold", database.GoalActive)

	before := time.Now().UTC().Add(-time.Second)
	err := store.Update(id, &database.Goal{
		Title:  "Reach gold",
		Status: database.GoalCompleted,
	}, database.DefaultUserID)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	g, err := store.FindByID(id, database.DefaultUserID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if g.CompletedAt == nil {
		t.Fatal("expected completed_at to be stamped")
	}
	if g.CompletedAt.Before(before) {
		t.Errorf("completed_at %v is stale", g.CompletedAt)
	}

	// 回到 active 清除完成时间
	err = store.Update(id, &database.Goal{
		Title:  "Reach gold",
		Status: database.GoalActive,
	}, database.DefaultUserID)
	if err != nil {
		t.Fatalf("Update back to active: %v", err)
	}
	g, err = store.FindByID(id, database.DefaultUserID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if g.CompletedAt != nil {
		t.Errorf("expected completed_at cleared, got %v", g.CompletedAt)
	}
}

func TestGoalUpdateKeepsSuppliedCompletedAt(t *testing.T) {
	db := newTestDB(t)
	store := NewGoalStore(db)

	id := insertGoal(t, store, "Reach gold", database.GoalActive)
	supplied := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	err := store.Update(id, &database.Goal{
		Title:       "Reach gold",
		Status:      database.GoalCompleted,
		CompletedAt: &supplied,
	}, database.DefaultUserID)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	g, err := store.FindByID(id, database.DefaultUserID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if g.CompletedAt == nil || !g.CompletedAt.Equal(supplied) {
		t.Errorf("expected supplied completed_at %v, got %v", supplied, g.CompletedAt)
	}
}

func TestGoalLinkMatchIdempotent(t *testing.T) {
	db := newTestDB(t)
	store := NewGoalStore(db)
	matches := NewMatchStore(db)

	goalID := insertGoal(t, store, "Improve CS", database.GoalActive)
	matchID := insertMatch(t, matches, "Ahri", "mid", database.ResultWin, 5, 2, 6, 7.5)

	if err := store.LinkMatch(goalID, matchID); err != nil {
		t.Fatalf("LinkMatch: %v", err)
	}
	if err := store.LinkMatch(goalID, matchID); err != nil {
		t.Fatalf("LinkMatch repeat: %v", err)
	}

	ids, err := store.LinkedMatchIDs(goalID)
	if err != nil {
		t.Fatalf("LinkedMatchIDs: %v", err)
	}
	if len(ids) != 1 || ids[0] != matchID {
		t.Errorf("expected single link to %d, got %v", matchID, ids)
	}
}

func TestGoalDeleteRemovesLinks(t *testing.T) {
	db := newTestDB(t)
	store := NewGoalStore(db)
	matches := NewMatchStore(db)

	goalID := insertGoal(t, store, "Improve CS", database.GoalActive)
	matchID := insertMatch(t, matches, "Ahri", "mid", database.ResultWin, 5, 2, 6, 7.5)
	if err := store.LinkMatch(goalID, matchID); err != nil {
		t.Fatalf("LinkMatch: %v", err)
	}

	if err := store.Delete(goalID, database.DefaultUserID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := store.FindByID(goalID, database.DefaultUserID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	var links int
	if err := db.QueryRow(`SELECT COUNT(*) FROM goal_matches WHERE goal_id = ?`, goalID).Scan(&links); err != nil {
		t.Fatalf("count links: %v", err)
	}
	if links != 0 {
		t.Errorf("expected links removed, found %d", links)
	}

	// 关联的对局本体不受影响
	if _, err := matches.FindByID(matchID, database.DefaultUserID); err != nil {
		t.Errorf("expected match to survive goal delete, got %v", err)
	}
}

func TestGoalDeleteNotFound(t *testing.T) {
	db := newTestDB(t)
	store := NewGoalStore(db)

	if err := store.Delete(77, database.DefaultUserID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
