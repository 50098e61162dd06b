package services

import (
	"database/sql"
	"testing"

	"riftlog/database"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.ConnectMemory()
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func insertMatch(t *testing.T, store *MatchStore, champion, role, result string, kills, deaths, assists int, csPerMin float64) int64 {
	t.Helper()
	id, err := store.Create(&database.Match{
		UserID:       database.DefaultUserID,
		Champion:     champion,
		Role:         role,
		Result:       result,
		Kills:        kills,
		Deaths:       deaths,
		Assists:      assists,
		CSPerMin:     csPerMin,
		GameDuration: 30,
	})
	if err != nil {
		t.Fatalf("failed to insert match: %v", err)
	}
	return id
}

func insertGoal(t *testing.T, store *GoalStore, title, status string) int64 {
	t.Helper()
	id, err := store.Create(&database.Goal{
		UserID: database.DefaultUserID,
		Title:  title,
		Status: status,
	})
	if err != nil {
		t.Fatalf("failed to insert goal: %v", err)
	}
	return id
}

// mistakeID 按名称查找播种的失误类型
func mistakeID(t *testing.T, db *sql.DB, name string) int64 {
	t.Helper()
	var id int64
	if err := db.QueryRow(`SELECT id FROM mistakes WHERE name = ?`, name).Scan(&id); err != nil {
		t.Fatalf("failed to look up mistake %q: %v", name, err)
	}
	return id
}
