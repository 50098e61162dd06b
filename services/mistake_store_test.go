package services

import (
	"database/sql"
	"testing"

	"riftlog/database"
)

func TestMistakeListSeeded(t *testing.T) {
	db := newTestDB(t)
	store := NewMistakeStore(db)

	mistakes, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(mistakes) != len(database.DefaultMistakes) {
		t.Fatalf("expected %d seeded mistakes, got %d", len(database.DefaultMistakes), len(mistakes))
	}

	// 按名称排序
	for i := 1; i < len(mistakes); i++ {
		if mistakes[i-1].Name > mistakes[i].Name {
			t.Errorf("list not sorted: %q before %q", mistakes[i-1].Name, mistakes[i].Name)
		}
	}

	names := map[string]bool{}
	for _, m := range mistakes {
		names[m.Name] = true
	}
	if !names["Overextending"] || !names["Map Awareness"] {
		t.Errorf("seeded catalog incomplete: %v", names)
	}
}

func TestMistakeSeedIdempotent(t *testing.T) {
	db := newTestDB(t)
	store := NewMistakeStore(db)

	// 重复迁移不产生重复条目
	if err := database.Migrate(db); err != nil {
		t.Fatalf("second migrate: %v", err)
	}

	mistakes, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(mistakes) != len(database.DefaultMistakes) {
		t.Errorf("expected %d mistakes after reseed, got %d", len(database.DefaultMistakes), len(mistakes))
	}
}

func TestMistakeStatsFrequency(t *testing.T) {
	db := newTestDB(t)
	store := NewMistakeStore(db)
	matches := NewMatchStore(db)

	overextend := mistakeID(t, db, "Overextending")
	vision := mistakeID(t, db, "Poor Vision Control")

	// Overextending 两场，Poor Vision Control 一场
	m1 := insertMatch(t, matches, "Ahri", "mid", database.ResultLoss, 2, 7, 3, 5.5)
	m2 := insertMatch(t, matches, "Zed", "mid", database.ResultLoss, 1, 8, 2, 5.0)
	if err := matches.ReplaceMistakes(m1, []int64{overextend, vision}); err != nil {
		t.Fatalf("ReplaceMistakes: %v", err)
	}
	if err := matches.ReplaceMistakes(m2, []int64{overextend}); err != nil {
		t.Fatalf("ReplaceMistakes: %v", err)
	}

	stats, err := store.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	// 零次使用的条目不出现
	if len(stats) != 2 {
		t.Fatalf("expected 2 entries, got %d: %v", len(stats), stats)
	}
	if stats[0].Name != "Overextending" || stats[0].Frequency != 2 {
		t.Errorf("expected Overextending x2 first, got %+v", stats[0])
	}
	if stats[1].Name != "Poor Vision Control" || stats[1].Frequency != 1 {
		t.Errorf("expected Poor Vision Control x1, got %+v", stats[1])
	}
}

func TestMistakeStatsEmpty(t *testing.T) {
	db := newTestDB(t)
	store := NewMistakeStore(db)

	stats, err := store.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if len(stats) != 0 {
		t.Errorf("expected empty stats, got %v", stats)
	}
}

// insertOrphanLinks 制造指向不存在对局的关联行，模拟历史遗留数据。
// 外键开启时无法直接插入，临时关闭再恢复。
func insertOrphanLinks(t *testing.T, db *sql.DB, mistakeIDs ...int64) {
	t.Helper()
	if _, err := db.Exec(`PRAGMA foreign_keys=OFF`); err != nil {
		t.Fatalf("disable foreign keys: %v", err)
	}
	for _, id := range mistakeIDs {
		if _, err := db.Exec(`INSERT INTO match_mistakes (match_id, mistake_id) VALUES (99999, ?)`, id); err != nil {
			t.Fatalf("insert orphan link: %v", err)
		}
	}
	if _, err := db.Exec(`PRAGMA foreign_keys=ON`); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
}

func TestMistakeStatsIgnoresOrphanLinks(t *testing.T) {
	db := newTestDB(t)
	store := NewMistakeStore(db)

	insertOrphanLinks(t, db, mistakeID(t, db, "Overextending"))

	stats, err := store.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if len(stats) != 0 {
		t.Errorf("expected orphan links excluded from counts, got %v", stats)
	}

	var links int
	if err := db.QueryRow(`SELECT COUNT(*) FROM match_mistakes`).Scan(&links); err != nil {
		t.Fatalf("count links: %v", err)
	}
	if links != 0 {
		t.Errorf("expected orphan links repaired, found %d", links)
	}
}

func TestRepairOrphanLinksCount(t *testing.T) {
	db := newTestDB(t)
	store := NewMistakeStore(db)

	insertOrphanLinks(t, db,
		mistakeID(t, db, "Overextending"),
		mistakeID(t, db, "Poor Vision Control"),
	)

	removed, err := store.RepairOrphanLinks()
	if err != nil {
		t.Fatalf("RepairOrphanLinks: %v", err)
	}
	if removed != 2 {
		t.Errorf("expected 2 orphan links removed, got %d", removed)
	}

	// 再次执行为空操作
	removed, err = store.RepairOrphanLinks()
	if err != nil {
		t.Fatalf("RepairOrphanLinks repeat: %v", err)
	}
	if removed != 0 {
		t.Errorf("expected 0 on repeat, got %d", removed)
	}
}
