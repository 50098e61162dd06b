package services

import (
	"testing"

	"riftlog/database"
)

func TestStatsEmpty(t *testing.T) {
	db := newTestDB(t)
	store := NewMatchStore(db)

	stats, err := store.Stats(database.DefaultUserID)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}

	if stats.Overall.TotalGames != 0 {
		t.Errorf("expected 0 games, got %d", stats.Overall.TotalGames)
	}
	// 零场时比率守护分母，返回格式化零值而不是除零
	if stats.Overall.WinRate != "0.0" {
		t.Errorf("expected win rate \"0.0\", got %q", stats.Overall.WinRate)
	}
	if stats.Overall.AvgCSPerMin != "0.00" {
		t.Errorf("expected avg cs \"0.00\", got %q", stats.Overall.AvgCSPerMin)
	}
	if stats.Overall.AvgKills != "0.0" {
		t.Errorf("expected avg kills \"0.0\", got %q", stats.Overall.AvgKills)
	}
	if len(stats.ByChampion) != 0 || len(stats.ByRole) != 0 {
		t.Errorf("expected empty groupings, got %+v", stats)
	}
	if stats.RecentPerformance.Last10.WinRate != "0.0" {
		t.Errorf("expected empty window win rate \"0.0\", got %q", stats.RecentPerformance.Last10.WinRate)
	}
}

func TestStatsAggregation(t *testing.T) {
	db := newTestDB(t)
	store := NewMatchStore(db)

	// Ahri: 2胜1负, Zed: 0胜1负
	insertMatch(t, store, "Ahri", "mid", database.ResultWin, 10, 2, 8, 8.0)
	insertMatch(t, store, "Ahri", "mid", database.ResultWin, 6, 4, 10, 7.0)
	insertMatch(t, store, "Ahri", "mid", database.ResultLoss, 2, 6, 4, 6.0)
	insertMatch(t, store, "Zed", "mid", database.ResultLoss, 4, 8, 2, 6.5)

	stats, err := store.Stats(database.DefaultUserID)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}

	overall := stats.Overall
	if overall.TotalGames != 4 || overall.Wins != 2 || overall.Losses != 2 {
		t.Errorf("unexpected overall counts: %+v", overall)
	}
	if overall.WinRate != "50.0" {
		t.Errorf("expected win rate \"50.0\", got %q", overall.WinRate)
	}
	if overall.AvgKills != "5.5" {
		t.Errorf("expected avg kills \"5.5\", got %q", overall.AvgKills)
	}
	if overall.AvgDeaths != "5.0" {
		t.Errorf("expected avg deaths \"5.0\", got %q", overall.AvgDeaths)
	}
	if overall.AvgAssists != "6.0" {
		t.Errorf("expected avg assists \"6.0\", got %q", overall.AvgAssists)
	}
	// (8.0+7.0+6.0+6.5)/4 = 6.875
	if overall.AvgCSPerMin != "6.88" {
		t.Errorf("expected avg cs \"6.88\", got %q", overall.AvgCSPerMin)
	}

	if len(stats.ByChampion) != 2 {
		t.Fatalf("expected 2 champions, got %d", len(stats.ByChampion))
	}
	// 场次多者在前
	ahri := stats.ByChampion[0]
	if ahri.Champion != "Ahri" {
		t.Fatalf("expected Ahri first, got %q", ahri.Champion)
	}
	if ahri.Games != 3 || ahri.Wins != 2 || ahri.Losses != 1 {
		t.Errorf("unexpected Ahri counts: %+v", ahri)
	}
	if ahri.WinRate != "66.7" {
		t.Errorf("expected Ahri win rate \"66.7\", got %q", ahri.WinRate)
	}
	// (10+6+2)/3=6.0, (2+4+6)/3=4.0, (8+10+4)/3=7.3
	if ahri.AvgKDA != "6.0/4.0/7.3" {
		t.Errorf("expected Ahri KDA \"6.0/4.0/7.3\", got %q", ahri.AvgKDA)
	}
	if ahri.AvgCSPerMin != "7.00" {
		t.Errorf("expected Ahri avg cs \"7.00\", got %q", ahri.AvgCSPerMin)
	}

	zed := stats.ByChampion[1]
	if zed.Games != 1 || zed.WinRate != "0.0" {
		t.Errorf("unexpected Zed stats: %+v", zed)
	}

	if len(stats.ByRole) != 1 {
		t.Fatalf("expected 1 role, got %d", len(stats.ByRole))
	}
	mid := stats.ByRole[0]
	if mid.Role != "mid" || mid.Games != 4 || mid.WinRate != "50.0" {
		t.Errorf("unexpected mid stats: %+v", mid)
	}
}

func TestStatsRecentWindows(t *testing.T) {
	db := newTestDB(t)
	store := NewMatchStore(db)

	// 最旧5场全负，最新10场全胜：last10应只看到胜场
	for i := 0; i < 5; i++ {
		insertMatch(t, store, "Zed", "mid", database.ResultLoss, 2, 6, 2, 5.0)
	}
	for i := 0; i < 10; i++ {
		insertMatch(t, store, "Ahri", "mid", database.ResultWin, 8, 2, 6, 8.0)
	}

	stats, err := store.Stats(database.DefaultUserID)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}

	last10 := stats.RecentPerformance.Last10
	if last10.Games != 10 || last10.Wins != 10 {
		t.Errorf("unexpected last10 counts: %+v", last10)
	}
	if last10.WinRate != "100.0" {
		t.Errorf("expected last10 win rate \"100.0\", got %q", last10.WinRate)
	}
	if last10.AvgCSPerMin != "8.00" {
		t.Errorf("expected last10 avg cs \"8.00\", got %q", last10.AvgCSPerMin)
	}

	// 不足30场时窗口取全部
	last30 := stats.RecentPerformance.Last30
	if last30.Games != 15 || last30.Wins != 10 {
		t.Errorf("unexpected last30 counts: %+v", last30)
	}
	// 10/15 = 66.666...
	if last30.WinRate != "66.7" {
		t.Errorf("expected last30 win rate \"66.7\", got %q", last30.WinRate)
	}
}

func TestFormatHelpers(t *testing.T) {
	if got := formatWinRate(1, 3); got != "33.3" {
		t.Errorf("formatWinRate(1,3) = %q", got)
	}
	if got := formatWinRate(0, 0); got != "0.0" {
		t.Errorf("formatWinRate(0,0) = %q", got)
	}
	if got := formatAvg2(0, 0); got != "0.00" {
		t.Errorf("formatAvg2(0,0) = %q", got)
	}
	if got := formatAvg2(13.75, 2); got != "6.88" {
		t.Errorf("formatAvg2(13.75,2) = %q", got)
	}
	if got := formatKDA(10, 4, 7, 2); got != "5.0/2.0/3.5" {
		t.Errorf("formatKDA = %q", got)
	}
	if got := formatKDA(0, 0, 0, 0); got != "0.0/0.0/0.0" {
		t.Errorf("formatKDA empty = %q", got)
	}
}
