package services

import (
	"fmt"
)

// MatchStats 复合统计对象，字段命名与前端约定一致
type MatchStats struct {
	Overall           OverallStats      `json:"overall"`
	ByChampion        []ChampionStats   `json:"byChampion"`
	ByRole            []RoleStats       `json:"byRole"`
	RecentPerformance RecentPerformance `json:"recentPerformance"`
}

// OverallStats 全量统计
type OverallStats struct {
	TotalGames int    `json:"totalGames"`
	Wins       int    `json:"wins"`
	Losses     int    `json:"losses"`
	WinRate    string `json:"winRate"`
	AvgKills   string `json:"avgKills"`
	AvgDeaths  string `json:"avgDeaths"`
	AvgAssists string `json:"avgAssists"`
	AvgCSPerMin string `json:"avgCSPerMin"`
}

// ChampionStats 按英雄分组统计
type ChampionStats struct {
	Champion    string `json:"champion"`
	Games       int    `json:"games"`
	Wins        int    `json:"wins"`
	Losses      int    `json:"losses"`
	WinRate     string `json:"winRate"`
	AvgKDA      string `json:"avgKDA"`
	AvgCSPerMin string `json:"avgCSPerMin"`
}

// RoleStats 按位置分组统计(不含KDA)
type RoleStats struct {
	Role        string `json:"role"`
	Games       int    `json:"games"`
	Wins        int    `json:"wins"`
	Losses      int    `json:"losses"`
	WinRate     string `json:"winRate"`
	AvgCSPerMin string `json:"avgCSPerMin"`
}

// WindowStats 最近N场滑动窗口统计
type WindowStats struct {
	Games       int    `json:"games"`
	Wins        int    `json:"wins"`
	WinRate     string `json:"winRate"`
	AvgCSPerMin string `json:"avgCSPerMin"`
}

// RecentPerformance 最近10场/30场表现
type RecentPerformance struct {
	Last10 WindowStats `json:"last10"`
	Last30 WindowStats `json:"last30"`
}

// 舍入只发生在呈现计算时，存储中保留原始值。
// 每个比率都守护分母：空分组(英雄、位置或窗口)返回零值而不是除零。

// formatWinRate wins/total*100，1位小数；total为0时返回"0.0"
func formatWinRate(wins, total int) string {
	if total <= 0 {
		return "0.0"
	}
	return fmt.Sprintf("%.1f", float64(wins)/float64(total)*100)
}

// formatAvg1 平均值，1位小数；无数据时返回"0.0"
func formatAvg1(sum float64, count int) string {
	if count <= 0 {
		return "0.0"
	}
	return fmt.Sprintf("%.1f", sum/float64(count))
}

// formatAvg2 平均值，2位小数；无数据时返回"0.00"
func formatAvg2(sum float64, count int) string {
	if count <= 0 {
		return "0.00"
	}
	return fmt.Sprintf("%.2f", sum/float64(count))
}

// formatKDA 平均KDA格式化为 "K/D/A"，各1位小数
func formatKDA(kills, deaths, assists float64, count int) string {
	return fmt.Sprintf("%s/%s/%s",
		formatAvg1(kills, count),
		formatAvg1(deaths, count),
		formatAvg1(assists, count),
	)
}

// Stats 计算用户的复合统计对象
func (s *MatchStore) Stats(userID int64) (*MatchStats, error) {
	stats := &MatchStats{
		ByChampion: []ChampionStats{},
		ByRole:     []RoleStats{},
	}

	// 全量统计
	var (
		totalGames                             int
		wins                                   int
		sumKills, sumDeaths, sumAssists, sumCS float64
	)
	err := s.db.QueryRow(`
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN result = 'win' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(kills), 0),
			COALESCE(SUM(deaths), 0),
			COALESCE(SUM(assists), 0),
			COALESCE(SUM(cs_per_min), 0)
		FROM matches
		WHERE user_id = ?
	`, userID).Scan(&totalGames, &wins, &sumKills, &sumDeaths, &sumAssists, &sumCS)
	if err != nil {
		return nil, fmt.Errorf("failed to query overall stats: %w", err)
	}

	stats.Overall = OverallStats{
		TotalGames:  totalGames,
		Wins:        wins,
		Losses:      totalGames - wins,
		WinRate:     formatWinRate(wins, totalGames),
		AvgKills:    formatAvg1(sumKills, totalGames),
		AvgDeaths:   formatAvg1(sumDeaths, totalGames),
		AvgAssists:  formatAvg1(sumAssists, totalGames),
		AvgCSPerMin: formatAvg2(sumCS, totalGames),
	}

	// 按英雄分组，场次多者在前
	rows, err := s.db.Query(`
		SELECT
			champion,
			COUNT(*) as games,
			SUM(CASE WHEN result = 'win' THEN 1 ELSE 0 END),
			SUM(kills), SUM(deaths), SUM(assists), SUM(cs_per_min)
		FROM matches
		WHERE user_id = ?
		GROUP BY champion
		ORDER BY games DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query champion stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			c          ChampionStats
			w          int
			k, d, a, cs float64
		)
		if err := rows.Scan(&c.Champion, &c.Games, &w, &k, &d, &a, &cs); err != nil {
			return nil, err
		}
		c.Wins = w
		c.Losses = c.Games - w
		c.WinRate = formatWinRate(w, c.Games)
		c.AvgKDA = formatKDA(k, d, a, c.Games)
		c.AvgCSPerMin = formatAvg2(cs, c.Games)
		stats.ByChampion = append(stats.ByChampion, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// 按位置分组
	roleRows, err := s.db.Query(`
		SELECT
			role,
			COUNT(*) as games,
			SUM(CASE WHEN result = 'win' THEN 1 ELSE 0 END),
			SUM(cs_per_min)
		FROM matches
		WHERE user_id = ?
		GROUP BY role
		ORDER BY games DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query role stats: %w", err)
	}
	defer roleRows.Close()

	for roleRows.Next() {
		var (
			r  RoleStats
			w  int
			cs float64
		)
		if err := roleRows.Scan(&r.Role, &r.Games, &w, &cs); err != nil {
			return nil, err
		}
		r.Wins = w
		r.Losses = r.Games - w
		r.WinRate = formatWinRate(w, r.Games)
		r.AvgCSPerMin = formatAvg2(cs, r.Games)
		stats.ByRole = append(stats.ByRole, r)
	}
	if err := roleRows.Err(); err != nil {
		return nil, err
	}

	// 最近表现：最近10场和最近30场两个固定窗口
	last10, err := s.windowStats(userID, 10)
	if err != nil {
		return nil, err
	}
	last30, err := s.windowStats(userID, 30)
	if err != nil {
		return nil, err
	}
	stats.RecentPerformance = RecentPerformance{Last10: last10, Last30: last30}

	return stats, nil
}

// windowStats 最近limit场(不足则全取)的窗口统计
func (s *MatchStore) windowStats(userID int64, limit int) (WindowStats, error) {
	var (
		games, wins int
		sumCS       float64
	)
	err := s.db.QueryRow(`
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN result = 'win' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(cs_per_min), 0)
		FROM (
			SELECT result, cs_per_min FROM matches
			WHERE user_id = ?
			ORDER BY created_at DESC, id DESC
			LIMIT ?
		)
	`, userID, limit).Scan(&games, &wins, &sumCS)
	if err != nil {
		return WindowStats{}, fmt.Errorf("failed to query recent window: %w", err)
	}

	return WindowStats{
		Games:       games,
		Wins:        wins,
		WinRate:     formatWinRate(wins, games),
		AvgCSPerMin: formatAvg2(sumCS, games),
	}, nil
}
