package services

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"riftlog/database"
)

// MatchStore 对局数据访问
type MatchStore struct {
	db *sql.DB
}

func NewMatchStore(db *sql.DB) *MatchStore {
	return &MatchStore{db: db}
}

// normalizeNotes 空白备注归一化为NULL，不存空字符串
func normalizeNotes(notes *string) *string {
	if notes == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*notes)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// Create 插入一条对局记录，返回新ID。
// champion/role/result 的校验在API层完成，这里只做默认值处理。
func (s *MatchStore) Create(m *database.Match) (int64, error) {
	query := `
		INSERT INTO matches (user_id, champion, role, result, kills, deaths, assists, cs_per_min, game_duration, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	res, err := s.db.Exec(query,
		m.UserID, m.Champion, m.Role, m.Result,
		m.Kills, m.Deaths, m.Assists, m.CSPerMin, m.GameDuration,
		normalizeNotes(m.Notes),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert match: %w", err)
	}

	return res.LastInsertId()
}

// FindAll 返回用户的对局，按创建时间倒序；limit<=0 返回全部
func (s *MatchStore) FindAll(userID int64, limit, offset int) ([]database.Match, error) {
	query := `
		SELECT id, user_id, champion, role, result, kills, deaths, assists, cs_per_min, game_duration, notes, created_at
		FROM matches
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
	`

	var rows *sql.Rows
	var err error
	if limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		rows, err = s.db.Query(query, userID, limit, offset)
	} else {
		rows, err = s.db.Query(query, userID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := []database.Match{}
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// 装配每场对局的失误标签
	for i := range matches {
		mistakes, err := s.MistakesForMatch(matches[i].ID)
		if err != nil {
			return nil, err
		}
		matches[i].Mistakes = mistakes
	}

	return matches, nil
}

// FindByID 按ID查找单场对局，范围限定为所属用户
func (s *MatchStore) FindByID(id, userID int64) (*database.Match, error) {
	row := s.db.QueryRow(`
		SELECT id, user_id, champion, role, result, kills, deaths, assists, cs_per_min, game_duration, notes, created_at
		FROM matches
		WHERE id = ? AND user_id = ?
	`, id, userID)

	m, err := scanMatch(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	mistakes, err := s.MistakesForMatch(m.ID)
	if err != nil {
		return nil, err
	}
	m.Mistakes = mistakes

	return &m, nil
}

// Update 整行更新可变字段，不触碰 id/user_id/created_at
func (s *MatchStore) Update(id int64, m *database.Match, userID int64) error {
	query := `
		UPDATE matches
		SET champion = ?, role = ?, result = ?, kills = ?, deaths = ?, assists = ?,
		    cs_per_min = ?, game_duration = ?, notes = ?
		WHERE id = ? AND user_id = ?
	`

	res, err := s.db.Exec(query,
		m.Champion, m.Role, m.Result,
		m.Kills, m.Deaths, m.Assists, m.CSPerMin, m.GameDuration,
		normalizeNotes(m.Notes),
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update match: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete 删除对局。关联行(失误链接、目标链接)先于对局本体删除，
// 三步在同一事务内，不依赖存储端的级联删除。
func (s *MatchStore) Delete(id, userID int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM match_mistakes WHERE match_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete mistake links: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM goal_matches WHERE match_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete goal links: %w", err)
	}

	res, err := tx.Exec(`DELETE FROM matches WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete match: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

// ReplaceMistakes 全量替换对局的失误关联：先删全部旧链接再插入提交的集合。
// 两步在同一事务内，避免出现关联暂时为空的窗口。
// 提交集合中的重复ID通过唯一约束折叠为一行。
func (s *MatchStore) ReplaceMistakes(matchID int64, mistakeIDs []int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM match_mistakes WHERE match_id = ?`, matchID); err != nil {
		return fmt.Errorf("failed to clear mistake links: %w", err)
	}

	for _, mistakeID := range mistakeIDs {
		_, err := tx.Exec(`
			INSERT OR IGNORE INTO match_mistakes (match_id, mistake_id)
			VALUES (?, ?)
		`, matchID, mistakeID)
		if err != nil {
			return fmt.Errorf("failed to link mistake %d: %w", mistakeID, err)
		}
	}

	return tx.Commit()
}

// MistakesForMatch 返回对局关联的失误标签
func (s *MatchStore) MistakesForMatch(matchID int64) ([]database.Mistake, error) {
	rows, err := s.db.Query(`
		SELECT m.id, m.name, COALESCE(m.description, '')
		FROM mistakes m
		INNER JOIN match_mistakes mm ON m.id = mm.mistake_id
		WHERE mm.match_id = ?
		ORDER BY m.name
	`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	mistakes := []database.Mistake{}
	for rows.Next() {
		var m database.Mistake
		if err := rows.Scan(&m.ID, &m.Name, &m.Description); err != nil {
			return nil, err
		}
		mistakes = append(mistakes, m)
	}
	return mistakes, rows.Err()
}

// scanner 兼容 *sql.Row 和 *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanMatch(row scanner) (database.Match, error) {
	var (
		m         database.Match
		notes     sql.NullString
		createdAt string
	)

	err := row.Scan(
		&m.ID, &m.UserID, &m.Champion, &m.Role, &m.Result,
		&m.Kills, &m.Deaths, &m.Assists, &m.CSPerMin, &m.GameDuration,
		&notes, &createdAt,
	)
	if err != nil {
		return m, err
	}

	if notes.Valid {
		m.Notes = &notes.String
	}
	m.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	m.Mistakes = []database.Mistake{}

	return m, nil
}
