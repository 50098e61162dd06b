package services

import (
	"database/sql"
	"fmt"
	"time"

	"riftlog/database"
)

// GoalStore 目标数据访问
type GoalStore struct {
	db *sql.DB
}

func NewGoalStore(db *sql.DB) *GoalStore {
	return &GoalStore{db: db}
}

// Create 插入一个目标，返回新ID；状态为空时默认 active
func (s *GoalStore) Create(g *database.Goal) (int64, error) {
	status := g.Status
	if status == "" {
		status = database.GoalActive
	}

	res, err := s.db.Exec(`
		INSERT INTO goals (user_id, title, description, status)
		VALUES (?, ?, ?, ?)
	`, g.UserID, g.Title, g.Description, status)
	if err != nil {
		return 0, fmt.Errorf("failed to insert goal: %w", err)
	}

	return res.LastInsertId()
}

// FindAll 返回用户的目标，按创建时间倒序；status非空时过滤
func (s *GoalStore) FindAll(userID int64, status string) ([]database.Goal, error) {
	query := `
		SELECT id, user_id, title, description, status, created_at, completed_at
		FROM goals
		WHERE user_id = ?
	`
	args := []interface{}{userID}

	if status != "" {
		query += ` AND status = ?`
		args = append(args, status)
	}

	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	goals := []database.Goal{}
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// FindByID 按ID查找单个目标，范围限定为所属用户
func (s *GoalStore) FindByID(id, userID int64) (*database.Goal, error) {
	row := s.db.QueryRow(`
		SELECT id, user_id, title, description, status, created_at, completed_at
		FROM goals
		WHERE id = ? AND user_id = ?
	`, id, userID)

	g, err := scanGoal(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// Update 整行更新可变字段。状态转为 completed 且未提供完成时间时
// 自动盖当前时间戳；状态不是 completed 时清除完成时间。
func (s *GoalStore) Update(id int64, g *database.Goal, userID int64) error {
	completedAt := g.CompletedAt
	if g.Status == database.GoalCompleted {
		if completedAt == nil {
			now := time.Now().UTC()
			completedAt = &now
		}
	} else {
		completedAt = nil
	}

	var completedStr *string
	if completedAt != nil {
		v := completedAt.UTC().Format(time.RFC3339)
		completedStr = &v
	}

	res, err := s.db.Exec(`
		UPDATE goals
		SET title = ?, description = ?, status = ?, completed_at = ?
		WHERE id = ? AND user_id = ?
	`, g.Title, g.Description, g.Status, completedStr, id, userID)
	if err != nil {
		return fmt.Errorf("failed to update goal: %w", err)
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

// Delete 删除目标。先删关联行再删本体，同一事务内执行。
func (s *GoalStore) Delete(id, userID int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM goal_matches WHERE goal_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete goal links: %w", err)
	}

	res, err := tx.Exec(`DELETE FROM goals WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
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

// LinkMatch 目标关联到对局；(goal, match)对唯一，重复插入为空操作
func (s *GoalStore) LinkMatch(goalID, matchID int64) error {
	_, err := s.db.Exec(`
		INSERT OR IGNORE INTO goal_matches (goal_id, match_id)
		VALUES (?, ?)
	`, goalID, matchID)
	if err != nil {
		return fmt.Errorf("failed to link goal %d to match %d: %w", goalID, matchID, err)
	}
	return nil
}

// LinkedMatchIDs 返回目标关联的对局ID
func (s *GoalStore) LinkedMatchIDs(goalID int64) ([]int64, error) {
	rows, err := s.db.Query(`
		SELECT match_id FROM goal_matches WHERE goal_id = ? ORDER BY match_id
	`, goalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanGoal(row scanner) (database.Goal, error) {
	var (
		g           database.Goal
		description sql.NullString
		createdAt   string
		completedAt sql.NullString
	)

	err := row.Scan(&g.ID, &g.UserID, &g.Title, &description, &g.Status, &createdAt, &completedAt)
	if err != nil {
		return g, err
	}

	if description.Valid {
		g.Description = &description.String
	}
	g.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	if completedAt.Valid {
		t, _ := time.Parse(time.RFC3339, completedAt.String)
		g.CompletedAt = &t
	}

	return g, nil
}
