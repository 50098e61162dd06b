package services

import (
	"database/sql"
	"fmt"

	"riftlog/database"
)

// MistakeStore 失误目录访问与频率统计
type MistakeStore struct {
	db *sql.DB
}

func NewMistakeStore(db *sql.DB) *MistakeStore {
	return &MistakeStore{db: db}
}

// List 返回完整失误目录，按名称排序
func (s *MistakeStore) List() ([]database.Mistake, error) {
	rows, err := s.db.Query(`
		SELECT id, name, COALESCE(description, '')
		FROM mistakes
		ORDER BY name
	`)
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

// Stats 失误使用频率：按使用次数倒序，不含零次使用的条目。
// 计算前先执行一次孤儿修复，保证历史上绕过完整删除路径留下的
// 关联行不会污染计数。
func (s *MistakeStore) Stats() ([]database.MistakeFrequency, error) {
	if _, err := s.RepairOrphanLinks(); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT m.id, m.name, COALESCE(m.description, ''), COUNT(mm.match_id) as frequency
		FROM mistakes m
		LEFT JOIN match_mistakes mm ON m.id = mm.mistake_id
		GROUP BY m.id, m.name, m.description
		HAVING frequency > 0
		ORDER BY frequency DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := []database.MistakeFrequency{}
	for rows.Next() {
		var f database.MistakeFrequency
		if err := rows.Scan(&f.ID, &f.Name, &f.Description, &f.Frequency); err != nil {
			return nil, err
		}
		stats = append(stats, f)
	}
	return stats, rows.Err()
}

// RepairOrphanLinks 删除指向已不存在对局的关联行，返回删除行数
func (s *MistakeStore) RepairOrphanLinks() (int64, error) {
	res, err := s.db.Exec(`
		DELETE FROM match_mistakes
		WHERE match_id NOT IN (SELECT id FROM matches)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to repair orphan links: %w", err)
	}
	return res.RowsAffected()
}
