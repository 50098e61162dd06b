package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Connect 打开(或创建)SQLite数据库并配置连接
func Connect(dbPath string) (*sql.DB, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// 测试连接
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// SQLite单写者，限制连接数避免锁冲突
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to exec pragma %q: %w", p, err)
		}
	}

	return db, nil
}

// ConnectMemory 创建内存数据库(测试用)
func ConnectMemory() (*sql.DB, error) {
	return Connect(":memory:")
}

// Migrate 运行数据库迁移
func Migrate(db *sql.DB) error {
	migrations := []string{
		// 用户表(目前单用户，结构上预留多用户)
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
		)`,

		// 对局表
		`CREATE TABLE IF NOT EXISTS matches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL DEFAULT 1,
			champion TEXT NOT NULL,
			role TEXT NOT NULL,
			result TEXT NOT NULL CHECK(result IN ('win', 'loss')),
			kills INTEGER NOT NULL DEFAULT 0,
			deaths INTEGER NOT NULL DEFAULT 0,
			assists INTEGER NOT NULL DEFAULT 0,
			cs_per_min REAL NOT NULL DEFAULT 0,
			game_duration INTEGER NOT NULL DEFAULT 0,
			notes TEXT,
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
			FOREIGN KEY (user_id) REFERENCES users(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_user_created ON matches(user_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_champion ON matches(champion)`,

		// 目标表
		`CREATE TABLE IF NOT EXISTS goals (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL DEFAULT 1,
			title TEXT NOT NULL,
			description TEXT,
			status TEXT NOT NULL DEFAULT 'active' CHECK(status IN ('active', 'completed', 'failed')),
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
			completed_at TEXT,
			FOREIGN KEY (user_id) REFERENCES users(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_goals_user_status ON goals(user_id, status)`,

		// 失误类型表(固定目录，初始化时播种)
		`CREATE TABLE IF NOT EXISTS mistakes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT UNIQUE NOT NULL,
			description TEXT
		)`,

		// 对局-失误关联表
		`CREATE TABLE IF NOT EXISTS match_mistakes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			match_id INTEGER NOT NULL,
			mistake_id INTEGER NOT NULL,
			FOREIGN KEY (match_id) REFERENCES matches(id) ON DELETE CASCADE,
			FOREIGN KEY (mistake_id) REFERENCES mistakes(id),
			UNIQUE(match_id, mistake_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_match_mistakes_match ON match_mistakes(match_id)`,

		// 目标-对局关联表
		`CREATE TABLE IF NOT EXISTS goal_matches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			goal_id INTEGER NOT NULL,
			match_id INTEGER NOT NULL,
			FOREIGN KEY (goal_id) REFERENCES goals(id) ON DELETE CASCADE,
			FOREIGN KEY (match_id) REFERENCES matches(id) ON DELETE CASCADE,
			UNIQUE(goal_id, match_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_goal_matches_goal ON goal_matches(goal_id)`,
		`CREATE INDEX IF NOT EXISTS idx_goal_matches_match ON goal_matches(match_id)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return Seed(db)
}

// DefaultMistakes 预定义失误目录
var DefaultMistakes = []struct {
	Name        string
	Description string
}{
	{"Overextending", "Pushed too far without vision"},
	{"Poor Vision Control", "Did not ward enough or cleared wards"},
	{"Bad Recalls", "Poor timing on recalls"},
	{"Tilt / Emotional Decisions", "Made decisions based on emotion"},
	{"Missed Objectives", "Failed to secure or contest objectives"},
	{"Poor Positioning", "Positioned poorly in teamfights"},
	{"CS Mistakes", "Missed too much CS"},
	{"Map Awareness", "Did not pay attention to minimap"},
}

// Seed 播种初始数据(幂等，可重复执行)
func Seed(db *sql.DB) error {
	// 默认用户，所有数据归属 user_id=1
	_, err := db.Exec(`
		INSERT OR IGNORE INTO users (id, username, password_hash)
		VALUES (1, 'default', '')
	`)
	if err != nil {
		return fmt.Errorf("failed to seed default user: %w", err)
	}

	for _, m := range DefaultMistakes {
		_, err := db.Exec(`
			INSERT OR IGNORE INTO mistakes (name, description)
			VALUES (?, ?)
		`, m.Name, m.Description)
		if err != nil {
			return fmt.Errorf("failed to seed mistake %q: %w", m.Name, err)
		}
	}

	return nil
}

// DefaultPath 返回默认数据库路径 ~/.local/share/riftlog/riftlog.db
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", "riftlog", "riftlog.db"), nil
}
