package database

import (
	"time"
)

// DefaultUserID 当前隐含的单用户ID，所有数据访问都显式传递它，
// 为将来的多用户留出余地
const DefaultUserID int64 = 1

// Roles 固定的位置集合
var Roles = []string{"top", "jungle", "mid", "adc", "support"}

// 对局结果
const (
	ResultWin  = "win"
	ResultLoss = "loss"
)

// 目标状态
const (
	GoalActive    = "active"
	GoalCompleted = "completed"
	GoalFailed    = "failed"
)

// Match 一场记录的对局
type Match struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	Champion     string    `json:"champion"`
	Role         string    `json:"role"`
	Result       string    `json:"result"`
	Kills        int       `json:"kills"`
	Deaths       int       `json:"deaths"`
	Assists      int       `json:"assists"`
	CSPerMin     float64   `json:"cs_per_min"`
	GameDuration int       `json:"game_duration"`
	Notes        *string   `json:"notes"`
	CreatedAt    time.Time `json:"created_at"`

	// 关联的失误标签，查询时装配
	Mistakes []Mistake `json:"mistakes"`
}

// Goal 改进目标
type Goal struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

// Mistake 失误类型目录条目
type Mistake struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// MistakeFrequency 失误使用频率统计
type MistakeFrequency struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Frequency   int    `json:"frequency"`
}

// ValidRole 检查位置是否在固定集合内
func ValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// ValidResult 检查对局结果取值
func ValidResult(result string) bool {
	return result == ResultWin || result == ResultLoss
}

// ValidGoalStatus 检查目标状态取值
func ValidGoalStatus(status string) bool {
	return status == GoalActive || status == GoalCompleted || status == GoalFailed
}
