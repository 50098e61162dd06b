package tui

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"riftlog/client"
)

// viewState 当前激活的视图
type viewState int

const (
	viewDashboard viewState = iota
	viewMatches
	viewGoals
)

var viewNames = []string{"Dashboard", "Matches", "Goals"}

// --- 消息 ---

// dataUpdatedMsg 兄弟视图完成一次变更后发出，仪表盘据此刷新聚合
type dataUpdatedMsg struct{}

type statusMsg struct {
	text    string
	isError bool
}

// tickMsg 固定间隔轮询信号
type tickMsg time.Time

// --- 辅助 ---

// errorStatus 把客户端错误转成状态栏文案，区分"连不上"和"被拒绝"
func errorStatus(err error) statusMsg {
	if errors.Is(err, client.ErrUnreachable) {
		return statusMsg{text: "Cannot reach server", isError: true}
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return statusMsg{text: apiErr.Message, isError: true}
	}
	return statusMsg{text: err.Error(), isError: true}
}

func statusCmd(text string, isError bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isError: isError}
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
