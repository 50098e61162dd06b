// Package tui 终端客户端：仪表盘、对局与目标三个视图，
// 通过HTTP客户端访问服务端并按固定间隔轮询刷新
package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"riftlog/client"
)

// App 根模型，持有各视图并负责标签切换、轮询与状态栏
type App struct {
	api          *client.Client
	pollInterval time.Duration

	width      int
	height     int
	activeView viewState
	showHelp   bool

	dashboard dashboardModel
	matches   matchesModel
	goals     goalsModel

	help   help.Model
	status statusMsg
}

func NewApp(api *client.Client, pollInterval time.Duration) App {
	if pollInterval <= 0 {
		pollInterval = 30 * time.Second
	}
	return App{
		api:          api,
		pollInterval: pollInterval,
		activeView:   viewDashboard,
		dashboard:    newDashboardModel(api),
		matches:      newMatchesModel(api),
		goals:        newGoalsModel(api),
		help:         help.New(),
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.dashboard.loadData(),
		a.matches.loadData(),
		a.goals.loadData(),
		a.tick(),
	)
}

func (a App) tick() tea.Cmd {
	return tea.Tick(a.pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewMatches:
		return a.matches.formActive
	case viewGoals:
		return a.goals.formActive
	}
	return false
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		contentH := msg.Height - 4
		a.dashboard.setSize(msg.Width, contentH)
		a.matches.setSize(msg.Width, contentH)
		a.goals.setSize(msg.Width, contentH)
		return a, nil

	case tickMsg:
		// 定时轮询只刷新仪表盘聚合，列表由用户操作或变更信号驱动
		return a, tea.Batch(a.tick(), a.dashboard.loadData())

	case dataUpdatedMsg:
		// 任一视图的变更使全部视图的数据过期
		a.status = statusMsg{}
		return a, tea.Batch(
			a.dashboard.loadData(),
			a.matches.loadData(),
			a.goals.loadData(),
		)

	case statusMsg:
		a.status = msg
		return a, nil

	case tea.KeyMsg:
		// 表单打开时按键全部交给表单，esc除外
		if a.isFormActive() {
			return a.routeToActive(msg)
		}

		switch {
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			return a.switchView(viewDashboard)
		case key.Matches(msg, keys.Tab2):
			return a.switchView(viewMatches)
		case key.Matches(msg, keys.Tab3):
			return a.switchView(viewGoals)
		case key.Matches(msg, keys.Tab):
			return a.switchView((a.activeView + 1) % 3)
		}
		return a.routeToActive(msg)
	}

	return a.routeToActive(msg)
}

func (a App) switchView(v viewState) (tea.Model, tea.Cmd) {
	a.activeView = v
	a.status = statusMsg{}
	switch v {
	case viewDashboard:
		return a, a.dashboard.loadData()
	case viewMatches:
		return a, a.matches.loadData()
	case viewGoals:
		return a, a.goals.loadData()
	}
	return a, nil
}

// routeToActive 数据消息广播给所有视图，按键只给当前视图
func (a App) routeToActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	if _, isKey := msg.(tea.KeyMsg); isKey {
		switch a.activeView {
		case viewDashboard:
			a.dashboard, cmd = a.dashboard.update(msg)
		case viewMatches:
			a.matches, cmd = a.matches.update(msg)
		case viewGoals:
			a.goals, cmd = a.goals.update(msg)
		}
		return a, cmd
	}

	a.dashboard, cmd = a.dashboard.update(msg)
	cmds = append(cmds, cmd)
	a.matches, cmd = a.matches.update(msg)
	cmds = append(cmds, cmd)
	a.goals, cmd = a.goals.update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	var content string
	switch a.activeView {
	case viewDashboard:
		content = a.dashboard.view()
	case viewMatches:
		content = a.matches.view()
	case viewGoals:
		content = a.goals.view()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		a.renderHeader(),
		content,
		a.renderFooter(),
	)
}

func (a App) renderHeader() string {
	tabs := make([]string, len(viewNames))
	for i, name := range viewNames {
		label := " " + name + " "
		if viewState(i) == a.activeView {
			tabs[i] = activeTabStyle.Render(label)
		} else {
			tabs[i] = inactiveTabStyle.Render(label)
		}
	}
	return headerStyle.Render("RiftLog  " + strings.Join(tabs, " "))
}

func (a App) renderFooter() string {
	if a.status.text != "" {
		if a.status.isError {
			return footerStyle.Render(errorStyle.Render(a.status.text))
		}
		return footerStyle.Render(a.status.text)
	}
	if a.showHelp {
		return footerStyle.Render(a.help.FullHelpView(keys.FullHelp()))
	}
	return footerStyle.Render(a.help.ShortHelpView(keys.ShortHelp()))
}
