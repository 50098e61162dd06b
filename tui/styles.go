package tui

import "github.com/charmbracelet/lipgloss"

// 配色
var (
	colorPrimary   = lipgloss.Color("#C8AA6E") // 金色
	colorMuted     = lipgloss.Color("#666666")
	colorWin       = lipgloss.Color("#2ECC71")
	colorLoss      = lipgloss.Color("#E74C3C")
	colorWarning   = lipgloss.Color("#F39C12")
	colorError     = lipgloss.Color("#E74C3C")
	colorFg        = lipgloss.Color("#CDFAFA")
	colorSubtle    = lipgloss.Color("#414868")
	colorHighlight = lipgloss.Color("#0AC8B9")
)

// 样式
var (
	// 标签页
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(colorPrimary).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(colorMuted).
				Padding(0, 2)

	// 面板
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(1, 2)

	activePanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Padding(1, 2)

	// 文本
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorFg)

	winStyle = lipgloss.NewStyle().
			Foreground(colorWin)

	lossStyle = lipgloss.NewStyle().
			Foreground(colorLoss)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	highlightStyle = lipgloss.NewStyle().
			Foreground(colorHighlight)

	// 页眉/页脚
	headerStyle = lipgloss.NewStyle().
			Padding(0, 1)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)

	// 列表项
	selectedItemStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	normalItemStyle = lipgloss.NewStyle().
			Foreground(colorFg)
)
