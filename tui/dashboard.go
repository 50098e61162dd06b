package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"riftlog/client"
	"riftlog/database"
	"riftlog/services"
)

type dashboardModel struct {
	api    *client.Client
	width  int
	height int

	stats        *services.MatchStats
	mistakeStats []database.MistakeFrequency
	loadErr      string
}

func newDashboardModel(api *client.Client) dashboardModel {
	return dashboardModel{api: api}
}

func (d dashboardModel) Init() tea.Cmd {
	return d.loadData()
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

type dashboardDataMsg struct {
	stats        *services.MatchStats
	mistakeStats []database.MistakeFrequency
	err          error
}

// loadData 拉取聚合统计；挂载、轮询和数据变更信号都走这条路
func (d dashboardModel) loadData() tea.Cmd {
	return func() tea.Msg {
		stats, err := d.api.MatchStats()
		if err != nil {
			return dashboardDataMsg{err: err}
		}
		mistakeStats, err := d.api.MistakeStats()
		if err != nil {
			return dashboardDataMsg{err: err}
		}
		return dashboardDataMsg{stats: stats, mistakeStats: mistakeStats}
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		// 并发拉取以后到者为准
		if msg.err != nil {
			d.loadErr = errorStatus(msg.err).text
			return d, nil
		}
		d.loadErr = ""
		d.stats = msg.stats
		d.mistakeStats = msg.mistakeStats
		return d, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Refresh) {
			return d, d.loadData()
		}
	}
	return d, nil
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}
	if d.loadErr != "" {
		return panelStyle.Width(d.width - 4).Render(errorStyle.Render(d.loadErr))
	}
	if d.stats == nil {
		return panelStyle.Width(d.width - 4).Render(mutedStyle.Render("Loading stats..."))
	}

	contentWidth := d.width - 4

	overallPanel := d.renderOverallPanel(contentWidth)
	trendPanel := d.renderTrendPanel(contentWidth)
	bottomRow := lipgloss.JoinHorizontal(lipgloss.Top,
		d.renderChampionPanel(contentWidth/2-1),
		d.renderMistakePanel(contentWidth/2-1),
	)

	return lipgloss.JoinVertical(lipgloss.Left, overallPanel, trendPanel, bottomRow)
}

func (d dashboardModel) renderOverallPanel(w int) string {
	o := d.stats.Overall

	cards := []string{
		fmt.Sprintf("%s %s", titleStyle.Render("Games"), highlightStyle.Render(strconv.Itoa(o.TotalGames))),
		fmt.Sprintf("%s %s", titleStyle.Render("Win Rate"), highlightStyle.Render(o.WinRate+"%")),
		fmt.Sprintf("%s %s", titleStyle.Render("W/L"),
			winStyle.Render(strconv.Itoa(o.Wins))+mutedStyle.Render("/")+lossStyle.Render(strconv.Itoa(o.Losses))),
		fmt.Sprintf("%s %s", titleStyle.Render("KDA"),
			highlightStyle.Render(o.AvgKills+"/"+o.AvgDeaths+"/"+o.AvgAssists)),
		fmt.Sprintf("%s %s", titleStyle.Render("CS/min"), highlightStyle.Render(o.AvgCSPerMin)),
	}

	return panelStyle.Width(w).Render(strings.Join(cards, "   "))
}

// renderTrendPanel 双序列趋势：胜率与CS/min，横跨最近10场→最近30场→全部
func (d dashboardModel) renderTrendPanel(w int) string {
	rp := d.stats.RecentPerformance

	chartWidth := w/2 - 6
	if chartWidth < 12 {
		chartWidth = 12
	}

	winRates := []float64{
		parseStat(rp.Last10.WinRate),
		parseStat(rp.Last30.WinRate),
		parseStat(d.stats.Overall.WinRate),
	}
	csRates := []float64{
		parseStat(rp.Last10.AvgCSPerMin),
		parseStat(rp.Last30.AvgCSPerMin),
		parseStat(d.stats.Overall.AvgCSPerMin),
	}

	winChart := buildTrendChart(chartWidth, 8, winRates, lipgloss.NewStyle().Foreground(colorWin))
	csChart := buildTrendChart(chartWidth, 8, csRates, lipgloss.NewStyle().Foreground(colorHighlight))

	winCol := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Win Rate %"), winChart.View())
	csCol := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("CS/min"), csChart.View())

	legend := mutedStyle.Render("  L10 = last 10 games   L30 = last 30 games   All = overall")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.JoinHorizontal(lipgloss.Top, winCol, "    ", csCol),
			legend,
		),
	)
}

var trendLabels = []string{"L10", "L30", "All"}

func buildTrendChart(w, h int, values []float64, style lipgloss.Style) barchart.Model {
	chart := barchart.New(w, h)

	var bars []barchart.BarData
	for i, v := range values {
		bars = append(bars, barchart.BarData{
			Label: trendLabels[i],
			Values: []barchart.BarValue{
				{Name: trendLabels[i], Value: v, Style: style},
			},
		})
	}

	chart.PushAll(bars)
	chart.Draw()
	return chart
}

func (d dashboardModel) renderChampionPanel(w int) string {
	title := titleStyle.Render("By Champion")

	if len(d.stats.ByChampion) == 0 {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, mutedStyle.Render("No matches yet")))
	}

	rows := []string{title}
	for i, c := range d.stats.ByChampion {
		if i >= 6 {
			rows = append(rows, mutedStyle.Render(fmt.Sprintf("  … and %d more", len(d.stats.ByChampion)-i)))
			break
		}
		rows = append(rows, fmt.Sprintf("  %-14s %3dG  %s%%  %s  %s",
			c.Champion, c.Games, c.WinRate, c.AvgKDA, mutedStyle.Render(c.AvgCSPerMin+" cs/m")))
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) renderMistakePanel(w int) string {
	title := titleStyle.Render("Recurring Mistakes")

	if len(d.mistakeStats) == 0 {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, mutedStyle.Render("No mistakes tagged")))
	}

	rows := []string{title}
	for i, m := range d.mistakeStats {
		if i >= 6 {
			break
		}
		rows = append(rows, fmt.Sprintf("  %-28s %s",
			m.Name, lossStyle.Render(fmt.Sprintf("×%d", m.Frequency))))
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func parseStat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}
