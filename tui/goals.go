package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"riftlog/client"
	"riftlog/database"
)

// 状态过滤循环顺序，空串表示不过滤
var goalFilters = []string{"", database.GoalActive, database.GoalCompleted, database.GoalFailed}

type goalsModel struct {
	api    *client.Client
	width  int
	height int

	goals    []database.Goal
	selected int
	filter   int
	loadErr  string

	form       *huh.Form
	formActive bool
	editingID  int64

	formTitle       string
	formDescription string
	formStatus      string

	confirmDelete bool
}

func newGoalsModel(api *client.Client) goalsModel {
	return goalsModel{api: api}
}

func (g *goalsModel) setSize(w, h int) {
	g.width = w
	g.height = h
}

type goalsDataMsg struct {
	goals []database.Goal
	err   error
}

func (g goalsModel) loadData() tea.Cmd {
	status := goalFilters[g.filter]
	api := g.api
	return func() tea.Msg {
		goals, err := api.Goals(status)
		if err != nil {
			return goalsDataMsg{err: err}
		}
		return goalsDataMsg{goals: goals}
	}
}

func (g goalsModel) update(msg tea.Msg) (goalsModel, tea.Cmd) {
	if g.formActive {
		return g.updateForm(msg)
	}

	switch msg := msg.(type) {
	case goalsDataMsg:
		if msg.err != nil {
			g.loadErr = errorStatus(msg.err).text
			return g, nil
		}
		g.loadErr = ""
		g.goals = msg.goals
		if g.selected >= len(g.goals) {
			g.selected = max(0, len(g.goals)-1)
		}
		return g, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			g.confirmDelete = false
			if g.selected > 0 {
				g.selected--
			}
		case key.Matches(msg, keys.Down):
			g.confirmDelete = false
			if g.selected < len(g.goals)-1 {
				g.selected++
			}
		case key.Matches(msg, keys.Filter):
			g.filter = (g.filter + 1) % len(goalFilters)
			g.selected = 0
			return g, g.loadData()
		case key.Matches(msg, keys.New):
			g.startForm(nil)
			return g, g.form.Init()
		case key.Matches(msg, keys.Edit):
			if cur := g.current(); cur != nil {
				g.startForm(cur)
				return g, g.form.Init()
			}
		case key.Matches(msg, keys.Delete):
			if cur := g.current(); cur != nil {
				if !g.confirmDelete {
					g.confirmDelete = true
					return g, statusCmd("Press d again to delete goal", false)
				}
				g.confirmDelete = false
				return g, g.deleteGoal(cur.ID)
			}
		case key.Matches(msg, keys.Refresh):
			return g, g.loadData()
		case key.Matches(msg, keys.Back):
			g.confirmDelete = false
		}
	}
	return g, nil
}

func (g goalsModel) updateForm(msg tea.Msg) (goalsModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && key.Matches(keyMsg, keys.Back) {
		g.formActive = false
		g.form = nil
		return g, nil
	}

	form, cmd := g.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		g.form = f
	}

	if g.form.State == huh.StateCompleted {
		g.formActive = false
		return g, g.submitForm()
	}
	return g, cmd
}

func (g *goalsModel) current() *database.Goal {
	if g.selected < 0 || g.selected >= len(g.goals) {
		return nil
	}
	return &g.goals[g.selected]
}

func (g *goalsModel) startForm(existing *database.Goal) {
	g.editingID = 0
	g.formTitle = ""
	g.formDescription = ""
	g.formStatus = database.GoalActive

	if existing != nil {
		g.editingID = existing.ID
		g.formTitle = existing.Title
		if existing.Description != nil {
			g.formDescription = *existing.Description
		}
		g.formStatus = existing.Status
	}

	g.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&g.formTitle).
				Validate(requiredField("title")),
			huh.NewText().
				Title("Description").
				Value(&g.formDescription),
			huh.NewSelect[string]().
				Title("Status").
				Options(
					huh.NewOption("Active", database.GoalActive),
					huh.NewOption("Completed", database.GoalCompleted),
					huh.NewOption("Failed", database.GoalFailed),
				).
				Value(&g.formStatus),
		),
	).WithShowHelp(false)

	g.formActive = true
}

func (g goalsModel) submitForm() tea.Cmd {
	editingID := g.editingID
	req := client.GoalRequest{
		Title:  g.formTitle,
		Status: g.formStatus,
	}
	if desc := strings.TrimSpace(g.formDescription); desc != "" {
		req.Description = &desc
	}

	api := g.api
	return func() tea.Msg {
		var err error
		if editingID > 0 {
			_, err = api.UpdateGoal(editingID, req)
		} else {
			_, err = api.CreateGoal(req)
		}
		if err != nil {
			return errorStatus(err)
		}
		return dataUpdatedMsg{}
	}
}

func (g goalsModel) deleteGoal(id int64) tea.Cmd {
	api := g.api
	return func() tea.Msg {
		if err := api.DeleteGoal(id); err != nil {
			return errorStatus(err)
		}
		return dataUpdatedMsg{}
	}
}

func (g goalsModel) view() string {
	if g.formActive && g.form != nil {
		title := "New Goal"
		if g.editingID > 0 {
			title = "Edit Goal"
		}
		return panelStyle.Width(g.width - 4).Render(
			lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), g.form.View()))
	}

	if g.loadErr != "" {
		return panelStyle.Width(g.width - 4).Render(errorStyle.Render(g.loadErr))
	}

	filterLabel := "all"
	if goalFilters[g.filter] != "" {
		filterLabel = goalFilters[g.filter]
	}
	header := titleStyle.Render(fmt.Sprintf("Goals (%d)", len(g.goals))) +
		mutedStyle.Render("  filter: "+filterLabel+"  (f cycles)")

	if len(g.goals) == 0 {
		return panelStyle.Width(g.width - 4).Render(
			lipgloss.JoinVertical(lipgloss.Left, header,
				mutedStyle.Render("No goals here. Press n to set one.")))
	}

	rows := []string{header}
	for i := range g.goals {
		rows = append(rows, g.renderRow(i))
	}

	return panelStyle.Width(g.width - 4).Render(strings.Join(rows, "\n"))
}

func (g goalsModel) renderRow(i int) string {
	goal := g.goals[i]

	var statusLabel string
	switch goal.Status {
	case database.GoalCompleted:
		statusLabel = winStyle.Render("✓ done  ")
	case database.GoalFailed:
		statusLabel = lossStyle.Render("✗ failed")
	default:
		statusLabel = highlightStyle.Render("● active")
	}

	completed := ""
	if goal.CompletedAt != nil {
		completed = mutedStyle.Render("  completed " + goal.CompletedAt.Format("Jan 02"))
	}

	line := fmt.Sprintf("%s  %s%s", statusLabel, goal.Title, completed)
	if goal.Description != nil && *goal.Description != "" {
		line += mutedStyle.Render("  " + *goal.Description)
	}

	if i == g.selected {
		return selectedItemStyle.Render("> " + line)
	}
	return normalItemStyle.Render("  " + line)
}
