package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"riftlog/client"
	"riftlog/database"
)

type matchesModel struct {
	api    *client.Client
	width  int
	height int

	matches  []database.Match
	catalog  []database.Mistake
	selected int
	loadErr  string

	form       *huh.Form
	formActive bool
	editingID  int64

	formChampion   string
	formRole       string
	formResult     string
	formKills      string
	formDeaths     string
	formAssists    string
	formCSPerMin   string
	formDuration   string
	formNotes      string
	formMistakeIDs []int64

	confirmDelete bool
}

func newMatchesModel(api *client.Client) matchesModel {
	return matchesModel{api: api}
}

func (m *matchesModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type matchesDataMsg struct {
	matches []database.Match
	catalog []database.Mistake
	err     error
}

func (m matchesModel) loadData() tea.Cmd {
	return func() tea.Msg {
		matches, err := m.api.Matches(0, 0)
		if err != nil {
			return matchesDataMsg{err: err}
		}
		catalog, err := m.api.Mistakes()
		if err != nil {
			return matchesDataMsg{err: err}
		}
		return matchesDataMsg{matches: matches, catalog: catalog}
	}
}

func (m matchesModel) update(msg tea.Msg) (matchesModel, tea.Cmd) {
	if m.formActive {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case matchesDataMsg:
		if msg.err != nil {
			m.loadErr = errorStatus(msg.err).text
			return m, nil
		}
		m.loadErr = ""
		m.matches = msg.matches
		m.catalog = msg.catalog
		if m.selected >= len(m.matches) {
			m.selected = max(0, len(m.matches)-1)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			m.confirmDelete = false
			if m.selected > 0 {
				m.selected--
			}
		case key.Matches(msg, keys.Down):
			m.confirmDelete = false
			if m.selected < len(m.matches)-1 {
				m.selected++
			}
		case key.Matches(msg, keys.New):
			m.startForm(nil)
			return m, m.form.Init()
		case key.Matches(msg, keys.Edit):
			if cur := m.current(); cur != nil {
				m.startForm(cur)
				return m, m.form.Init()
			}
		case key.Matches(msg, keys.Delete):
			if cur := m.current(); cur != nil {
				// 第一次按下只做确认，第二次才真正删除
				if !m.confirmDelete {
					m.confirmDelete = true
					return m, statusCmd("Press d again to delete match", false)
				}
				m.confirmDelete = false
				return m, m.deleteMatch(cur.ID)
			}
		case key.Matches(msg, keys.Refresh):
			return m, m.loadData()
		case key.Matches(msg, keys.Back):
			m.confirmDelete = false
		}
	}
	return m, nil
}

func (m matchesModel) updateForm(msg tea.Msg) (matchesModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && key.Matches(keyMsg, keys.Back) {
		m.formActive = false
		m.form = nil
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		return m, m.submitForm()
	}
	return m, cmd
}

func (m *matchesModel) current() *database.Match {
	if m.selected < 0 || m.selected >= len(m.matches) {
		return nil
	}
	return &m.matches[m.selected]
}

// startForm 同一张表单兼做新建与编辑，editingID为0表示新建
func (m *matchesModel) startForm(existing *database.Match) {
	m.editingID = 0
	m.formChampion = ""
	m.formRole = database.Roles[0]
	m.formResult = database.ResultWin
	m.formKills = "0"
	m.formDeaths = "0"
	m.formAssists = "0"
	m.formCSPerMin = "0.0"
	m.formDuration = "30"
	m.formNotes = ""
	m.formMistakeIDs = nil

	if existing != nil {
		m.editingID = existing.ID
		m.formChampion = existing.Champion
		m.formRole = existing.Role
		m.formResult = existing.Result
		m.formKills = strconv.Itoa(existing.Kills)
		m.formDeaths = strconv.Itoa(existing.Deaths)
		m.formAssists = strconv.Itoa(existing.Assists)
		m.formCSPerMin = strconv.FormatFloat(existing.CSPerMin, 'f', 1, 64)
		m.formDuration = strconv.Itoa(existing.GameDuration)
		if existing.Notes != nil {
			m.formNotes = *existing.Notes
		}
		for _, mk := range existing.Mistakes {
			m.formMistakeIDs = append(m.formMistakeIDs, mk.ID)
		}
	}

	roleOptions := make([]huh.Option[string], len(database.Roles))
	for i, r := range database.Roles {
		roleOptions[i] = huh.NewOption(strings.ToUpper(r[:1])+r[1:], r)
	}

	mistakeOptions := make([]huh.Option[int64], len(m.catalog))
	for i, mk := range m.catalog {
		mistakeOptions[i] = huh.NewOption(mk.Name, mk.ID)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Champion").
				Value(&m.formChampion).
				Validate(requiredField("champion")),
			huh.NewSelect[string]().
				Title("Role").
				Options(roleOptions...).
				Value(&m.formRole),
			huh.NewSelect[string]().
				Title("Result").
				Options(
					huh.NewOption("Win", database.ResultWin),
					huh.NewOption("Loss", database.ResultLoss),
				).
				Value(&m.formResult),
		),
		huh.NewGroup(
			huh.NewInput().Title("Kills").Value(&m.formKills).Validate(numericField),
			huh.NewInput().Title("Deaths").Value(&m.formDeaths).Validate(numericField),
			huh.NewInput().Title("Assists").Value(&m.formAssists).Validate(numericField),
			huh.NewInput().Title("CS per minute").Value(&m.formCSPerMin).Validate(floatField),
			huh.NewInput().Title("Game duration (min)").Value(&m.formDuration).Validate(positiveField),
		),
		huh.NewGroup(
			huh.NewMultiSelect[int64]().
				Title("Mistakes").
				Options(mistakeOptions...).
				Value(&m.formMistakeIDs),
			huh.NewText().
				Title("Notes").
				Value(&m.formNotes),
		),
	).WithShowHelp(false)

	m.formActive = true
}

func (m matchesModel) submitForm() tea.Cmd {
	editingID := m.editingID
	mistakeIDs := m.formMistakeIDs
	if mistakeIDs == nil {
		mistakeIDs = []int64{}
	}
	req := client.MatchRequest{
		Champion:     m.formChampion,
		Role:         m.formRole,
		Result:       m.formResult,
		Kills:        atoiField(m.formKills),
		Deaths:       atoiField(m.formDeaths),
		Assists:      atoiField(m.formAssists),
		CSPerMin:     atofField(m.formCSPerMin),
		GameDuration: atoiField(m.formDuration),
		MistakeIDs:   &mistakeIDs,
	}
	if notes := strings.TrimSpace(m.formNotes); notes != "" {
		req.Notes = &notes
	}

	api := m.api
	return func() tea.Msg {
		var err error
		if editingID > 0 {
			_, err = api.UpdateMatch(editingID, req)
		} else {
			_, err = api.CreateMatch(req)
		}
		if err != nil {
			return errorStatus(err)
		}
		return dataUpdatedMsg{}
	}
}

func (m matchesModel) deleteMatch(id int64) tea.Cmd {
	api := m.api
	return func() tea.Msg {
		if err := api.DeleteMatch(id); err != nil {
			return errorStatus(err)
		}
		return dataUpdatedMsg{}
	}
}

func (m matchesModel) view() string {
	if m.formActive && m.form != nil {
		title := "New Match"
		if m.editingID > 0 {
			title = "Edit Match"
		}
		return panelStyle.Width(m.width - 4).Render(
			lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), m.form.View()))
	}

	if m.loadErr != "" {
		return panelStyle.Width(m.width - 4).Render(errorStyle.Render(m.loadErr))
	}
	if len(m.matches) == 0 {
		return panelStyle.Width(m.width - 4).Render(
			mutedStyle.Render("No matches recorded. Press n to log your first game."))
	}

	visible := m.height - 8
	if visible < 3 {
		visible = 3
	}
	start := 0
	if m.selected >= visible {
		start = m.selected - visible + 1
	}

	rows := []string{titleStyle.Render(fmt.Sprintf("Matches (%d)", len(m.matches)))}
	for i := start; i < len(m.matches) && i < start+visible; i++ {
		rows = append(rows, m.renderRow(i))
	}

	return panelStyle.Width(m.width - 4).Render(strings.Join(rows, "\n"))
}

func (m matchesModel) renderRow(i int) string {
	match := m.matches[i]

	resultLabel := winStyle.Render("WIN ")
	if match.Result == database.ResultLoss {
		resultLabel = lossStyle.Render("LOSS")
	}

	tags := ""
	if len(match.Mistakes) > 0 {
		tags = mutedStyle.Render(fmt.Sprintf("  [%d mistakes]", len(match.Mistakes)))
	}

	line := fmt.Sprintf("%s  %-14s %-8s %2d/%2d/%2d  %.1f cs/m  %s%s",
		resultLabel, match.Champion, match.Role,
		match.Kills, match.Deaths, match.Assists,
		match.CSPerMin,
		match.CreatedAt.Format("Jan 02 15:04"),
		tags)

	if i == m.selected {
		return selectedItemStyle.Render("> " + line)
	}
	return normalItemStyle.Render("  " + line)
}

func requiredField(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}

func numericField(s string) error {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 0 {
		return fmt.Errorf("must be a non-negative number")
	}
	return nil
}

func positiveField(s string) error {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v <= 0 {
		return fmt.Errorf("must be a positive number")
	}
	return nil
}

func floatField(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 {
		return fmt.Errorf("must be a non-negative number")
	}
	return nil
}

func atoiField(s string) int {
	v, _ := strconv.Atoi(strings.TrimSpace(s))
	return v
}

func atofField(s string) float64 {
	v, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return v
}
