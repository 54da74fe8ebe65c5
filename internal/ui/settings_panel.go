package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kivo360/omoictl/internal/api"
	"github.com/kivo360/omoictl/internal/form"
	"github.com/kivo360/omoictl/internal/journal"
	"github.com/kivo360/omoictl/internal/settings"
	"github.com/kivo360/omoictl/models"
)

// settingsField is one row of the panel, in display order.
type settingsField struct {
	key   string
	label string
	help  string
}

var settingsFields = []settingsField{
	{settings.FieldBypassMode, "Bypass mode", "Skip gate enforcement entirely"},
	{settings.FieldMinTestCoverage, "Min test coverage", "Coverage % required at the implementation gate"},
	{settings.FieldAutoProgression, "Auto progression", "Advance phases without manual approval"},
	{settings.FieldGuardianEnabled, "Guardian", "Auto-steer stuck or failing agents"},
}

// Messages for async backend work.
type settingsLoadedMsg struct {
	settings models.SpecDrivenSettings
	err      error
}

type settingsSavedMsg struct {
	gen      int
	settings models.SpecDrivenSettings
	err      error
}

// confirmAction is what a "y" on the discard prompt will do. Quitting and
// reloading both throw away unsaved edits, so both go through the prompt.
type confirmAction int

const (
	confirmNone confirmAction = iota
	confirmQuit
	confirmReload
)

// SettingsPanel is the interactive editor for a project's spec-driven
// settings.
type SettingsPanel struct {
	provider  api.Provider
	journal   *journal.Journal
	projectID string

	ctrl    *settings.Controller
	cursor  int
	editing bool
	input   textinput.Model
	spin    spinner.Model

	loading    bool
	loadErr    error
	confirming confirmAction
	status     string
	quitting   bool
}

// NewSettingsPanel builds the panel. journal may be nil; saves are then not
// recorded locally.
func NewSettingsPanel(provider api.Provider, jnl *journal.Journal, projectID string) SettingsPanel {
	ti := textinput.New()
	ti.CharLimit = 6
	ti.Width = 8

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = StylePrimary

	return SettingsPanel{
		provider:  provider,
		journal:   jnl,
		projectID: projectID,
		ctrl:      settings.NewController(),
		input:     ti,
		spin:      sp,
		loading:   true,
	}
}

// RunSettingsPanel opens the settings panel and blocks until it closes.
func RunSettingsPanel(provider api.Provider, jnl *journal.Journal, projectID string) error {
	p := tea.NewProgram(NewSettingsPanel(provider, jnl, projectID))
	_, err := p.Run()
	return err
}

func (m SettingsPanel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		s, err := m.provider.GetSpecDrivenSettings(context.Background(), m.projectID)
		return settingsLoadedMsg{settings: s, err: err}
	}
}

func (m SettingsPanel) saveCmd(gen int, patch models.SpecDrivenSettingsPatch) tea.Cmd {
	return func() tea.Msg {
		s, err := m.provider.UpdateSpecDrivenSettings(context.Background(), m.projectID, patch)
		return settingsSavedMsg{gen: gen, settings: s, err: err}
	}
}

func (m SettingsPanel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.loadCmd())
}

func (m SettingsPanel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case settingsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.loadErr = msg.err
			return m, nil
		}
		m.loadErr = nil
		m.ctrl.Load(msg.settings)
		return m, nil

	case settingsSavedMsg:
		if msg.err != nil {
			m.ctrl.SaveFailed(msg.gen, msg.err)
			m.status = ""
			return m, nil
		}
		before := m.ctrl.Server()
		if m.ctrl.SaveSucceeded(msg.gen, msg.settings) {
			if m.journal != nil {
				_ = m.journal.RecordSettingsChange(m.projectID, before, msg.settings)
			}
			m.status = "Saved."
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m SettingsPanel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Discard-confirmation takes over all input while active.
	if m.confirming != confirmNone {
		switch msg.String() {
		case "y", "Y":
			action := m.confirming
			m.confirming = confirmNone
			if action == confirmReload {
				m.loading = true
				m.loadErr = nil
				return m, m.loadCmd()
			}
			m.ctrl.Reset()
			m.quitting = true
			return m, tea.Quit
		case "n", "N", "esc":
			m.confirming = confirmNone
		}
		return m, nil
	}

	if m.editing {
		switch msg.String() {
		case "enter":
			m.ctrl.SetMinTestCoverage(m.input.Value())
			if _, bad := m.ctrl.FieldError(settings.FieldMinTestCoverage); !bad {
				m.editing = false
				m.input.Blur()
			}
			return m, nil
		case "esc":
			m.editing = false
			m.input.Blur()
			m.ctrl.ClearFieldError(settings.FieldMinTestCoverage)
			return m, nil
		default:
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
	}

	switch msg.String() {
	case "ctrl+c", "q", "esc":
		if m.ctrl.IsDirty() {
			m.confirming = confirmQuit
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(settingsFields)-1 {
			m.cursor++
		}

	case "enter", " ":
		return m.activateField()

	case "s":
		gen, ok := m.ctrl.BeginSave()
		if !ok {
			return m, nil
		}
		m.status = ""
		patch := m.ctrl.Server().Diff(m.ctrl.Local())
		return m, m.saveCmd(gen, patch)

	case "r":
		m.ctrl.Reset()
		m.status = "Reverted to server values."

	case "l":
		// Manual reload, also the retry action after a load failure.
		// Reloading over unsaved edits needs the same confirmation as quit.
		if m.ctrl.IsDirty() {
			m.confirming = confirmReload
			return m, nil
		}
		m.loading = true
		m.loadErr = nil
		return m, m.loadCmd()
	}
	return m, nil
}

func (m SettingsPanel) activateField() (tea.Model, tea.Cmd) {
	if !m.ctrl.Loaded() {
		return m, nil
	}
	s := m.ctrl.Local()
	switch settingsFields[m.cursor].key {
	case settings.FieldBypassMode:
		m.ctrl.SetBypassMode(!s.BypassMode)
	case settings.FieldAutoProgression:
		m.ctrl.SetAutoProgression(!s.AutoProgression)
	case settings.FieldGuardianEnabled:
		m.ctrl.SetGuardianEnabled(!s.GuardianEnabled)
	case settings.FieldMinTestCoverage:
		m.editing = true
		m.input.SetValue(fmt.Sprintf("%g", s.MinTestCoverage))
		m.input.Focus()
		return m, textinput.Blink
	}
	return m, nil
}

func (m SettingsPanel) fieldValue(key string) string {
	s := m.ctrl.Local()
	switch key {
	case settings.FieldBypassMode:
		return onOff(s.BypassMode)
	case settings.FieldMinTestCoverage:
		return fmt.Sprintf("%g%%", s.MinTestCoverage)
	case settings.FieldAutoProgression:
		return onOff(s.AutoProgression)
	case settings.FieldGuardianEnabled:
		return onOff(s.GuardianEnabled)
	}
	return ""
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func (m SettingsPanel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(StyleSectionTitle.Render("Spec-Driven Settings"))
	b.WriteString(StyleSubtle.Render("  project: " + m.projectID))
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString(fmt.Sprintf("  %s fetching settings...\n", m.spin.View()))
		return b.String()
	}
	if m.loadErr != nil {
		b.WriteString(StyleError.Render(fmt.Sprintf("  failed to load settings: %v", m.loadErr)))
		b.WriteString("\n\n")
		b.WriteString(StyleSubtle.Render("  l retry • q quit"))
		b.WriteString("\n")
		return b.String()
	}

	for i, f := range settingsFields {
		cursor := "  "
		labelStyle := StyleSubtle
		valueStyle := StyleSubtle
		if m.cursor == i {
			cursor = "▶ "
			labelStyle = StyleText
			valueStyle = StyleValue
		}

		value := m.fieldValue(f.key)
		if m.editing && f.key == settings.FieldMinTestCoverage && m.cursor == i {
			value = m.input.View()
		}

		b.WriteString(fmt.Sprintf("%s%s %s",
			cursor,
			labelStyle.Render(fmt.Sprintf("%-18s", f.label)),
			valueStyle.Render(value),
		))
		if msg, bad := m.ctrl.FieldError(f.key); bad {
			b.WriteString("  " + StylePrefixError.Render("✗ "+msg))
		}
		b.WriteString("\n")
		if m.cursor == i {
			b.WriteString(StyleSubtle.Render("     " + f.help))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(StyleSubtle.Render(fmt.Sprintf("  enforcement: %s", m.ctrl.Strictness())))
	b.WriteString("\n")

	for _, w := range m.ctrl.Warnings() {
		b.WriteString(StylePrefixWarn.Render("  ⚠ " + w))
		b.WriteString("\n")
	}
	if err := m.ctrl.SaveErr(); err != nil {
		b.WriteString(StylePrefixError.Render(fmt.Sprintf("  ✗ save failed: %v (edits kept, press s to retry)", err)))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(StylePrefixDone.Render("  " + m.status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case m.confirming == confirmReload:
		b.WriteString(StyleWarning.Render("  Discard unsaved changes and reload? (y/n)"))
	case m.confirming == confirmQuit:
		b.WriteString(StyleWarning.Render("  Discard unsaved changes? (y/n)"))
	case m.ctrl.State() == form.StateSaving:
		b.WriteString(fmt.Sprintf("  %s saving...", m.spin.View()))
	case m.ctrl.IsDirty():
		b.WriteString(StyleSubtle.Render("  ↑/↓ navigate • enter toggle/edit • s save • r revert • q quit") +
			StyleWarning.Render("  [unsaved changes]"))
	default:
		b.WriteString(StyleSubtle.Render("  ↑/↓ navigate • enter toggle/edit • s save • r revert • q quit"))
	}
	b.WriteString("\n")
	return b.String()
}
