package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kivo360/omoictl/internal/api"
	"github.com/kivo360/omoictl/models"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

// step feeds a message through Update and returns the typed model plus any
// command it produced.
func stepSettings(t *testing.T, m SettingsPanel, msg tea.Msg) (SettingsPanel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	panel, ok := next.(SettingsPanel)
	if !ok {
		t.Fatalf("Update returned %T, want SettingsPanel", next)
	}
	return panel, cmd
}

func loadedSettingsPanel(t *testing.T, fake *api.Fake) SettingsPanel {
	t.Helper()
	m := NewSettingsPanel(fake, nil, "proj-1")
	msg := m.loadCmd()()
	m, _ = stepSettings(t, m, msg)
	if !m.ctrl.Loaded() {
		t.Fatal("panel did not load settings")
	}
	return m
}

func TestSettingsPanelLoadAndRender(t *testing.T) {
	m := loadedSettingsPanel(t, api.NewFake())

	view := m.View()
	for _, want := range []string{"Bypass mode", "Min test coverage", "Auto progression", "Guardian", "80%"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "[unsaved changes]") {
		t.Error("clean panel should not flag unsaved changes")
	}
}

func TestSettingsPanelToggleMarksDirty(t *testing.T) {
	m := loadedSettingsPanel(t, api.NewFake())

	// Cursor starts on bypass mode; space toggles it.
	m, _ = stepSettings(t, m, keyMsg(" "))
	if !m.ctrl.Local().BypassMode {
		t.Error("space should toggle bypass mode on")
	}
	if !strings.Contains(m.View(), "[unsaved changes]") {
		t.Error("dirty panel should flag unsaved changes")
	}
	if !strings.Contains(m.View(), "bypass mode disables gate enforcement") {
		t.Error("bypass warning should render")
	}
}

func TestSettingsPanelSaveRoundTrip(t *testing.T) {
	fake := api.NewFake()
	m := loadedSettingsPanel(t, fake)

	m, _ = stepSettings(t, m, keyMsg(" ")) // toggle bypass
	m, cmd := stepSettings(t, m, keyMsg("s"))
	if cmd == nil {
		t.Fatal("save should produce a command")
	}
	if !m.ctrl.Saving() {
		t.Error("panel should be in the saving state")
	}

	m, _ = stepSettings(t, m, cmd())
	if m.ctrl.IsDirty() || m.ctrl.Saving() {
		t.Error("panel should be clean after a successful save")
	}
	if !fake.Settings["proj-1"].BypassMode {
		t.Error("save did not reach the backend")
	}
	if !strings.Contains(m.View(), "Saved.") {
		t.Error("view should confirm the save")
	}
}

func TestSettingsPanelSaveSendsPartialPatch(t *testing.T) {
	fake := api.NewFake()
	seeded := models.DefaultSpecDrivenSettings()
	seeded.MinTestCoverage = 70
	fake.Settings["proj-1"] = seeded

	m := loadedSettingsPanel(t, fake)
	m, _ = stepSettings(t, m, keyMsg(" ")) // only bypass changes
	m, cmd := stepSettings(t, m, keyMsg("s"))
	m, _ = stepSettings(t, m, cmd())

	got := fake.Settings["proj-1"]
	if got.MinTestCoverage != 70 {
		t.Errorf("unchanged coverage was clobbered: %g", got.MinTestCoverage)
	}
	if !got.BypassMode {
		t.Error("changed field did not apply")
	}
}

func TestSettingsPanelSaveFailureKeepsEdits(t *testing.T) {
	fake := api.NewFake()
	fake.FailNext["update_settings"] = errors.New("backend down")

	m := loadedSettingsPanel(t, fake)
	m, _ = stepSettings(t, m, keyMsg(" "))
	m, cmd := stepSettings(t, m, keyMsg("s"))
	m, _ = stepSettings(t, m, cmd())

	if !m.ctrl.IsDirty() {
		t.Error("failed save should keep local edits")
	}
	if !strings.Contains(m.View(), "save failed") {
		t.Error("view should surface the save failure")
	}

	// Retrying after the transient failure succeeds.
	m, cmd = stepSettings(t, m, keyMsg("s"))
	if cmd == nil {
		t.Fatal("retry should be possible")
	}
	m, _ = stepSettings(t, m, cmd())
	if m.ctrl.IsDirty() {
		t.Error("retry should complete the save")
	}
}

func TestSettingsPanelInvalidCoverageBlocksSave(t *testing.T) {
	m := loadedSettingsPanel(t, api.NewFake())

	// Move to the coverage row and open the editor.
	m, _ = stepSettings(t, m, keyMsg("j"))
	m, _ = stepSettings(t, m, keyMsg("enter"))
	if !m.editing {
		t.Fatal("enter on the coverage row should start editing")
	}

	m.input.SetValue("150")
	m, _ = stepSettings(t, m, keyMsg("enter"))
	if !m.editing {
		t.Error("invalid input should keep the editor open")
	}
	if !strings.Contains(m.View(), "coverage cannot exceed 100%") {
		t.Error("inline error should render")
	}
	if m.ctrl.Local().MinTestCoverage != 80 {
		t.Errorf("invalid value was committed: %g", m.ctrl.Local().MinTestCoverage)
	}

	// Correcting the value clears the error and commits.
	m.input.SetValue("85")
	m, _ = stepSettings(t, m, keyMsg("enter"))
	if m.editing {
		t.Error("valid input should close the editor")
	}
	if m.ctrl.Local().MinTestCoverage != 85 {
		t.Errorf("corrected value not committed: %g", m.ctrl.Local().MinTestCoverage)
	}
}

func TestSettingsPanelRevert(t *testing.T) {
	m := loadedSettingsPanel(t, api.NewFake())
	m, _ = stepSettings(t, m, keyMsg(" "))
	m, _ = stepSettings(t, m, keyMsg("r"))

	if m.ctrl.IsDirty() {
		t.Error("revert should restore the server copy")
	}
	if m.ctrl.Local().BypassMode {
		t.Error("revert should undo the toggle")
	}
}

func TestSettingsPanelQuitConfirmsWhenDirty(t *testing.T) {
	m := loadedSettingsPanel(t, api.NewFake())

	// Clean panel quits immediately.
	quit, cmd := stepSettings(t, m, keyMsg("q"))
	if cmd == nil || !quit.quitting {
		t.Error("clean panel should quit without confirmation")
	}

	// Dirty panel asks first.
	m, _ = stepSettings(t, m, keyMsg(" "))
	m, cmd = stepSettings(t, m, keyMsg("q"))
	if cmd != nil {
		t.Error("dirty panel should not quit immediately")
	}
	if m.confirming != confirmQuit {
		t.Fatal("dirty panel should enter discard confirmation")
	}
	if !strings.Contains(m.View(), "Discard unsaved changes?") {
		t.Error("confirmation prompt should render")
	}

	// "n" cancels and keeps the edits.
	m, _ = stepSettings(t, m, keyMsg("n"))
	if m.confirming != confirmNone {
		t.Error("n should cancel the confirmation")
	}
	if !m.ctrl.IsDirty() {
		t.Error("cancelling should keep the edits")
	}

	// "y" discards and quits.
	m, _ = stepSettings(t, m, keyMsg("q"))
	m, cmd = stepSettings(t, m, keyMsg("y"))
	if cmd == nil || !m.quitting {
		t.Error("y should quit")
	}
	if m.ctrl.IsDirty() {
		t.Error("discarding should drop the edits")
	}
}

func TestSettingsPanelStaleSaveDropped(t *testing.T) {
	fake := api.NewFake()
	m := loadedSettingsPanel(t, fake)

	m, _ = stepSettings(t, m, keyMsg(" "))
	m, cmd := stepSettings(t, m, keyMsg("s"))
	saved := cmd() // response not yet delivered

	// The user reverts while the request is in flight.
	m, _ = stepSettings(t, m, keyMsg("r"))

	m, _ = stepSettings(t, m, saved)
	if m.ctrl.Local().BypassMode {
		t.Error("stale save response clobbered the reverted state")
	}
	if strings.Contains(m.View(), "Saved.") {
		t.Error("stale save should not report success")
	}
}

func TestSettingsPanelReloadConfirmsWhenDirty(t *testing.T) {
	fake := api.NewFake()
	m := loadedSettingsPanel(t, fake)

	// A clean panel reloads straight away.
	clean, cmd := stepSettings(t, m, keyMsg("l"))
	if cmd == nil || !clean.loading {
		t.Error("clean panel should reload without confirmation")
	}

	// A dirty panel must ask before dropping the edits.
	m, _ = stepSettings(t, m, keyMsg(" "))
	m, cmd = stepSettings(t, m, keyMsg("l"))
	if cmd != nil {
		t.Error("dirty panel should not reload immediately")
	}
	if m.confirming != confirmReload {
		t.Fatal("dirty panel should confirm before reloading")
	}
	if !strings.Contains(m.View(), "Discard unsaved changes and reload?") {
		t.Error("reload confirmation prompt should render")
	}

	// "n" keeps the edits and stays put.
	m, _ = stepSettings(t, m, keyMsg("n"))
	if !m.ctrl.IsDirty() {
		t.Error("cancelling the reload should keep the edits")
	}

	// "y" reloads; the fresh server copy replaces the edits.
	m, _ = stepSettings(t, m, keyMsg("l"))
	m, cmd = stepSettings(t, m, keyMsg("y"))
	if cmd == nil || !m.loading {
		t.Fatal("confirming should issue the load")
	}
	m, _ = stepSettings(t, m, cmd())
	if m.ctrl.IsDirty() {
		t.Error("reload should drop the local edits")
	}
	if m.ctrl.Local().BypassMode {
		t.Error("reload should restore the server copy")
	}
}

func TestSettingsPanelLoadFailureOffersRetry(t *testing.T) {
	fake := api.NewFake()
	fake.FailNext["get_settings"] = errors.New("connection refused")

	m := NewSettingsPanel(fake, nil, "proj-1")
	m, _ = stepSettings(t, m, m.loadCmd()())
	if m.loadErr == nil {
		t.Fatal("load failure should be recorded")
	}
	if !strings.Contains(m.View(), "failed to load settings") {
		t.Error("view should surface the load failure")
	}

	// "l" retries; the fake succeeds this time.
	m, cmd := stepSettings(t, m, keyMsg("l"))
	if cmd == nil {
		t.Fatal("retry should issue a load command")
	}
	m, _ = stepSettings(t, m, cmd())
	if m.loadErr != nil {
		t.Errorf("retry failed: %v", m.loadErr)
	}
	if !m.ctrl.Loaded() {
		t.Error("retry should load settings")
	}
}
