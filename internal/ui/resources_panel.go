package ui

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kivo360/omoictl/internal/api"
	"github.com/kivo360/omoictl/internal/journal"
	"github.com/kivo360/omoictl/internal/resources"
	"github.com/kivo360/omoictl/models"
)

// cardFields is the tab order within a card.
var cardFields = []string{resources.FieldCPU, resources.FieldMemory, resources.FieldDisk}

var cardFieldLabels = map[string]string{
	resources.FieldCPU:    "CPU cores",
	resources.FieldMemory: "Memory (GB)",
	resources.FieldDisk:   "Disk (GB)",
}

type resourcesLoadedMsg struct {
	records []models.SandboxResource
	summary models.ResourceSummary
	err     error
}

type allocationSavedMsg struct {
	sandboxID string
	gen       int
	record    models.SandboxResource
	err       error
}

// ResourcesPanel shows one allocation card per sandbox with live usage bars.
// Cards are independent: each has its own dirty state and its own in-flight
// apply.
type ResourcesPanel struct {
	provider api.Provider
	journal  *journal.Journal
	bounds   resources.Bounds

	cards    []*resources.Card
	cardIdx  int
	fieldIdx int

	spin       spinner.Model
	bar        progress.Model
	loading    bool
	loadErr    error
	summary    models.ResourceSummary
	confirming confirmAction
	status     string
	quitting   bool
}

// NewResourcesPanel builds the panel. journal may be nil.
func NewResourcesPanel(provider api.Provider, jnl *journal.Journal, bounds resources.Bounds) ResourcesPanel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = StylePrimary

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 30
	bar.ShowPercentage = false

	return ResourcesPanel{
		provider: provider,
		journal:  jnl,
		bounds:   bounds,
		spin:     sp,
		bar:      bar,
		loading:  true,
	}
}

// RunResourcesPanel opens the resources panel and blocks until it closes.
func RunResourcesPanel(provider api.Provider, jnl *journal.Journal, bounds resources.Bounds) error {
	p := tea.NewProgram(NewResourcesPanel(provider, jnl, bounds))
	_, err := p.Run()
	return err
}

func (m ResourcesPanel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		records, err := m.provider.ListSandboxResources(ctx)
		if err != nil {
			return resourcesLoadedMsg{err: err}
		}
		summary, err := m.provider.GetResourceSummary(ctx)
		if err != nil {
			return resourcesLoadedMsg{err: err}
		}
		return resourcesLoadedMsg{records: records, summary: summary}
	}
}

func (m ResourcesPanel) applyCmd(card *resources.Card, gen int, patch models.ResourceAllocationPatch) tea.Cmd {
	sandboxID := card.SandboxID
	return func() tea.Msg {
		rec, err := m.provider.UpdateAllocation(context.Background(), sandboxID, patch)
		return allocationSavedMsg{sandboxID: sandboxID, gen: gen, record: rec, err: err}
	}
}

func (m ResourcesPanel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.loadCmd())
}

func (m ResourcesPanel) current() *resources.Card {
	if m.cardIdx < 0 || m.cardIdx >= len(m.cards) {
		return nil
	}
	return m.cards[m.cardIdx]
}

func (m ResourcesPanel) cardByID(id string) *resources.Card {
	for _, c := range m.cards {
		if c.SandboxID == id {
			return c
		}
	}
	return nil
}

func (m ResourcesPanel) anyDirty() bool {
	for _, c := range m.cards {
		if c.IsDirty() {
			return true
		}
	}
	return false
}

func (m ResourcesPanel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case resourcesLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.loadErr = msg.err
			return m, nil
		}
		m.loadErr = nil
		m.summary = msg.summary
		sort.Slice(msg.records, func(i, j int) bool {
			return msg.records[i].SandboxID < msg.records[j].SandboxID
		})
		m.cards = m.cards[:0]
		for _, rec := range msg.records {
			card := resources.NewCard(rec.SandboxID, m.bounds)
			card.LoadResource(rec)
			m.cards = append(m.cards, card)
		}
		if m.cardIdx >= len(m.cards) {
			m.cardIdx = 0
		}
		return m, nil

	case allocationSavedMsg:
		card := m.cardByID(msg.sandboxID)
		if card == nil {
			return m, nil
		}
		if msg.err != nil {
			card.SaveFailed(msg.gen, msg.err)
			return m, nil
		}
		before := card.Server()
		if card.SaveSucceeded(msg.gen, msg.record.Allocation) {
			if m.journal != nil {
				_ = m.journal.RecordAllocationChange(msg.sandboxID, before, msg.record.Allocation)
			}
			m.status = fmt.Sprintf("Applied allocation for %s.", TruncateID(msg.sandboxID))
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

func (m ResourcesPanel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
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
			m.quitting = true
			return m, tea.Quit
		case "n", "N", "esc":
			m.confirming = confirmNone
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c", "q", "esc":
		if m.anyDirty() {
			m.confirming = confirmQuit
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit

	case "up", "k":
		if m.cardIdx > 0 {
			m.cardIdx--
			m.fieldIdx = 0
		}
	case "down", "j":
		if m.cardIdx < len(m.cards)-1 {
			m.cardIdx++
			m.fieldIdx = 0
		}

	case "tab":
		m.fieldIdx = (m.fieldIdx + 1) % len(cardFields)
	case "shift+tab":
		m.fieldIdx = (m.fieldIdx + len(cardFields) - 1) % len(cardFields)

	case "left", "h":
		if card := m.current(); card != nil && !card.Saving() {
			card.Adjust(cardFields[m.fieldIdx], -1)
		}
	case "right", "l":
		if card := m.current(); card != nil && !card.Saving() {
			card.Adjust(cardFields[m.fieldIdx], 1)
		}

	case "a", "enter":
		card := m.current()
		if card == nil {
			return m, nil
		}
		gen, ok := card.BeginSave()
		if !ok {
			return m, nil
		}
		m.status = ""
		return m, m.applyCmd(card, gen, card.Server().Diff(card.Local()))

	case "r":
		if card := m.current(); card != nil {
			card.Reset()
			m.status = fmt.Sprintf("Reverted %s.", TruncateID(card.SandboxID))
		}

	case "g":
		// Reload from the backend; also the retry action on load failure.
		// A reload drops unapplied edits on every card, so confirm first.
		if m.anyDirty() {
			m.confirming = confirmReload
			return m, nil
		}
		m.loading = true
		m.loadErr = nil
		return m, m.loadCmd()
	}
	return m, nil
}

func (m ResourcesPanel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(StyleSectionTitle.Render("Sandbox Resources"))
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString(fmt.Sprintf("  %s fetching sandboxes...\n", m.spin.View()))
		return b.String()
	}
	if m.loadErr != nil {
		b.WriteString(StyleError.Render(fmt.Sprintf("  failed to load resources: %v", m.loadErr)))
		b.WriteString("\n\n")
		b.WriteString(StyleSubtle.Render("  g retry • q quit"))
		b.WriteString("\n")
		return b.String()
	}
	if len(m.cards) == 0 {
		b.WriteString(StyleSubtle.Render("  no active sandboxes"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(StyleSubtle.Render(fmt.Sprintf("  %d sandboxes • %d cores • %d GB memory • %d GB disk allocated",
		m.summary.SandboxCount, m.summary.TotalCPUCores, m.summary.TotalMemoryGB, m.summary.TotalDiskGB)))
	b.WriteString("\n\n")

	for i, card := range m.cards {
		b.WriteString(m.renderCard(card, i == m.cardIdx))
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString(StylePrefixDone.Render("  " + m.status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch m.confirming {
	case confirmReload:
		b.WriteString(StyleWarning.Render("  Discard unsaved changes on all cards and reload? (y/n)"))
	case confirmQuit:
		b.WriteString(StyleWarning.Render("  Discard unsaved changes on all cards? (y/n)"))
	default:
		b.WriteString(StyleSubtle.Render("  ↑/↓ card • tab field • ←/→ adjust • a apply • r revert • g reload • q quit"))
	}
	b.WriteString("\n")
	return b.String()
}

func (m ResourcesPanel) renderCard(card *resources.Card, selected bool) string {
	alloc := card.Local()
	usage := card.Usage()

	var b strings.Builder
	title := fmt.Sprintf("sandbox %s", card.SandboxID)
	if card.IsDirty() {
		title += StyleWarning.Render(" *")
	}
	if card.Saving() {
		title += StyleSubtle.Render("  applying...")
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")

	values := map[string]int{
		resources.FieldCPU:    alloc.CPUCores,
		resources.FieldMemory: alloc.MemoryGB,
		resources.FieldDisk:   alloc.DiskGB,
	}
	percents := map[string]float64{
		resources.FieldCPU:    usage.CPUPercent,
		resources.FieldMemory: usage.MemoryPercent,
		resources.FieldDisk:   usage.DiskPercent,
	}

	for fi, field := range cardFields {
		marker := "  "
		labelStyle := StyleSubtle
		if selected && fi == m.fieldIdx {
			marker = "▶ "
			labelStyle = StyleText
		}
		b.WriteString(fmt.Sprintf("%s%s %s %s %s\n",
			marker,
			labelStyle.Render(fmt.Sprintf("%-12s", cardFieldLabels[field])),
			StyleValue.Render(fmt.Sprintf("%4d", values[field])),
			m.bar.ViewAs(percents[field]/100),
			StyleSubtle.Render(fmt.Sprintf("%.0f%% used", percents[field])),
		))
		if msg, bad := card.FieldError(field); bad {
			b.WriteString(StylePrefixError.Render("    ✗ " + msg))
			b.WriteString("\n")
		}
	}

	for _, w := range card.Warnings() {
		b.WriteString(StylePrefixWarn.Render("  ⚠ " + w))
		b.WriteString("\n")
	}
	if err := card.SaveErr(); err != nil {
		b.WriteString(StylePrefixError.Render(fmt.Sprintf("  ✗ apply failed: %v (press a to retry)", err)))
		b.WriteString("\n")
	}
	return b.String()
}
