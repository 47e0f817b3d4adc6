// Package form is the interactive terminal front end: an API key field, a
// single-ABN lookup, and a batch text box that exports to a spreadsheet.
//
// All state lives in Model. Long-running work (lookups, batches, saves) runs
// in tea.Cmds and reports back through messages, so the UI never blocks on
// the network.
package form

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/InfinityHack3r/abnBulkLookup/internal/abninput"
	"github.com/InfinityHack3r/abnBulkLookup/internal/export"
	"github.com/InfinityHack3r/abnBulkLookup/internal/lookup"
	"github.com/InfinityHack3r/abnBulkLookup/internal/types"
	"github.com/InfinityHack3r/abnBulkLookup/pkg/logger"
)

// Warnings shown for missing input.
const (
	MsgEnterABN    = "Please enter an ABN."
	MsgEnterAPIKey = "Please enter an API key."
	MsgEnterABNs   = "Please enter ABN(s) in the text box."
)

// Service is the lookup behaviour the form drives. *lookup.Service
// implements it.
type Service interface {
	Lookup(ctx context.Context, abn, apiKey string) (*types.Record, error)
	Batch(ctx context.Context, abns []string, apiKey string, progress lookup.ProgressFunc) *types.BatchResult
}

type field int

const (
	fieldAPIKey field = iota
	fieldABN
	fieldBatch
	fieldCount
)

type state int

const (
	stateIdle state = iota
	stateLookingUp
	stateBatching
	statePromptSave
	stateSaving
)

type dialogLevel int

const (
	levelInfo dialogLevel = iota
	levelWarning
	levelError
)

type dialog struct {
	level dialogLevel
	text  string
}

// Model is the form's bubbletea model.
type Model struct {
	ctx      context.Context
	service  Service
	exporter *export.Exporter
	styles   *Styles
	keymap   *KeyMap

	apiKey   textinput.Model
	abn      textinput.Model
	abns     textarea.Model
	savePath textinput.Model
	bar      progress.Model

	focus  field
	state  state
	result string
	dialog dialog

	done, total int
	events      <-chan tea.Msg
	pending     *types.BatchResult
}

// New creates the form. apiKey pre-fills the API key field.
func New(ctx context.Context, service Service, exporter *export.Exporter, apiKey string) *Model {
	keyInput := textinput.New()
	keyInput.Placeholder = "ABR authentication GUID"
	keyInput.EchoMode = textinput.EchoPassword
	keyInput.Width = 40
	keyInput.SetValue(apiKey)

	abn := textinput.New()
	abn.Placeholder = "e.g. 51 824 753 556"
	abn.CharLimit = 32
	abn.Width = 30

	abns := textarea.New()
	abns.Placeholder = "One ABN per line"
	abns.SetWidth(40)
	abns.SetHeight(8)
	abns.ShowLineNumbers = false

	savePath := textinput.New()
	savePath.Width = 60

	m := &Model{
		ctx:      ctx,
		service:  service,
		exporter: exporter,
		styles:   DefaultStyles(),
		keymap:   DefaultKeyMap(),
		apiKey:   keyInput,
		abn:      abn,
		abns:     abns,
		savePath: savePath,
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}
	if apiKey == "" {
		m.focus = fieldAPIKey
	} else {
		m.focus = fieldABN
	}
	m.applyFocus()

	return m
}

// Run starts the form on the terminal and blocks until it exits.
func Run(ctx context.Context, service Service, exporter *export.Exporter, apiKey string) error {
	_, err := tea.NewProgram(New(ctx, service, exporter, apiKey), tea.WithContext(ctx)).Run()
	return err
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// =============================================================================
// UPDATE
// =============================================================================

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.bar.Width = min(max(msg.Width-4, 10), 60)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case lookupDone:
		m.state = stateIdle
		if msg.Err != nil || msg.Record == nil {
			m.result = lookup.NotFoundMessage(msg.ABN)
		} else {
			m.result = renderRecord(msg.Record)
		}
		return m, nil

	case batchProgress:
		m.done, m.total = msg.Done, msg.Total
		return m, waitFor(m.events)

	case batchDone:
		return m.handleBatchDone(msg.Result)

	case saveDone:
		m.state = stateIdle
		m.pending = nil
		switch {
		case msg.Err != nil:
			m.dialog = dialog{levelError, fmt.Sprintf("Failed to save: %v", msg.Err)}
		default:
			m.dialog = dialog{levelInfo, msg.Outcome.Message}
		}
		m.applyFocus()
		return m, nil
	}

	return m.updateFocused(msg)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keymap.Quit) {
		return m, tea.Quit
	}

	if m.state == statePromptSave {
		switch {
		case key.Matches(msg, m.keymap.Lookup):
			return m, m.save()
		case key.Matches(msg, m.keymap.Cancel):
			m.state = stateIdle
			m.pending = nil
			m.dialog = dialog{levelWarning, export.MsgCancelled}
			m.applyFocus()
			return m, nil
		}
		return m.updateFocused(msg)
	}

	switch {
	case key.Matches(msg, m.keymap.Next):
		m.focus = (m.focus + 1) % fieldCount
		m.applyFocus()
		return m, nil
	case key.Matches(msg, m.keymap.Prev):
		m.focus = (m.focus + fieldCount - 1) % fieldCount
		m.applyFocus()
		return m, nil
	case key.Matches(msg, m.keymap.Batch):
		return m, m.startBatch()
	case key.Matches(msg, m.keymap.Lookup) && m.focus != fieldBatch:
		return m, m.startLookup()
	}

	return m.updateFocused(msg)
}

func (m *Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.state == statePromptSave {
		m.savePath, cmd = m.savePath.Update(msg)
		return m, cmd
	}
	switch m.focus {
	case fieldAPIKey:
		m.apiKey, cmd = m.apiKey.Update(msg)
	case fieldABN:
		m.abn, cmd = m.abn.Update(msg)
	case fieldBatch:
		m.abns, cmd = m.abns.Update(msg)
	}
	return m, cmd
}

func (m *Model) busy() bool { return m.state != stateIdle }

func (m *Model) startLookup() tea.Cmd {
	if m.busy() {
		return nil
	}

	abn := strings.TrimSpace(m.abn.Value())
	apiKey := strings.TrimSpace(m.apiKey.Value())
	if abn == "" {
		m.dialog = dialog{levelWarning, MsgEnterABN}
		return nil
	}
	if apiKey == "" {
		m.dialog = dialog{levelWarning, MsgEnterAPIKey}
		return nil
	}

	m.state = stateLookingUp
	m.dialog = dialog{}
	m.result = "Fetching..."

	ctx, service := m.ctx, m.service
	return func() tea.Msg {
		rec, err := service.Lookup(ctx, abn, apiKey)
		return lookupDone{ABN: abn, Record: rec, Err: err}
	}
}

func (m *Model) startBatch() tea.Cmd {
	if m.busy() {
		return nil
	}

	abns := abninput.SplitText(m.abns.Value())
	apiKey := strings.TrimSpace(m.apiKey.Value())
	if len(abns) == 0 {
		m.dialog = dialog{levelWarning, MsgEnterABNs}
		return nil
	}
	if apiKey == "" {
		m.dialog = dialog{levelWarning, MsgEnterAPIKey}
		return nil
	}

	m.state = stateBatching
	m.dialog = dialog{}
	m.done, m.total = 0, len(abns)

	// Buffered for every progress event plus the result so the batch
	// never waits on the UI.
	events := make(chan tea.Msg, len(abns)+1)
	m.events = events

	ctx, service := m.ctx, m.service
	go func() {
		defer close(events)
		res := service.Batch(ctx, abns, apiKey, func(done, total int) {
			events <- batchProgress{Done: done, Total: total}
		})
		events <- batchDone{Result: res}
	}()

	return waitFor(events)
}

// waitFor delivers the next message from a running batch.
func waitFor(events <-chan tea.Msg) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return nil
		}
		return msg
	}
}

func (m *Model) handleBatchDone(res *types.BatchResult) (tea.Model, tea.Cmd) {
	m.events = nil
	m.done, m.total = res.Stats.Total, res.Stats.Total

	if res.Stats.Found == 0 {
		m.state = stateIdle
		m.dialog = dialog{levelInfo, export.MsgNothingToSave}
		return m, nil
	}

	logger.Debug(m.ctx, "batch ready to save", zap.String("run_id", res.RunID))

	m.pending = res
	m.state = statePromptSave
	m.savePath.SetValue(m.exporter.SuggestedPath(res.StartedAt))
	m.savePath.CursorEnd()
	m.dialog = dialog{levelInfo, "Enter a file name and press enter to save, esc to cancel."}
	m.applyFocus()

	return m, nil
}

func (m *Model) save() tea.Cmd {
	path := strings.TrimSpace(m.savePath.Value())
	if path == "" {
		return nil
	}

	m.state = stateSaving
	res, exporter, ctx := m.pending, m.exporter, m.ctx
	return func() tea.Msg {
		records, missing := export.Partition(res.Items)
		out, err := exporter.Save(ctx, path, records, missing, res.StartedAt)
		return saveDone{Outcome: out, Err: err}
	}
}

func (m *Model) applyFocus() {
	m.apiKey.Blur()
	m.abn.Blur()
	m.abns.Blur()
	m.savePath.Blur()

	if m.state == statePromptSave {
		m.savePath.Focus()
		return
	}
	switch m.focus {
	case fieldAPIKey:
		m.apiKey.Focus()
	case fieldABN:
		m.abn.Focus()
	case fieldBatch:
		m.abns.Focus()
	}
}

// =============================================================================
// VIEW
// =============================================================================

// View implements tea.Model.
func (m *Model) View() string {
	s := m.styles
	var b strings.Builder

	b.WriteString(s.Title.Render("ABN Details Fetcher") + "\n\n")

	b.WriteString(s.Label.Render("Enter API Key:") + "\n")
	b.WriteString(s.Input.Render(m.apiKey.View()) + "\n")

	b.WriteString(s.Label.Render("Enter ABN:") + "\n")
	b.WriteString(s.Input.Render(m.abn.View()) + "\n")
	if m.result != "" {
		b.WriteString(s.Result.Render(m.result) + "\n")
	}
	b.WriteString("\n")

	b.WriteString(s.Label.Render("Enter ABNs (one per line for batch fetch):") + "\n")
	b.WriteString(s.Input.Render(m.abns.View()) + "\n")

	if m.total > 0 {
		b.WriteString(m.bar.ViewAs(float64(m.done)/float64(m.total)) + "\n")
		b.WriteString(s.Status.Render(progressText(m.done, m.total)) + "\n")
	}

	if m.state == statePromptSave || m.state == stateSaving {
		b.WriteString("\n" + s.Label.Render("Save as:") + "\n")
		b.WriteString(s.Input.Render(m.savePath.View()) + "\n")
	}

	if m.dialog.text != "" {
		b.WriteString("\n" + m.dialogStyle().Render(m.dialog.text) + "\n")
	}

	b.WriteString("\n" + s.Help.Render(helpLine(m.keymap.Next, m.keymap.Lookup, m.keymap.Batch, m.keymap.Quit)))

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (m *Model) dialogStyle() lipgloss.Style {
	switch m.dialog.level {
	case levelWarning:
		return m.styles.Warning
	case levelError:
		return m.styles.Error
	default:
		return m.styles.Info
	}
}

func progressText(done, total int) string {
	return fmt.Sprintf("%d/%d ABNs processed", done, total)
}

func renderRecord(rec *types.Record) string {
	fields := rec.Fields()
	lines := make([]string, len(fields))
	for i, f := range fields {
		lines[i] = f.Name + ": " + f.Value
	}
	return strings.Join(lines, "\n")
}
