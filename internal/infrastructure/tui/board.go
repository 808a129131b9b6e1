// Package tui renders the scheduling board: resource lanes over the
// day's hour slots, the unassigned-order pool, keyboard drag-and-drop
// from the pool onto a lane, and the modal event editor.
//
// It follows The Elm Architecture via bubbletea: gestures become
// messages, messages update the model, the model renders to a string.
// Store I/O runs in commands so only the open draft is suspended while
// a write is in flight.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jalvemo/planera/internal/infrastructure/config"
	"github.com/jalvemo/planera/pkg/application"
	"github.com/jalvemo/planera/pkg/domain/directory"
	"github.com/jalvemo/planera/pkg/domain/schedule"
	"github.com/jalvemo/planera/pkg/domain/workorder"
)

type focusArea int

const (
	focusBoard focusArea = iota
	focusPool
	focusEditor
)

// poolItem adapts an unassigned order for the bubbles list.
type poolItem struct {
	order workorder.Order
}

func (i poolItem) Title() string       { return fmt.Sprintf("#%s %s", i.order.OrderNumber, i.order.Title) }
func (i poolItem) Description() string { return i.order.CustomerName }
func (i poolItem) FilterValue() string { return i.order.OrderNumber + " " + i.order.Title }

// Messages.
type boardLoadedMsg struct {
	snapshot *application.BoardSnapshot
	err      error
}

type commitResultMsg struct {
	generation  int
	placementID string
	job         schedule.Job
	err         error
}

type deleteResultMsg struct {
	generation int
	err        error
}

type externalChangeMsg struct{}

// Model is the board application model.
type Model struct {
	schedule *application.ScheduleService
	board    *application.BoardService
	editor   *application.EditorService
	state    *schedule.State
	cfg      *config.BoardConfig

	snapshot *application.BoardSnapshot
	day      time.Time
	laneIdx  int
	slotIdx  int
	focus    focusArea

	pool   list.Model
	picked *workorder.Order

	// provisional holds the rendered placeholder blocks of drag drafts
	// that were never written to the store, keyed by placement handle.
	provisional map[string]schedule.Job

	form editorForm

	// reloads delivers external data-directory changes when --watch is on.
	reloads <-chan struct{}

	status string
	err    error
	width  int
	height int
}

// New builds the board model. reloads may be nil.
func New(scheduleSvc *application.ScheduleService, board *application.BoardService, editor *application.EditorService, state *schedule.State, cfg *config.BoardConfig, reloads <-chan struct{}) Model {
	if cfg == nil {
		cfg = config.DefaultBoardConfig()
	}

	pool := list.New(nil, list.NewDefaultDelegate(), 34, 18)
	pool.Title = "Unassigned orders"
	pool.SetShowStatusBar(false)
	pool.SetFilteringEnabled(false)

	now := time.Now()
	return Model{
		schedule:    scheduleSvc,
		board:       board,
		editor:      editor,
		state:       state,
		cfg:         cfg,
		day:         time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local),
		pool:        pool,
		provisional: make(map[string]schedule.Job),
		reloads:     reloads,
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadBoardCmd()}
	if m.reloads != nil {
		cmds = append(cmds, m.waitForReloadCmd())
	}
	return tea.Batch(cmds...)
}

func (m Model) loadBoardCmd() tea.Cmd {
	svc := m.schedule
	return func() tea.Msg {
		snapshot, err := svc.LoadBoard()
		return boardLoadedMsg{snapshot: snapshot, err: err}
	}
}

func (m Model) refreshCmd() tea.Cmd {
	svc := m.schedule
	return func() tea.Msg {
		snapshot, err := svc.Snapshot()
		return boardLoadedMsg{snapshot: snapshot, err: err}
	}
}

func (m Model) waitForReloadCmd() tea.Cmd {
	ch := m.reloads
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return externalChangeMsg{}
	}
}

func (m Model) commitCmd() tea.Cmd {
	editor := m.editor
	generation := editor.Generation()
	placementID := ""
	if draft, ok := editor.Draft(); ok {
		placementID = draft.PlacementID
	}
	return func() tea.Msg {
		job, err := editor.Commit()
		return commitResultMsg{generation: generation, placementID: placementID, job: job, err: err}
	}
}

func (m Model) deleteCmd() tea.Cmd {
	editor := m.editor
	generation := editor.Generation()
	return func() tea.Msg {
		err := editor.DeleteCommitted()
		return deleteResultMsg{generation: generation, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case boardLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.snapshot = msg.snapshot
		m.clampCursor()
		m.syncPool()
		return m, nil

	case externalChangeMsg:
		m.status = "Schedule changed on disk, reloading"
		return m, tea.Batch(m.loadBoardCmd(), m.waitForReloadCmd())

	case commitResultMsg:
		// A result for a draft that is no longer the open one is stale
		// and must be ignored.
		if msg.generation != m.editor.Generation() {
			return m, nil
		}
		if msg.err != nil {
			m.form.busy = false
			m.form.err = msg.err
			return m, nil
		}
		delete(m.provisional, msg.placementID)
		m.focus = focusBoard
		m.status = fmt.Sprintf("Saved %q", msg.job.Title)
		return m, m.refreshCmd()

	case deleteResultMsg:
		if msg.generation != m.editor.Generation() {
			return m, nil
		}
		if msg.err != nil {
			m.form.busy = false
			m.form.err = msg.err
			return m, nil
		}
		m.focus = focusBoard
		m.status = "Job deleted"
		return m, m.refreshCmd()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	switch m.focus {
	case focusPool:
		var cmd tea.Cmd
		m.pool, cmd = m.pool.Update(msg)
		return m, cmd
	case focusEditor:
		return m, m.form.update(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.focus == focusEditor {
		return m.handleEditorKey(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "tab":
		if m.focus == focusBoard {
			m.focus = focusPool
		} else {
			m.focus = focusBoard
		}
		return m, nil
	case "r":
		return m, m.loadBoardCmd()
	}

	if m.focus == focusPool {
		return m.handlePoolKey(msg)
	}
	return m.handleBoardKey(msg)
}

func (m Model) handleBoardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "h":
		if m.laneIdx > 0 {
			m.laneIdx--
		}
	case "right", "l":
		if m.laneIdx < len(m.lanes())-1 {
			m.laneIdx++
		}
	case "up", "k":
		if m.slotIdx > 0 {
			m.slotIdx--
		}
	case "down", "j":
		if m.slotIdx < m.slotCount()-1 {
			m.slotIdx++
		}
	case "[":
		m.day = m.day.AddDate(0, 0, -1)
	case "]":
		m.day = m.day.AddDate(0, 0, 1)
	case "esc":
		if m.picked != nil {
			m.picked = nil
			m.status = "Placement cancelled"
		}
	case "n":
		start := m.slotTime(m.slotIdx)
		draft := m.board.RangeDraft(start, start.Add(time.Hour), false)
		return m.openDraft(draft)
	case "enter", "e":
		if m.picked != nil {
			return m.dropPicked()
		}
		if job, ok := m.jobAtCursor(); ok {
			return m.openDraft(m.board.EditDraft(job))
		}
	}
	return m, nil
}

func (m Model) handlePoolKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		item, ok := m.pool.SelectedItem().(poolItem)
		if !ok {
			return m, nil
		}
		order := item.order
		m.picked = &order
		m.focus = focusBoard
		m.status = fmt.Sprintf("Placing #%s: pick a lane and slot, enter drops, esc cancels", order.OrderNumber)
		return m, nil
	}

	var cmd tea.Cmd
	m.pool, cmd = m.pool.Update(msg)
	return m, cmd
}

func (m Model) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.form.busy {
		// The open draft is suspended until the store call resolves.
		return m, nil
	}

	switch msg.String() {
	case "ctrl+s":
		job, err := m.form.toJob()
		if err != nil {
			m.form.err = err
			return m, nil
		}
		if err := m.editor.SetDraft(job); err != nil {
			m.form.err = err
			return m, nil
		}
		// Validate before suspending so a field error never leaves
		// the form.
		if draft, ok := m.editor.Draft(); ok {
			if err := draft.Validate(); err != nil {
				m.form.err = err
				return m, nil
			}
		}
		m.form.err = nil
		m.form.busy = true
		return m, m.commitCmd()

	case "ctrl+d":
		if !m.form.persisted {
			return m, nil
		}
		m.form.err = nil
		m.form.busy = true
		return m, m.deleteCmd()

	case "esc":
		placementID, err := m.editor.Discard()
		if err != nil {
			m.form.err = err
			return m, nil
		}
		if placementID != "" {
			delete(m.provisional, placementID)
		}
		m.focus = focusBoard
		m.status = "Draft discarded"
		return m, nil
	}

	cmd := m.form.update(msg)
	return m, cmd
}

// dropPicked turns the picked-up order plus the cursor position into a
// pending drag placement: the provisional block appears immediately and
// the editor opens on the draft.
func (m Model) dropPicked() (tea.Model, tea.Cmd) {
	order := *m.picked
	lane, ok := m.laneAt(m.laneIdx)
	if !ok {
		// Drop target does not resolve to a lane; keep holding the order.
		m.status = "No lane here"
		return m, nil
	}

	draft, err := m.board.DropDraft(order, lane, m.slotTime(m.slotIdx))
	if err != nil {
		m.status = err.Error()
		return m, nil
	}

	m.picked = nil
	m.provisional[draft.PlacementID] = draft.Job
	return m.openDraft(draft)
}

func (m Model) openDraft(draft schedule.Draft) (tea.Model, tea.Cmd) {
	if err := m.editor.Open(draft); err != nil {
		m.status = err.Error()
		if draft.PlacementID != "" {
			delete(m.provisional, draft.PlacementID)
		}
		return m, nil
	}
	m.form = newEditorForm(draft)
	m.focus = focusEditor
	m.err = nil
	return m, nil
}

// lanes returns the visible resource lanes.
func (m Model) lanes() []directory.Resource {
	if m.snapshot == nil {
		return nil
	}
	return m.snapshot.Resources
}

func (m Model) laneAt(idx int) (directory.Resource, bool) {
	lanes := m.lanes()
	if idx < 0 || idx >= len(lanes) {
		return directory.Resource{}, false
	}
	return lanes[idx], true
}

func (m Model) slotCount() int {
	n := m.cfg.DayEndHour - m.cfg.DayStartHour
	if n < 1 {
		return 1
	}
	return n
}

func (m Model) slotTime(idx int) time.Time {
	return m.day.Add(time.Duration(m.cfg.DayStartHour+idx) * time.Hour)
}

func (m *Model) clampCursor() {
	if n := len(m.lanes()); m.laneIdx >= n && n > 0 {
		m.laneIdx = n - 1
	}
	if m.slotIdx >= m.slotCount() {
		m.slotIdx = m.slotCount() - 1
	}
}

func (m *Model) syncPool() {
	if m.snapshot == nil {
		return
	}
	items := make([]list.Item, 0, len(m.snapshot.Unassigned))
	for _, o := range m.snapshot.Unassigned {
		items = append(items, poolItem{order: o})
	}
	m.pool.SetItems(items)
}

// blockAt finds a committed or provisional block covering the slot in
// the given lane.
func (m Model) blockAt(resourceID string, slotStart time.Time) (schedule.Job, bool, bool) {
	slotEnd := slotStart.Add(time.Hour)
	covers := func(j schedule.Job) bool {
		if j.ResourceID != resourceID {
			return false
		}
		if j.AllDay {
			y1, m1, d1 := j.Start.Date()
			y2, m2, d2 := slotStart.Date()
			return y1 == y2 && m1 == m2 && d1 == d2
		}
		return j.Start.Before(slotEnd) && j.EffectiveEnd().After(slotStart)
	}

	for _, j := range m.state.Jobs() {
		if covers(j) {
			return j, true, false
		}
	}
	for _, j := range m.provisional {
		if covers(j) {
			return j, true, true
		}
	}
	return schedule.Job{}, false, false
}

func (m Model) jobAtCursor() (schedule.Job, bool) {
	lane, ok := m.laneAt(m.laneIdx)
	if !ok {
		return schedule.Job{}, false
	}
	job, found, provisional := m.blockAt(lane.ID, m.slotTime(m.slotIdx))
	if !found || provisional {
		return schedule.Job{}, false
	}
	return job, true
}

func (m Model) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error loading board: %v\nPress q to quit.", m.err)
	}
	if m.snapshot == nil {
		return "Loading schedule..."
	}
	if m.focus == focusEditor {
		return m.form.view()
	}

	header := headerStyle.Render("planera " + m.day.Format("Mon 2 Jan 2006"))
	grid := m.renderGrid()

	right := m.pool.View()
	if m.picked != nil {
		right += "\n" + statusOKStyle.Render(fmt.Sprintf("Holding #%s", m.picked.OrderNumber))
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, grid, "  ", right)

	statusLine := ""
	if m.status != "" {
		statusLine = statusOKStyle.Render(m.status)
	}
	help := helpStyle.Render("[tab] Pool  [n] New  [enter] Edit/Drop  [[/]] Day  [r] Reload  [q] Quit")

	return baseStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, body, statusLine, help)) + "\n"
}

func (m Model) renderGrid() string {
	lanes := m.lanes()
	if len(lanes) == 0 {
		return slotStyle.Render("No resources in the directory snapshot.\nRun `planera resources --sync <file>` first.")
	}

	ordersByID := workorder.Index(m.snapshot.Orders)
	resourcesByID := directory.Index(m.snapshot.Resources)

	const cellWidth = 28
	columns := make([]string, 0, len(lanes))
	for li, lane := range lanes {
		var col strings.Builder

		name := lane.DisplayName
		laneStyle := laneHeaderStyle.Foreground(lipgloss.Color(m.state.ColorFor(lane.ID)))
		col.WriteString(laneStyle.Render(padCell(name, cellWidth)))
		col.WriteString("\n")

		for si := 0; si < m.slotCount(); si++ {
			slotStart := m.slotTime(si)
			cell := fmt.Sprintf("%02d:00", slotStart.Hour())

			if job, found, provisional := m.blockAt(lane.ID, slotStart); found {
				label := m.board.BlockLabel(job, ordersByID, resourcesByID)
				style := lipgloss.NewStyle().Foreground(lipgloss.Color(m.state.ColorFor(job.ResourceID)))
				if provisional {
					style = provisionalStyle
					label += " (unsaved)"
				}
				cell = style.Render(padCell(label, cellWidth))
			} else {
				cell = slotStyle.Render(padCell(cell, cellWidth))
			}

			if li == m.laneIdx && si == m.slotIdx && m.focus == focusBoard {
				cell = cursorSlotStyle.Render(padCell(stripCell(cell), cellWidth))
			}
			col.WriteString(cell)
			col.WriteString("\n")
		}
		columns = append(columns, col.String())
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}

// padCell pads or truncates to a display width; byte length lies for
// multibyte titles like "Byt lås".
func padCell(s string, width int) string {
	if lipgloss.Width(s) > width {
		runes := []rune(s)
		for len(runes) > 0 && lipgloss.Width(string(runes)) > width-1 {
			runes = runes[:len(runes)-1]
		}
		return string(runes) + "…"
	}
	return s + strings.Repeat(" ", width-lipgloss.Width(s))
}

// stripCell drops previously applied styling so the cursor style wins.
func stripCell(s string) string {
	return strings.TrimRight(stripANSI(s), " ")
}

func stripANSI(s string) string {
	var b strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case inEscape:
			if r == 'm' {
				inEscape = false
			}
		case r == '\x1b':
			inEscape = true
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
