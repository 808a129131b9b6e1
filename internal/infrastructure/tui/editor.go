package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jalvemo/planera/pkg/domain/schedule"
)

const timeLayout = "2006-01-02 15:04"

// Field order in the editor modal.
const (
	fieldTitle = iota
	fieldStart
	fieldEnd
	fieldResource
	fieldOrder
	fieldDescription
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Title",
	"Start (2006-01-02 15:04)",
	"End",
	"Resource ID",
	"Order ID",
	"Description",
}

// editorForm is the modal that edits exactly one draft. Lifecycle rules
// (commit, discard, delete) live in the editor service; the form only
// holds field values.
type editorForm struct {
	inputs     []textinput.Model
	focusIndex int
	allDay     bool
	source     schedule.DraftSource
	persisted  bool
	busy       bool
	err        error
}

func newEditorForm(draft schedule.Draft) editorForm {
	f := editorForm{
		inputs:    make([]textinput.Model, fieldCount),
		source:    draft.Source,
		persisted: draft.IsPersisted(),
		allDay:    draft.AllDay,
	}

	for i := range f.inputs {
		input := textinput.New()
		input.CharLimit = 200
		input.Width = 40
		f.inputs[i] = input
	}
	f.inputs[fieldTitle].SetValue(draft.Title)
	if !draft.Start.IsZero() {
		f.inputs[fieldStart].SetValue(draft.Start.Format(timeLayout))
	}
	if !draft.End.IsZero() {
		f.inputs[fieldEnd].SetValue(draft.End.Format(timeLayout))
	}
	f.inputs[fieldResource].SetValue(draft.ResourceID)
	f.inputs[fieldOrder].SetValue(draft.OrderID)
	f.inputs[fieldDescription].SetValue(draft.Description)

	f.inputs[fieldTitle].Focus()
	return f
}

// toJob parses the form fields back into a job. Time parse failures are
// reported as field-level validation errors.
func (f *editorForm) toJob() (schedule.Job, error) {
	job := schedule.Job{
		Title:       strings.TrimSpace(f.inputs[fieldTitle].Value()),
		AllDay:      f.allDay,
		ResourceID:  strings.TrimSpace(f.inputs[fieldResource].Value()),
		OrderID:     strings.TrimSpace(f.inputs[fieldOrder].Value()),
		Description: f.inputs[fieldDescription].Value(),
	}

	if v := strings.TrimSpace(f.inputs[fieldStart].Value()); v != "" {
		start, err := time.ParseInLocation(timeLayout, v, time.Local)
		if err != nil {
			return job, &schedule.ValidationError{Field: "start", Reason: "expected format 2006-01-02 15:04"}
		}
		job.Start = start
	}
	if v := strings.TrimSpace(f.inputs[fieldEnd].Value()); v != "" {
		end, err := time.ParseInLocation(timeLayout, v, time.Local)
		if err != nil {
			return job, &schedule.ValidationError{Field: "end", Reason: "expected format 2006-01-02 15:04"}
		}
		job.End = end
	}
	return job, nil
}

func (f *editorForm) update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "tab", "down":
			f.setFocus(f.focusIndex + 1)
			return nil
		case "shift+tab", "up":
			f.setFocus(f.focusIndex - 1)
			return nil
		case "ctrl+a":
			f.allDay = !f.allDay
			return nil
		}
	}

	cmds := make([]tea.Cmd, len(f.inputs))
	for i := range f.inputs {
		f.inputs[i], cmds[i] = f.inputs[i].Update(msg)
	}
	return tea.Batch(cmds...)
}

func (f *editorForm) setFocus(index int) {
	if index < 0 {
		index = fieldCount - 1
	}
	if index >= fieldCount {
		index = 0
	}
	f.focusIndex = index
	for i := range f.inputs {
		if i == index {
			f.inputs[i].Focus()
			f.inputs[i].PromptStyle = focusedStyle
			continue
		}
		f.inputs[i].Blur()
		f.inputs[i].PromptStyle = blurredStyle
	}
}

func (f *editorForm) view() string {
	title := "New job"
	switch f.source {
	case schedule.DraftExisting:
		title = "Edit job"
	case schedule.DraftDragPlacement:
		title = "Place order"
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(title))
	b.WriteString("\n\n")

	for i, input := range f.inputs {
		label := fieldLabels[i]
		if i == f.focusIndex {
			b.WriteString(focusedStyle.Render(label))
		} else {
			b.WriteString(blurredStyle.Render(label))
		}
		b.WriteString("\n")
		b.WriteString(input.View())
		b.WriteString("\n")
	}

	allDay := "[ ] All day (ctrl+a)"
	if f.allDay {
		allDay = "[x] All day (ctrl+a)"
	}
	b.WriteString(allDay)
	b.WriteString("\n")

	if f.busy {
		b.WriteString(statusOKStyle.Render("\nSaving..."))
	}
	if f.err != nil {
		b.WriteString(statusErrStyle.Render(fmt.Sprintf("\n%v", f.err)))
	}

	keys := "[ctrl+s] Save  [esc] Cancel"
	if f.persisted {
		keys += "  [ctrl+d] Delete"
	}
	b.WriteString(helpStyle.Render("\n" + keys))

	return modalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, b.String()))
}
