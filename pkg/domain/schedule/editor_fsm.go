package schedule

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// Editor lifecycle states. Untyped string constants for statekit.StateID
// compatibility.
const (
	EditorClosed     = "closed"
	EditorOpen       = "open"
	EditorCommitting = "committing"
	EditorDiscarding = "discarding"
	EditorDeleting   = "deleting"
)

// Editor lifecycle events.
const (
	EventOpen    = "open"
	EventCommit  = "commit"
	EventDiscard = "discard"
	EventDelete  = "delete"
	EventSucceed = "succeed"
	EventFail    = "fail"
)

// EditorContext carries the guard used to gate commit and delete while
// store I/O for the same draft is still in flight.
type EditorContext struct {
	Guard func(event string) bool
}

// EditorStateMachine owns the editor's lifecycle: exactly one draft may
// be open, commits and deletes suspend the editor until the store call
// resolves, and a failed call returns to open with the draft intact.
type EditorStateMachine struct {
	interpreter *statekit.Interpreter[EditorContext]
}

// NewEditorStateMachine builds the machine starting in the closed state.
func NewEditorStateMachine(guard func(event string) bool) (*EditorStateMachine, error) {
	if guard == nil {
		guard = func(string) bool { return true }
	}

	builder := statekit.NewMachine[EditorContext]("editor-machine").
		WithInitial(EditorClosed).
		WithContext(EditorContext{Guard: guard}).
		WithGuard("editorGuard", func(ctx EditorContext, e statekit.Event) bool {
			return ctx.Guard(string(e.Type))
		})

	builder.State(EditorClosed).
		On(EventOpen).Target(EditorOpen).
		Done()

	builder.State(EditorOpen).
		On(EventCommit).Target(EditorCommitting).Guard("editorGuard").
		On(EventDiscard).Target(EditorDiscarding).
		On(EventDelete).Target(EditorDeleting).Guard("editorGuard").
		Done()

	builder.State(EditorCommitting).
		On(EventSucceed).Target(EditorClosed).
		On(EventFail).Target(EditorOpen).
		Done()

	// Discard never touches the store, so it cannot fail.
	builder.State(EditorDiscarding).
		On(EventSucceed).Target(EditorClosed).
		Done()

	builder.State(EditorDeleting).
		On(EventSucceed).Target(EditorClosed).
		On(EventFail).Target(EditorOpen).
		Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build editor state machine: %w", err)
	}

	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()

	return &EditorStateMachine{interpreter: interpreter}, nil
}

// Transition attempts to move the editor through an event. If no
// transition matches the current state (or the guard blocks it), the
// state stays put and an error is returned.
func (sm *EditorStateMachine) Transition(event string) error {
	before := sm.Current()
	sm.interpreter.Send(statekit.Event{Type: statekit.EventType(event)})
	after := sm.Current()

	if before != after {
		return nil
	}
	return fmt.Errorf("the action %q is not allowed while the editor is %s", event, before)
}

// Current returns the current lifecycle state.
func (sm *EditorStateMachine) Current() string {
	return string(sm.interpreter.State().Value)
}

// IsOpen reports whether a draft is currently open (including suspended
// in a store call).
func (sm *EditorStateMachine) IsOpen() bool {
	return sm.Current() != EditorClosed
}
