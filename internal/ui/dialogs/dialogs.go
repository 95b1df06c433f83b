// Package dialogs stacks modal dialogs on top of the application view.
package dialogs

import (
	"slices"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/kpumuk/lazycharts/internal/ui/charts"
)

// DialogID identifies a dialog instance.
type DialogID string

// DialogModel represents a dialog component that can be displayed.
type DialogModel interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (DialogModel, tea.Cmd)
	View() string
	// Position returns the row and column of the top-left corner.
	Position() (int, int)
	ID() DialogID
}

// OpenDialogMsg is sent to open a dialog. A dialog already in the stack is
// moved to the top with its state kept.
type OpenDialogMsg struct {
	Model DialogModel
}

// CloseDialogMsg is sent to close the topmost dialog.
type CloseDialogMsg struct{}

// Close returns a command closing the topmost dialog.
func Close() tea.Msg { return CloseDialogMsg{} }

// Stack manages the open dialogs. Only the topmost one receives input.
type Stack struct {
	keys          KeyMap
	width, height int
	dialogs       []DialogModel
}

// NewStack creates an empty dialog stack.
func NewStack() Stack {
	return Stack{keys: DefaultKeyMap()}
}

// Update handles dialog lifecycle and forwards messages to the active dialog.
func (s Stack) Update(msg tea.Msg) (Stack, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		cmds := make([]tea.Cmd, 0, len(s.dialogs))
		for i := range s.dialogs {
			var cmd tea.Cmd
			s.dialogs[i], cmd = s.dialogs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return s, tea.Batch(cmds...)
	case OpenDialogMsg:
		return s.open(msg.Model)
	case CloseDialogMsg:
		if len(s.dialogs) > 0 {
			s.dialogs = slices.Clone(s.dialogs[:len(s.dialogs)-1])
		}
		return s, nil
	case tea.KeyMsg:
		if s.HasDialogs() && key.Matches(msg, s.keys.Close) {
			return s, Close
		}
	}

	if !s.HasDialogs() {
		return s, nil
	}
	last := len(s.dialogs) - 1
	var cmd tea.Cmd
	s.dialogs = slices.Clone(s.dialogs)
	s.dialogs[last], cmd = s.dialogs[last].Update(msg)
	return s, cmd
}

// HasDialogs reports whether any dialog is open.
func (s Stack) HasDialogs() bool {
	return len(s.dialogs) > 0
}

// Dialogs returns the open dialogs, bottom first.
func (s Stack) Dialogs() []DialogModel {
	return s.dialogs
}

// ActiveModel returns the topmost dialog, or nil.
func (s Stack) ActiveModel() DialogModel {
	if len(s.dialogs) == 0 {
		return nil
	}
	return s.dialogs[len(s.dialogs)-1]
}

// ActiveDialogID returns the ID of the topmost dialog, or "".
func (s Stack) ActiveDialogID() DialogID {
	if m := s.ActiveModel(); m != nil {
		return m.ID()
	}
	return ""
}

// Overlay draws the open dialogs over background, bottom first.
func (s Stack) Overlay(background string) string {
	for _, dialog := range s.dialogs {
		row, col := dialog.Position()
		background = charts.Overlay(background, dialog.View(), col, row)
	}
	return background
}

func (s Stack) open(model DialogModel) (Stack, tea.Cmd) {
	if s.ActiveDialogID() == model.ID() {
		return s, nil
	}

	dialogs := slices.Clone(s.dialogs)
	if idx := slices.IndexFunc(dialogs, func(d DialogModel) bool { return d.ID() == model.ID() }); idx >= 0 {
		model = dialogs[idx]
		dialogs = slices.Delete(dialogs, idx, idx+1)
		s.dialogs = append(dialogs, model)
		return s, nil
	}

	init := model.Init()
	model, cmd := model.Update(tea.WindowSizeMsg{Width: s.width, Height: s.height})
	s.dialogs = append(dialogs, model)
	return s, tea.Batch(init, cmd)
}
