package ui

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"github.com/atotto/clipboard"
)

func copyTextCmd(text string) tea.Cmd {
	if text == "" {
		return nil
	}
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return copyErrorMsg{err: fmt.Errorf("write clipboard: %w", err)}
		}
		return nil
	}
}
