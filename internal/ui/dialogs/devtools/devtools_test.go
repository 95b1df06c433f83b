package devtools

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	coredevtools "github.com/kpumuk/lazycharts/internal/devtools"
	"github.com/kpumuk/lazycharts/internal/ui/dialogs"
)

func keyText(text string) tea.KeyPressMsg {
	var code rune
	for _, r := range text {
		code = r
		break
	}
	return tea.KeyPressMsg(tea.Key{Text: text, Code: code})
}

func updateModel(t *testing.T, m *Model, msg tea.Msg) (*Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	updated, ok := next.(*Model)
	if !ok {
		t.Fatalf("Update returned %T, want *Model", next)
	}
	return updated, cmd
}

func seedTracker(n int) *coredevtools.Tracker {
	tracker := coredevtools.NewTracker()
	base := time.Date(2024, 1, 2, 3, 4, 5, 678000000, time.UTC)
	for i := range n {
		tracker.AppendLog(coredevtools.LogEntry{
			Time:   base.Add(time.Duration(i) * time.Second),
			Origin: "ui.refresh",
			Entry: coredevtools.Entry{
				Kind:     coredevtools.EntryCommand,
				Command:  "zrangebyscore charts:samples:web -inf +inf",
				Duration: 3 * time.Millisecond,
			},
		})
	}
	return tracker
}

func TestViewRendersLog(t *testing.T) {
	tracker := seedTracker(1)
	tracker.AppendLog(coredevtools.LogEntry{
		Time:   time.Date(2024, 1, 2, 3, 4, 6, 0, time.UTC),
		Origin: "render",
		Entry: coredevtools.Entry{
			Kind:    coredevtools.EntryCommand,
			Command: "hgetall charts:meta:web",
			Err:     "connection refused",
		},
	})

	m := New(WithTracker(tracker))
	m, _ = updateModel(t, m, tea.WindowSizeMsg{Width: 100, Height: 20})

	view := m.View()
	lines := strings.Split(ansi.Strip(view), "\n")
	if len(lines) != 10 {
		t.Fatalf("want 10 lines, got %d", len(lines))
	}
	for i, line := range lines {
		if ansi.StringWidth(line) != 100 {
			t.Fatalf("line %d width = %d", i, ansi.StringWidth(line))
		}
	}
	if !strings.Contains(lines[0], "Redis Commands") || !strings.Contains(lines[0], "2 cmds, 1 errors") {
		t.Fatalf("top border = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "│     # Time         Origin") {
		t.Fatalf("header = %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "│     0 03:04:05.678 ui.refresh        3ms zrangebyscore") {
		t.Fatalf("first row = %q", lines[2])
	}
	if !strings.Contains(lines[3], "hgetall charts:meta:web ! connection refused") {
		t.Fatalf("error row = %q", lines[3])
	}
}

func TestViewEmpty(t *testing.T) {
	m := New()
	m, _ = updateModel(t, m, tea.WindowSizeMsg{Width: 60, Height: 12})
	if !strings.Contains(ansi.Strip(m.View()), "No commands recorded.") {
		t.Fatalf("View() = %q", ansi.Strip(m.View()))
	}
}

func TestFollowAndScroll(t *testing.T) {
	tracker := seedTracker(20)
	m := New(WithTracker(tracker))
	m, _ = updateModel(t, m, tea.WindowSizeMsg{Width: 80, Height: 16})

	// 8 rows high: borders, header and 5 log rows.
	lines := strings.Split(ansi.Strip(m.View()), "\n")
	if !strings.Contains(lines[0], "[16-20/20]") {
		t.Fatalf("top border = %q", lines[0])
	}
	if !strings.HasPrefix(lines[6], "│    19 ") {
		t.Fatalf("last row = %q, want the newest entry", lines[6])
	}

	m, _ = updateModel(t, m, keyText("g"))
	lines = strings.Split(ansi.Strip(m.View()), "\n")
	if !strings.HasPrefix(lines[2], "│     0 ") {
		t.Fatalf("first row = %q after home", lines[2])
	}

	tracker.AppendLog(coredevtools.LogEntry{Origin: "ui.refresh", Entry: coredevtools.Entry{Command: "ping"}})
	lines = strings.Split(ansi.Strip(m.View()), "\n")
	if !strings.HasPrefix(lines[2], "│     0 ") {
		t.Fatal("scrolled view followed new entries")
	}

	m, _ = updateModel(t, m, keyText("G"))
	tracker.AppendLog(coredevtools.LogEntry{Origin: "ui.refresh", Entry: coredevtools.Entry{Command: "ping"}})
	lines = strings.Split(ansi.Strip(m.View()), "\n")
	if !strings.HasPrefix(lines[6], "│    21 ") {
		t.Fatalf("last row = %q, want to follow the tail", lines[6])
	}
}

func TestCloseKey(t *testing.T) {
	m := New()
	_, cmd := updateModel(t, m, keyText("t"))
	if cmd == nil {
		t.Fatal("expected close command")
	}
	if _, ok := cmd().(dialogs.CloseDialogMsg); !ok {
		t.Fatalf("unexpected message %T", cmd())
	}
	if m.ID() != DialogID {
		t.Fatalf("ID() = %q", m.ID())
	}
}
