package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atlasai/zelig/internal/conversation"
	"github.com/atlasai/zelig/internal/render"
)

func newTestModel(t *testing.T, g conversation.GuideFunc) Model {
	t.Helper()
	m := NewModel(conversation.New(g), Options{Backend: "echo"})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(Model)
}

func typeText(m Model, text string) Model {
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return updated.(Model)
}

func press(m Model, k tea.KeyType) (Model, tea.Cmd) {
	updated, cmd := m.Update(tea.KeyMsg{Type: k})
	return updated.(Model), cmd
}

// runCmd executes cmd and flattens batches into their messages.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func findReply(t *testing.T, msgs []tea.Msg) replyMsg {
	t.Helper()
	for _, msg := range msgs {
		if r, ok := msg.(replyMsg); ok {
			return r
		}
	}
	t.Fatalf("no replyMsg among %d messages", len(msgs))
	return replyMsg{}
}

func staticGuide(reply string, err error) conversation.GuideFunc {
	return func(context.Context, string) (string, error) {
		return reply, err
	}
}

func TestNewModel(t *testing.T) {
	m := NewModel(conversation.New(staticGuide("ok", nil)), Options{})

	if m.ready {
		t.Error("model should not be ready before the first WindowSizeMsg")
	}
	if m.active != viewChat {
		t.Errorf("active = %v, want %v", m.active, viewChat)
	}
	if !m.sidebarOpen {
		t.Error("sidebar should start open")
	}
	if m.ctx == nil {
		t.Error("context should default to Background")
	}
	if got := m.View(); !strings.Contains(got, "Initialisation") {
		t.Errorf("View() before sizing = %q", got)
	}
}

func TestModel_WindowSize(t *testing.T) {
	m := newTestModel(t, staticGuide("ok", nil))

	if !m.ready {
		t.Fatal("model should be ready after WindowSizeMsg")
	}
	if m.viewport.Height < 5 {
		t.Errorf("viewport height = %d, want >= 5", m.viewport.Height)
	}
	if want := 120 - (sidebarWidth + 2) - 2; m.viewport.Width != want {
		t.Errorf("viewport width = %d, want %d", m.viewport.Width, want)
	}
}

func TestModel_TypingUpdatesDraft(t *testing.T) {
	m := newTestModel(t, staticGuide("ok", nil))
	m = typeText(m, "Riad pas cher ?")

	if got := m.conv.Draft(); got != "Riad pas cher ?" {
		t.Errorf("Draft() = %q, want %q", got, "Riad pas cher ?")
	}
	if m.conv.Len() != 1 {
		t.Errorf("typing should not touch the transcript, got %d entries", m.conv.Len())
	}
	if m.conv.Pending() {
		t.Error("typing should not set pending")
	}
}

func TestModel_EnterSubmitsAndResolves(t *testing.T) {
	var prompt string
	m := newTestModel(t, func(_ context.Context, text string) (string, error) {
		prompt = text
		return "À 2h30 de route, plein ouest.", nil
	})
	m = typeText(m, "Where is Essaouira?")

	m, cmd := press(m, tea.KeyEnter)
	if cmd == nil {
		t.Fatal("enter should return a command")
	}
	if !m.conv.Pending() {
		t.Error("controller should be pending after enter")
	}
	if m.textarea.Value() != "" {
		t.Errorf("textarea should be cleared, got %q", m.textarea.Value())
	}

	reply := findReply(t, runCmd(cmd))
	if prompt != "Where is Essaouira?" {
		t.Errorf("guide got %q", prompt)
	}

	updated, _ := m.Update(reply)
	m = updated.(Model)

	if m.conv.Pending() {
		t.Error("controller should be idle after the reply")
	}
	transcript := m.conv.Transcript()
	if len(transcript) != 3 {
		t.Fatalf("transcript has %d entries, want 3", len(transcript))
	}
	if transcript[2].Content != "À 2h30 de route, plein ouest." {
		t.Errorf("reply = %q", transcript[2].Content)
	}
}

func TestModel_FailureShowsFallback(t *testing.T) {
	m := newTestModel(t, staticGuide("", errors.New("connection refused")))
	m = typeText(m, "test")

	m, cmd := press(m, tea.KeyEnter)
	updated, _ := m.Update(findReply(t, runCmd(cmd)))
	m = updated.(Model)

	last, ok := m.conv.LastReply()
	if !ok || last != conversation.FallbackReply {
		t.Errorf("LastReply() = %q, want fallback", last)
	}
	if m.conv.Pending() {
		t.Error("controller should be idle after a failure")
	}
}

func TestModel_EnterIgnoredWhilePending(t *testing.T) {
	m := newTestModel(t, staticGuide("ok", nil))
	m = typeText(m, "first")
	m, first := press(m, tea.KeyEnter)
	if !m.conv.Pending() {
		t.Fatal("expected a pending reply after the first enter")
	}

	m = typeText(m, "second")
	if got := m.conv.Draft(); got != "second" {
		t.Errorf("Draft() while pending = %q, want %q", got, "second")
	}
	if got := m.textarea.Value(); got != "second" {
		t.Errorf("textarea while pending = %q, want %q", got, "second")
	}

	m, cmd := press(m, tea.KeyEnter)
	if cmd != nil {
		t.Error("enter while pending should not return a command")
	}
	if m.conv.Len() != 2 {
		t.Errorf("transcript has %d entries, want 2", m.conv.Len())
	}
	if got := m.conv.Draft(); got != "second" {
		t.Errorf("Draft() after rejected enter = %q, want %q", got, "second")
	}

	// Once the reply lands, the kept draft goes out as the next turn.
	updated, _ := m.Update(findReply(t, runCmd(first)))
	m = updated.(Model)
	m, cmd = press(m, tea.KeyEnter)
	if cmd == nil {
		t.Fatal("enter after the reply should dispatch the kept draft")
	}
	transcript := m.conv.Transcript()
	if got := transcript[len(transcript)-1]; got.Role != conversation.RoleUser || got.Content != "second" {
		t.Errorf("last message = %+v, want user %q", got, "second")
	}
}

func TestModel_EnterIgnoredWhenBlank(t *testing.T) {
	m := newTestModel(t, staticGuide("ok", nil))
	m = typeText(m, "   ")

	m, cmd := press(m, tea.KeyEnter)
	if cmd != nil {
		t.Error("blank enter should not return a command")
	}
	if m.conv.Pending() || m.conv.Len() != 1 {
		t.Errorf("blank enter changed state: pending=%v len=%d", m.conv.Pending(), m.conv.Len())
	}
}

func TestModel_ExitWords(t *testing.T) {
	for _, word := range []string{"exit", "quit", "/exit", "/quit"} {
		t.Run(word, func(t *testing.T) {
			m := newTestModel(t, staticGuide("ok", nil))
			m = typeText(m, word)

			m, cmd := press(m, tea.KeyEnter)
			if cmd == nil {
				t.Fatal("expected quit command")
			}
			if _, ok := cmd().(tea.QuitMsg); !ok {
				t.Error("expected tea.QuitMsg")
			}
			if m.conv.Len() != 1 {
				t.Error("exit word should not be sent to the guide")
			}
		})
	}
}

func TestModel_QuitKeys(t *testing.T) {
	for _, k := range []tea.KeyType{tea.KeyEsc, tea.KeyCtrlC} {
		m := newTestModel(t, staticGuide("ok", nil))
		_, cmd := press(m, k)
		if cmd == nil {
			t.Fatalf("%v: expected quit command", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%v: expected tea.QuitMsg", k)
		}
	}
}

func TestModel_ViewSwitching(t *testing.T) {
	m := newTestModel(t, staticGuide("ok", nil))

	want := []view{viewPlanner, viewSafety, viewNotes, viewChat}
	for _, v := range want {
		m, _ = press(m, tea.KeyTab)
		if m.active != v {
			t.Errorf("after tab active = %v, want %v", m.active, v)
		}
	}

	m, _ = press(m, tea.KeyShiftTab)
	if m.active != viewNotes {
		t.Errorf("after shift+tab active = %v, want %v", m.active, viewNotes)
	}
}

func TestModel_EnterOutsideChatIgnored(t *testing.T) {
	m := newTestModel(t, staticGuide("ok", nil))
	m = typeText(m, "bonjour")
	m, _ = press(m, tea.KeyTab)

	m, cmd := press(m, tea.KeyEnter)
	if cmd != nil {
		t.Error("enter on a static panel should do nothing")
	}
	if m.conv.Len() != 1 {
		t.Errorf("transcript has %d entries, want 1", m.conv.Len())
	}
}

func TestModel_SidebarToggle(t *testing.T) {
	m := newTestModel(t, staticGuide("ok", nil))
	width := m.viewport.Width

	m, _ = press(m, tea.KeyCtrlB)
	if m.sidebarOpen {
		t.Error("ctrl+b should close the sidebar")
	}
	if m.viewport.Width <= width {
		t.Errorf("viewport should widen, got %d (was %d)", m.viewport.Width, width)
	}
	if strings.Contains(m.View(), "Digital Marrakech") {
		t.Error("closed sidebar should not be rendered")
	}

	m, _ = press(m, tea.KeyCtrlB)
	if !m.sidebarOpen {
		t.Error("second ctrl+b should reopen the sidebar")
	}
	if !strings.Contains(m.View(), "Digital Marrakech") {
		t.Error("open sidebar should show the brand")
	}
}

func TestModel_CopyLastReply(t *testing.T) {
	var copied string
	orig := clipboardWriteAll
	clipboardWriteAll = func(s string) error {
		copied = s
		return nil
	}
	defer func() { clipboardWriteAll = orig }()

	m := newTestModel(t, staticGuide("ok", nil))
	m, cmd := press(m, tea.KeyCtrlY)

	if copied != conversation.Greeting {
		t.Errorf("copied %q, want the greeting", copied)
	}
	if m.feedback == "" || m.feedbackIsError {
		t.Errorf("feedback = %q (error=%v)", m.feedback, m.feedbackIsError)
	}
	if cmd == nil {
		t.Error("expected a feedback clear command")
	}

	updated, _ := m.Update(feedbackClearMsg{})
	if updated.(Model).feedback != "" {
		t.Error("feedbackClearMsg should clear the feedback")
	}
}

func TestModel_CopyLastReplyError(t *testing.T) {
	orig := clipboardWriteAll
	clipboardWriteAll = func(string) error { return errors.New("no display") }
	defer func() { clipboardWriteAll = orig }()

	m := newTestModel(t, staticGuide("ok", nil))
	m, _ = press(m, tea.KeyCtrlY)

	if !m.feedbackIsError || !strings.Contains(m.feedback, "no display") {
		t.Errorf("feedback = %q (error=%v)", m.feedback, m.feedbackIsError)
	}
}

func TestModel_View(t *testing.T) {
	m := newTestModel(t, staticGuide("ok", nil))

	tests := []struct {
		name string
		view view
		want []string
	}{
		{"chat", viewChat, []string{"Explorez la Ville Rouge", "Salam", footerText}},
		{"planner", viewPlanner, []string{"Jemaa el-Fna", "Majorelle"}},
		{"safety", viewSafety, []string{"Police", "19", "177", "15"}},
		{"notes", viewNotes, []string{"Carnet"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m.active = tt.view
			out := m.View()
			for _, s := range tt.want {
				if !strings.Contains(out, s) {
					t.Errorf("View() missing %q", s)
				}
			}
		})
	}
}

func TestModel_WelcomeBannerHidden(t *testing.T) {
	m := newTestModel(t, staticGuide("Le souk ouvre vers 9h.", nil))
	m = typeText(m, "Horaires du souk ?")
	m, cmd := press(m, tea.KeyEnter)

	if !strings.Contains(m.viewport.View(), "Explorez") {
		t.Error("banner should still show with two entries")
	}

	updated, _ := m.Update(findReply(t, runCmd(cmd)))
	m = updated.(Model)

	if strings.Contains(m.viewport.View(), "Explorez") {
		t.Error("banner should be hidden once the transcript has three entries")
	}
}

func TestModel_PendingView(t *testing.T) {
	m := newTestModel(t, staticGuide("ok", nil))
	m = typeText(m, "question")
	m, _ = press(m, tea.KeyEnter)

	m = typeText(m, "brouillon")

	view := m.View()
	if !strings.Contains(view, "Zelig réfléchit") {
		t.Error("pending view should show the loading indicator")
	}
	if !strings.Contains(view, "brouillon") {
		t.Error("pending view should keep the draft visible")
	}
}

func TestModel_RendersMarkdownReplies(t *testing.T) {
	conv := conversation.New(staticGuide("**Bahia**", nil))
	m := NewModel(conv, Options{Renderer: render.New(render.DefaultOptions().WithStyle("dark"))})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = updated.(Model)

	m = typeText(m, "palais ?")
	m, cmd := press(m, tea.KeyEnter)
	updated, _ = m.Update(findReply(t, runCmd(cmd)))
	m = updated.(Model)

	if strings.Contains(m.viewport.View(), "**Bahia**") {
		t.Error("assistant markdown should be rendered")
	}
}

func TestViewCycle(t *testing.T) {
	if viewChat.prev() != viewNotes {
		t.Errorf("viewChat.prev() = %v, want %v", viewChat.prev(), viewNotes)
	}
	if viewNotes.next() != viewChat {
		t.Errorf("viewNotes.next() = %v, want %v", viewNotes.next(), viewChat)
	}
	if got := view(42).String(); got != "unknown" {
		t.Errorf("String() = %q, want unknown", got)
	}
}
