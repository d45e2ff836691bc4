package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/takak2166/mailassist/internal/assistant"
	"github.com/takak2166/mailassist/internal/chat"
	"github.com/takak2166/mailassist/internal/clipboard"
	"github.com/takak2166/mailassist/internal/config"
	"github.com/takak2166/mailassist/internal/history"
	"github.com/takak2166/mailassist/internal/markdown"
	"github.com/takak2166/mailassist/internal/models"
)

var envKeys = []string{
	"OPENAI_API_KEY", "OPENAI_BASE_URL", "DEFAULT_MODEL",
	"NOTION_API_KEY", "NOTION_DATABASE_ID",
	"HISTORY_DB", "LOG_LEVEL", "ASSISTANT_SETTINGS",
}

type fakeGenerator struct {
	reply   string
	err     error
	models  []string
	prompts []string
}

func (f *fakeGenerator) Generate(_ context.Context, model, prompt string) (string, error) {
	f.models = append(f.models, model)
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

type fakeTransport struct {
	html     []byte
	text     string
	writable bool
	plain    string
	fragment string
}

func (f *fakeTransport) Name() string { return "fake" }

func (f *fakeTransport) ReadHTML() ([]byte, bool) { return f.html, len(f.html) > 0 }

func (f *fakeTransport) ReadText() (string, bool) { return f.text, f.text != "" }

func (f *fakeTransport) Write(plain, fragment string) bool {
	if !f.writable {
		return false
	}
	f.plain, f.fragment = plain, fragment
	return true
}

type fakeTracker struct {
	calls []string
}

func (f *fakeTracker) CreateTask(_ context.Context, req models.TaskRequest) (string, error) {
	f.calls = append(f.calls, "task:"+req.Name)
	return "T1", nil
}

func (f *fakeTracker) CreateComment(_ context.Context, taskID, text string) error {
	f.calls = append(f.calls, "comment:"+taskID+":"+text)
	return nil
}

func (f *fakeTracker) CreateSubtask(_ context.Context, taskID, name string) (string, error) {
	f.calls = append(f.calls, "subtask:"+taskID+":"+name)
	return "S-" + name, nil
}

type harness struct {
	t           *testing.T
	dir         string
	historyPath string
	stdin       string
	gen         *fakeGenerator
	clip        *fakeTransport
	tracker     *fakeTracker
	stdout      *bytes.Buffer
	stderr      *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	dir := t.TempDir()
	h := &harness{
		t:           t,
		dir:         dir,
		historyPath: filepath.Join(dir, "history.db"),
		gen:         &fakeGenerator{},
		clip:        &fakeTransport{writable: true},
		tracker:     &fakeTracker{},
	}
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("HISTORY_DB", h.historyPath)
	return h
}

func (h *harness) run(args ...string) error {
	h.t.Helper()
	h.stdout = &bytes.Buffer{}
	h.stderr = &bytes.Buffer{}

	a := newApp()
	a.stdin = strings.NewReader(h.stdin)
	a.newGenerator = func(*config.Config) chat.Generator { return h.gen }
	a.newTracker = func(*config.Config) (assistant.Tracker, error) { return h.tracker, nil }
	a.newClipboard = func() *clipboard.Manager { return clipboard.NewManager(h.clip) }

	cmd := newRootCommand(a)
	cmd.SetArgs(append([]string{"--env", filepath.Join(h.dir, "missing.env"), "--color", "never"}, args...))
	cmd.SetOut(h.stdout)
	cmd.SetErr(h.stderr)
	return cmd.Execute()
}

func (h *harness) writeFile(name, content string) string {
	h.t.Helper()
	path := filepath.Join(h.dir, name)
	require.NoError(h.t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRenderCommand(t *testing.T) {
	h := newHarness(t)
	input := "Summary:\n- one\n- two"
	want := assistant.Render(input)

	h.stdin = input
	require.NoError(t, h.run("render"))
	assert.Equal(t, want.RenderedHTML+"\n", h.stdout.String())

	h.stdin = input
	require.NoError(t, h.run("render", "--format", "plain"))
	assert.Equal(t, markdown.ToPlainText(want.RawMarkdown)+"\n", h.stdout.String())

	assert.Empty(t, h.gen.prompts)
}

func TestRenderCommandInvalidFormat(t *testing.T) {
	h := newHarness(t)
	err := h.run("render", "--format", "pdf")
	assert.ErrorContains(t, err, `invalid format "pdf"`)
}

func TestSummarizeCommand(t *testing.T) {
	h := newHarness(t)
	h.gen.reply = "Summary:\n\n1. Call client\n2. Send invoice"
	h.stdin = "Hi team, please call the client."

	require.NoError(t, h.run("summarize", "--tasks", "--copy"))

	raw := markdown.Normalize(h.gen.reply)
	assert.Equal(t, raw+"\n", h.stdout.String())
	assert.Contains(t, h.stderr.String(), generatingMessage)
	assert.Contains(t, h.stderr.String(), "Copied to clipboard")

	require.Len(t, h.gen.prompts, 1)
	assert.Equal(t, []string{config.DefaultModel}, h.gen.models)
	assert.Contains(t, h.gen.prompts[0], "Hi team, please call the client.")
	assert.Contains(t, h.gen.prompts[0], "numbered list of tasks")
	assert.Equal(t, markdown.ToPlainText(raw), h.clip.plain)
	assert.Equal(t, markdown.ToHTML(raw), h.clip.fragment)

	store, err := history.Open(h.historyPath)
	require.NoError(t, err)
	defer store.Close()
	entries, err := store.Recent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, assistant.ModeSummarize, entries[0].Mode)
	assert.Equal(t, h.gen.prompts[0], entries[0].Input)
	assert.Equal(t, raw, entries[0].Output)
}

func TestSummarizeCommandSources(t *testing.T) {
	h := newHarness(t)
	h.gen.reply = "ok"

	h.clip.text = "Pasted message"
	require.NoError(t, h.run("summarize", "--paste", "--model", "o4-mini"))
	assert.Contains(t, h.gen.prompts[0], "Pasted message")
	assert.Equal(t, "o4-mini", h.gen.models[0])

	mail := h.writeFile("mail.txt", "Message from a file")
	notes := h.writeFile("notes.txt", "Attached document")
	require.NoError(t, h.run("summarize", "-f", mail, "--attach", notes))
	assert.Contains(t, h.gen.prompts[1], "Message from a file")
	assert.Contains(t, h.gen.prompts[1], "Attached document")

	err := h.run("summarize", "-f", mail, "--attach", h.writeFile("notes.pdf", "%PDF"))
	assert.ErrorIs(t, err, assistant.ErrUnsupportedAttachment)

	h.clip.text = ""
	err = h.run("summarize", "--paste")
	assert.ErrorIs(t, err, errClipboardEmpty)
	assert.Len(t, h.gen.prompts, 2)
}

func TestSummarizeCommandErrors(t *testing.T) {
	h := newHarness(t)

	h.stdin = "   "
	assert.ErrorIs(t, h.run("summarize"), assistant.ErrEmptyInput)

	h.stdin = "mail"
	h.gen.err = &chat.ProviderError{StatusCode: 401, Err: errors.New("invalid key")}
	err := h.run("summarize")
	assert.True(t, chat.IsProviderError(err))
	assert.Empty(t, h.stdout.String())

	require.NoError(t, os.Unsetenv("OPENAI_API_KEY"))
	assert.ErrorIs(t, h.run("summarize"), config.ErrMissingOpenAIKey)
}

func TestDraftCommand(t *testing.T) {
	h := newHarness(t)
	h.gen.reply = "Thanks, will do."
	h.stdin = "Can you send the report?"

	require.NoError(t, h.run("draft", "--tone", "Casual", "--length", "short"))
	require.Len(t, h.gen.prompts, 1)
	assert.Contains(t, h.gen.prompts[0], "Draft a one to two sentence casual reply")

	err := h.run("draft", "--length", "Huge")
	assert.ErrorContains(t, err, `invalid length "Huge"`)
	assert.Len(t, h.gen.prompts, 1)
}

func TestInvoiceCommand(t *testing.T) {
	h := newHarness(t)
	h.gen.reply = "**Invoicing notes:**"
	h.stdin = "Replaced the router"

	require.NoError(t, h.run("invoice", "--job", " Site visit ", "--format", "html"))
	assert.Contains(t, h.gen.prompts[0], "Invoicing Notes: Site visit\nReplaced the router")
	assert.Equal(t, markdown.ToHTML(markdown.Normalize(h.gen.reply))+"\n", h.stdout.String())
}

func TestPromptCommand(t *testing.T) {
	h := newHarness(t)
	h.gen.reply = "- 3 March"
	mail := h.writeFile("mail.txt", "Meeting on 3 March")

	require.NoError(t, h.run("prompt", "List", "the", "dates", "--include-email", "-f", mail))
	assert.True(t, strings.HasPrefix(h.gen.prompts[0], "List the dates\n\nHere is the message for context:\nMeeting on 3 March"))

	require.NoError(t, h.run("prompt", "Say hello"))
	assert.NotContains(t, h.gen.prompts[1], "message for context")

	assert.Error(t, h.run("prompt"))
}

func TestHistoryCommands(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run("history", "list"))
	assert.Equal(t, "No history yet\n", h.stdout.String())

	h.gen.reply = "Summary: the client wants a call"
	h.stdin = "mail"
	require.NoError(t, h.run("summarize"))
	h.stdin = "mail"
	h.gen.reply = "Sure, I can call tomorrow."
	require.NoError(t, h.run("draft", "--tone", "Casual"))

	require.NoError(t, h.run("history", "list"))
	lines := strings.Split(strings.TrimSpace(h.stdout.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "draft/Casual")
	assert.Contains(t, lines[0], "Sure, I can call tomorrow.")
	assert.Contains(t, lines[1], "summarize")

	require.NoError(t, h.run("history", "list", "-n", "1"))
	assert.Len(t, strings.Split(strings.TrimSpace(h.stdout.String()), "\n"), 1)

	require.NoError(t, h.run("history", "show", "1"))
	assert.Equal(t, "Summary: the client wants a call\n", h.stdout.String())

	require.NoError(t, h.run("history", "show", "1", "--input"))
	assert.Contains(t, h.stdout.String(), "Summarize the following message")

	assert.ErrorIs(t, h.run("history", "show", "99"), history.ErrNotFound)
	assert.ErrorContains(t, h.run("history", "show", "first"), `invalid history id "first"`)
}

func TestSendCommand(t *testing.T) {
	h := newHarness(t)
	t.Setenv("NOTION_API_KEY", "secret")
	t.Setenv("NOTION_DATABASE_ID", "db")
	mail := h.writeFile("mail.txt", "Hello\n")

	h.stdin = "Summarize this:\n\n1. Call client\n2. Send invoice"
	require.NoError(t, h.run("send", "--name", "Follow up", "--email", mail, "--due", "2026-11-01"))

	assert.Equal(t, []string{
		"task:Follow up",
		"comment:T1:Hello",
		"subtask:T1:Call client",
		"subtask:T1:Send invoice",
	}, h.tracker.calls)
	assert.Equal(t, "Created task T1 (2 subtasks)\n", h.stdout.String())
}

func TestSendCommandFromHistory(t *testing.T) {
	h := newHarness(t)
	t.Setenv("NOTION_API_KEY", "secret")
	t.Setenv("NOTION_DATABASE_ID", "db")

	h.gen.reply = "Tasks:\n\n1. Book the visit"
	h.stdin = "mail"
	require.NoError(t, h.run("summarize"))

	require.NoError(t, h.run("send", "--history", "1", "--name", "Visit"))
	assert.Equal(t, []string{"task:Visit", "comment:T1:", "subtask:T1:Book the visit"}, h.tracker.calls)
}

func TestSendCommandValidation(t *testing.T) {
	h := newHarness(t)

	h.stdin = "Summary"
	assert.ErrorContains(t, h.run("send", "--name", "t", "--due", "01/11/2026"), `invalid due date "01/11/2026"`)

	h.stdin = "Summary"
	assert.ErrorIs(t, h.run("send"), assistant.ErrMissingTaskName)

	h.stdin = ""
	assert.ErrorIs(t, h.run("send", "--name", "t"), assistant.ErrEmptySummary)

	h.stdin = "Summary"
	assert.ErrorIs(t, h.run("send", "--name", "t"), config.ErrMissingNotionKey)
	assert.Empty(t, h.tracker.calls)
}

func TestClipboardCommands(t *testing.T) {
	h := newHarness(t)

	h.stdin = "**Done**"
	require.NoError(t, h.run("copy"))
	assert.Equal(t, markdown.ToHTML("**Done**"), h.clip.fragment)

	h.stdin = "  "
	assert.ErrorIs(t, h.run("copy"), assistant.ErrEmptyInput)

	h.clip.writable = false
	h.stdin = "text"
	assert.ErrorIs(t, h.run("copy"), errClipboardUnavailable)

	h.clip.text = "  pasted text \n"
	require.NoError(t, h.run("paste"))
	assert.Equal(t, "pasted text\n", h.stdout.String())

	h.clip.text = ""
	assert.ErrorIs(t, h.run("paste"), errClipboardEmpty)
}

func TestInvalidColorMode(t *testing.T) {
	h := newHarness(t)
	cmd := newRootCommand(newApp())
	cmd.SetArgs([]string{"--env", filepath.Join(h.dir, "missing.env"), "--color", "rainbow", "history", "list"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	assert.ErrorContains(t, cmd.Execute(), `invalid color mode "rainbow"`)
}

func TestIsColorEnabled(t *testing.T) {
	var buf bytes.Buffer
	assert.True(t, isColorEnabled("always", &buf))
	assert.False(t, isColorEnabled("never", &buf))
	assert.False(t, isColorEnabled("auto", &buf))
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "first line", preview("  first line\nsecond"))
	long := strings.Repeat("é", previewLength+5)
	assert.Equal(t, strings.Repeat("é", previewLength)+"…", preview(long))
}
