package clipboard

import (
	"bytes"
	"os/exec"
	"strings"

	"github.com/takak2166/mailassist/internal/logger"
)

// runner executes clipboard helper programs
type runner interface {
	// Output runs a command and returns its stdout
	Output(args []string) ([]byte, error)
	// Feed runs a command with stdin and does not wait on its stdout, since
	// helpers like xclip fork and keep serving the selection.
	Feed(args []string, stdin string) error
}

type execRunner struct{}

func (execRunner) Output(args []string) ([]byte, error) {
	return exec.Command(args[0], args[1:]...).Output()
}

func (execRunner) Feed(args []string, stdin string) error {
	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stdin = strings.NewReader(stdin)
	return cmd.Run()
}

// commandTransport drives the desktop's clipboard helper programs. These
// helpers own one target per invocation, so writes carry plain text only.
type commandTransport struct {
	name     string
	write    []string
	readText []string
	list     []string              // nil when targets cannot be listed
	readType func(string) []string // nil when HTML cannot be read
	run      runner
}

func newCommandTransport(goos string, getenv func(string) string, lookPath func(string) (string, error), run runner) (*commandTransport, bool) {
	has := func(program string) bool {
		_, err := lookPath(program)
		return err == nil
	}

	switch {
	case goos == "darwin" && has("pbcopy") && has("pbpaste"):
		return &commandTransport{
			name:     "pbcopy",
			write:    []string{"pbcopy"},
			readText: []string{"pbpaste"},
			run:      run,
		}, true
	case goos == "windows":
		return nil, false
	case getenv("WAYLAND_DISPLAY") != "" && has("wl-copy") && has("wl-paste"):
		return &commandTransport{
			name:     "wl-clipboard",
			write:    []string{"wl-copy"},
			readText: []string{"wl-paste", "--no-newline"},
			list:     []string{"wl-paste", "--list-types"},
			readType: func(target string) []string {
				return []string{"wl-paste", "--no-newline", "--type", target}
			},
			run: run,
		}, true
	case has("xclip"):
		return &commandTransport{
			name:     "xclip",
			write:    []string{"xclip", "-selection", "clipboard", "-in"},
			readText: []string{"xclip", "-selection", "clipboard", "-out"},
			list:     []string{"xclip", "-selection", "clipboard", "-out", "-target", "TARGETS"},
			readType: func(target string) []string {
				return []string{"xclip", "-selection", "clipboard", "-out", "-target", target}
			},
			run: run,
		}, true
	}
	return nil, false
}

func (t *commandTransport) Name() string {
	return t.name
}

func (t *commandTransport) targets() []string {
	if t.list == nil {
		return nil
	}
	out, err := t.run.Output(t.list)
	if err != nil {
		return nil
	}
	// one target per line; names such as "HTML Format" contain spaces
	var targets []string
	for _, line := range strings.Split(string(out), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			targets = append(targets, line)
		}
	}
	return targets
}

func (t *commandTransport) ReadHTML() ([]byte, bool) {
	if t.readType == nil {
		return nil, false
	}
	for _, target := range orderTargets(t.targets()) {
		out, err := t.run.Output(t.readType(target))
		if err != nil {
			logger.Debug("Clipboard target unavailable", map[string]interface{}{
				"transport": t.name,
				"target":    target,
			})
			continue
		}
		if len(bytes.TrimSpace(out)) > 0 {
			return out, true
		}
	}
	return nil, false
}

func (t *commandTransport) ReadText() (string, bool) {
	out, err := t.run.Output(t.readText)
	if err != nil || len(out) == 0 {
		return "", false
	}
	return string(out), true
}

func (t *commandTransport) Write(plain, _ string) bool {
	if err := t.run.Feed(t.write, plain); err != nil {
		logger.Debug("Clipboard write failed", map[string]interface{}{
			"transport": t.name,
			"error":     err.Error(),
		})
		return false
	}
	return true
}
