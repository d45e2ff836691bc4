package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// styles for listings and status lines
type styles struct {
	Heading lipgloss.Style
	Mode    lipgloss.Style
	Dim     lipgloss.Style
	Status  lipgloss.Style
	Success lipgloss.Style
}

func newStyles(colorEnabled bool) styles {
	if !colorEnabled {
		plain := lipgloss.NewStyle()
		return styles{
			Heading: plain,
			Mode:    plain,
			Dim:     plain,
			Status:  plain,
			Success: plain,
		}
	}
	return styles{
		Heading: lipgloss.NewStyle().Bold(true),
		Mode:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		Dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Status:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Italic(true),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
	}
}

// isColorEnabled resolves the --color mode for writer.
// In auto mode color needs a terminal and an unset NO_COLOR.
func isColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		if os.Getenv("NO_COLOR") != "" {
			return false
		}
		if f, ok := writer.(*os.File); ok {
			return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
		return false
	}
}

func validateColorMode(mode string) error {
	switch mode {
	case "auto", "always", "never":
		return nil
	default:
		return fmt.Errorf("invalid color mode %q: must be auto, always or never", mode)
	}
}

func (a *app) styles(w io.Writer) styles {
	return newStyles(isColorEnabled(a.color, w))
}
