// Package logs renders console entries for a terminal.
package logs

import (
	"strings"

	"github.com/bnema/rnbridge/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

type Renderer struct {
	errorStyle    lipgloss.Style
	warningStyle  lipgloss.Style
	locationStyle lipgloss.Style
	plainStyle    lipgloss.Style
	faintStyle    lipgloss.Style
}

func NewRenderer() Renderer {
	return Renderer{
		errorStyle:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		warningStyle:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		locationStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		plainStyle:    lipgloss.NewStyle(),
		faintStyle:    lipgloss.NewStyle().Faint(true),
	}
}

// Entry renders one entry as one or two lines, without a trailing newline.
// Errors and warnings are prefixed and followed by their location.
func (r Renderer) Entry(entry domain.LogEntry) string {
	var b strings.Builder

	switch entry.Level {
	case domain.LogLevelError:
		b.WriteString(r.errorStyle.Render("ERROR: " + entry.Message))
	case domain.LogLevelWarn:
		b.WriteString(r.warningStyle.Render("WARNING: " + entry.Message))
	case domain.LogLevelDebug:
		b.WriteString(r.faintStyle.Render(entry.Message))
	default:
		b.WriteString(r.plainStyle.Render(entry.Message))
	}

	if entry.Location != nil && entry.Level.Locatable() {
		b.WriteString("\n")
		b.WriteString(r.locationStyle.Render("  at " + entry.Location.String()))
	}

	return b.String()
}

func (r Renderer) Empty() string {
	return r.faintStyle.Render("No logs received.")
}
