// Package targets renders the list of connected apps for a terminal.
package targets

import (
	"fmt"

	"github.com/bnema/rnbridge/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

type Renderer struct {
	titleStyle    lipgloss.Style
	appStyle      lipgloss.Style
	keyStyle      lipgloss.Style
	detailStyle   lipgloss.Style
	endpointStyle lipgloss.Style
	sectionStyle  lipgloss.Style
}

func NewRenderer() Renderer {
	return Renderer{
		titleStyle:    lipgloss.NewStyle().Bold(true),
		appStyle:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		keyStyle:      lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		detailStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		endpointStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("159")),
		sectionStyle:  lipgloss.NewStyle().MarginTop(1),
	}
}

// Render lays out targets as a numbered list in discovery order. Callers
// report an empty list as an error instead of rendering it.
func (r Renderer) Render(targets []domain.Target) string {
	lines := []string{r.titleStyle.Render(fmt.Sprintf("Found %d connected app(s):", len(targets)))}
	for i, target := range targets {
		lines = append(lines, r.sectionStyle.Render(r.target(i+1, target)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (r Renderer) target(n int, target domain.Target) string {
	parts := []string{
		r.appStyle.Render(fmt.Sprintf("%d. %s", n, target.DisplayName())),
		r.detail("ID", string(target.ID), r.detailStyle),
	}
	if target.DeviceName != "" {
		parts = append(parts, r.detail("Device", target.DeviceName, r.detailStyle))
	}
	if target.VM != "" {
		parts = append(parts, r.detail("VM", target.VM, r.detailStyle))
	}
	parts = append(parts, r.detail("WebSocket", target.Endpoint, r.endpointStyle))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (r Renderer) detail(key, value string, valueStyle lipgloss.Style) string {
	return "   " + r.keyStyle.Render(key+":") + " " + valueStyle.Render(value)
}
