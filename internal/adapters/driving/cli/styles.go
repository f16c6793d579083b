package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/custodia-labs/hygiene/internal/core/domain"
)

// Theme defines the colour palette for terminal output.
type Theme struct {
	// Primary is the main accent colour.
	Primary lipgloss.Color

	// Muted is for less important text.
	Muted lipgloss.Color

	// High marks High severity issues.
	High lipgloss.Color

	// Medium marks Medium severity issues.
	Medium lipgloss.Color

	// Low marks Low severity issues.
	Low lipgloss.Color

	// Success marks fixed issues and completed runs.
	Success lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary: lipgloss.Color("#7C3AED"), // Purple
		Muted:   lipgloss.Color("#6C7086"), // Medium gray
		High:    lipgloss.Color("#F38BA8"), // Red
		Medium:  lipgloss.Color("#F9E2AF"), // Yellow
		Low:     lipgloss.Color("#06B6D4"), // Cyan
		Success: lipgloss.Color("#A6E3A1"), // Green
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	Title   lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style

	severity map[domain.Severity]lipgloss.Style
	plain    bool
}

// NewStyles creates styles from a theme. A nil theme renders plain text.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		plain := lipgloss.NewStyle()
		return &Styles{
			Title:    plain,
			Muted:    plain,
			Success:  plain,
			Error:    plain,
			severity: map[domain.Severity]lipgloss.Style{},
			plain:    true,
		}
	}

	return &Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(theme.Primary),
		Muted:   lipgloss.NewStyle().Foreground(theme.Muted),
		Success: lipgloss.NewStyle().Foreground(theme.Success),
		Error:   lipgloss.NewStyle().Foreground(theme.High),
		severity: map[domain.Severity]lipgloss.Style{
			domain.SeverityHigh:   lipgloss.NewStyle().Bold(true).Foreground(theme.High),
			domain.SeverityMedium: lipgloss.NewStyle().Foreground(theme.Medium),
			domain.SeverityLow:    lipgloss.NewStyle().Foreground(theme.Low),
		},
	}
}

// Render applies style to text unless the styles are plain.
func (s *Styles) Render(style lipgloss.Style, text string) string {
	if s.plain {
		return text
	}
	return style.Render(text)
}

// Severity renders a severity label in its colour.
func (s *Styles) Severity(sev domain.Severity) string {
	style, ok := s.severity[sev]
	if !ok {
		return string(sev)
	}
	return s.Render(style, string(sev))
}

// Status renders a status label. Closed statuses are muted.
func (s *Styles) Status(st domain.Status) string {
	switch st {
	case domain.StatusFixed:
		return s.Render(s.Success, string(st))
	case domain.StatusIgnored:
		return s.Render(s.Muted, string(st))
	default:
		return string(st)
	}
}

// stylesFor returns coloured styles when w is a terminal, plain otherwise.
func stylesFor(w io.Writer) *Styles {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return NewStyles(DefaultTheme())
	}
	return NewStyles(nil)
}
