package cli

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/client/models"
)

// Renderer formats transcript messages for the terminal. Assistant text is
// markdown; everything else is printed as is.
type Renderer struct {
	md *glamour.TermRenderer

	user      lipgloss.Style
	assistant lipgloss.Style
	failure   lipgloss.Style
	muted     lipgloss.Style
}

// NewRenderer returns a renderer wrapping at width columns. If glamour
// cannot be initialised, markdown is printed raw.
func NewRenderer(width int) *Renderer {
	r := &Renderer{
		user:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")),
		assistant: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#04B575")),
		failure:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF5F87")),
		muted:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
	md, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err == nil {
		r.md = md
	}
	return r
}

func (r *Renderer) Markdown(text string) string {
	if r.md == nil {
		return text
	}
	out, err := r.md.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}

func (r *Renderer) Message(m models.Message) string {
	switch m.Role {
	case models.RoleUser:
		return r.user.Render("You") + ": " + m.Text
	case models.RoleAssistant:
		return r.assistant.Render("Assistant") + ":\n" + r.Markdown(m.Text)
	case models.RoleError:
		return r.failure.Render("! " + m.Text)
	}
	return r.muted.Render(string(m.Role) + ": " + m.Text)
}

func (r *Renderer) Muted(s string) string {
	return r.muted.Render(s)
}

func (r *Renderer) Error(s string) string {
	return r.failure.Render(s)
}
