package app

import (
	"fmt"
	"strings"

	"NameMyChild/internal/names"

	"github.com/charmbracelet/lipgloss"
)

var (
	brandBlue = lipgloss.Color("#2563EB")
	muted     = lipgloss.Color("#6B7280")
	danger    = lipgloss.Color("#DC2626")
	accent    = lipgloss.Color("#7C3AED")
)

type styles struct {
	Title    lipgloss.Style
	Heading  lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
	Selected lipgloss.Style
	Button   lipgloss.Style
	Focused  lipgloss.Style
	Disabled lipgloss.Style
	Card     lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(brandBlue),
		Heading:  lipgloss.NewStyle().Bold(true).Foreground(brandBlue).MarginTop(1),
		Muted:    lipgloss.NewStyle().Foreground(muted),
		Error:    lipgloss.NewStyle().Foreground(danger),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(accent),
		Button:   lipgloss.NewStyle().Padding(0, 2).Border(lipgloss.RoundedBorder()).BorderForeground(brandBlue),
		Focused:  lipgloss.NewStyle().Padding(0, 2).Border(lipgloss.RoundedBorder()).BorderForeground(accent).Bold(true),
		Disabled: lipgloss.NewStyle().Padding(0, 2).Border(lipgloss.RoundedBorder()).BorderForeground(muted).Foreground(muted),
		Card:     lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("#D1D5DB")),
	}
}

func (m Model) View() string {
	switch m.state.Page {
	case PageLogin:
		return m.viewLogin()
	case PageHome:
		return m.viewHome()
	}
	return m.styles.Muted.Render("Loading...") + "\n"
}

func (m Model) viewLogin() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Name My Child"))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Heading.Render("Sign in"))
	b.WriteString("\n")
	b.WriteString(m.email.View())
	b.WriteString("\n")
	b.WriteString(m.password.View())
	b.WriteString("\n\n")
	b.WriteString(m.styles.Muted.Render("enter: sign in • leave the password empty to get a magic link • tab: switch field • esc: quit"))
	b.WriteString("\n")
	m.writeStatus(&b)
	return b.String()
}

func (m Model) viewHome() string {
	var b strings.Builder

	header := m.styles.Title.Render("Name My Child")
	if m.state.User != nil {
		header += "  " + m.styles.Muted.Render(m.state.User.Email)
	}
	b.WriteString(header)
	b.WriteString("\n")

	b.WriteString(m.styles.Heading.Render("Enter Your Preferences"))
	b.WriteString("\n")
	b.WriteString(m.viewGender())
	b.WriteString("\n")
	b.WriteString(m.origin.View())
	b.WriteString("\n")
	b.WriteString(m.meaning.View())
	b.WriteString("\n")
	b.WriteString(m.viewGenerateButton())
	b.WriteString("\n")

	b.WriteString(m.styles.Heading.Render("Generated Names"))
	b.WriteString("\n")
	if len(m.state.Generated) == 0 {
		b.WriteString(m.styles.Muted.Render("No names generated yet."))
		b.WriteString("\n")
	} else {
		for i, name := range m.state.Generated {
			line := "  " + name
			if m.homeFocus == focusResults && i == m.cursor {
				line = m.styles.Selected.Render("> " + name + "  [save]")
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	b.WriteString(m.styles.Heading.Render("My Saved Names"))
	b.WriteString("\n")
	if len(m.state.Saved) == 0 {
		b.WriteString(m.styles.Muted.Render("You haven't saved any names yet."))
		b.WriteString("\n")
	} else {
		items := make([]string, 0, len(m.state.Saved))
		for _, s := range m.state.Saved {
			items = append(items, s.Name)
		}
		b.WriteString(m.styles.Card.Render(strings.Join(items, "\n")))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render("tab: next field • ←/→: gender • enter: generate/save • ctrl+o: sign out • ctrl+c: quit"))
	b.WriteString("\n")
	m.writeStatus(&b)
	return b.String()
}

func (m Model) viewGender() string {
	g, _ := names.GetGender(m.state.Prefs.Gender)
	label := g.Label
	text := fmt.Sprintf("Gender: ‹ %s ›", label)
	if m.homeFocus == focusGender {
		return m.styles.Selected.Render(text)
	}
	return text
}

func (m Model) viewGenerateButton() string {
	switch {
	case m.state.Busy:
		return m.styles.Disabled.Render("Generating Names...")
	case m.homeFocus == focusGenerate:
		return m.styles.Focused.Render("Generate Names")
	}
	return m.styles.Button.Render("Generate Names")
}

func (m Model) writeStatus(b *strings.Builder) {
	if m.state.Status == "" {
		return
	}
	style := m.styles.Muted
	if m.state.StatusErr {
		style = m.styles.Error
	}
	b.WriteString(style.Render(m.state.Status))
	b.WriteString("\n")
}
