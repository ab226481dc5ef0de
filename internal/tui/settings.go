package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gerunddev/mdlatex/internal/config"
	"github.com/gerunddev/mdlatex/internal/latex"
	"github.com/gerunddev/mdlatex/internal/mdast"
	"github.com/gerunddev/mdlatex/internal/styles"
)

type field int

const (
	fieldDelimiter field = iota
	fieldMinted
	fieldStandalone
	fieldLogOutput
	fieldCount
)

// SettingsModel is the Bubble Tea model for the settings editor
type SettingsModel struct {
	cfg       config.Config
	delimiter textinput.Model
	focus     field
	save      func(*config.Config) error
	saved     bool
	err       error
}

// SavedMsg is sent after a save attempt
type SavedMsg struct {
	Err error
}

// NewSettingsModel creates an editor for cfg. save persists the edited
// configuration; it is only called with a valid config.
func NewSettingsModel(cfg *config.Config, save func(*config.Config) error) SettingsModel {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = latex.DefaultInlineDelimiter
	ti.CharLimit = 8
	ti.Width = 12
	ti.SetValue(cfg.InlineDelimiter)
	ti.Focus()

	return SettingsModel{
		cfg:       *cfg,
		delimiter: ti,
		save:      save,
	}
}

func (m SettingsModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "ctrl+s":
			return m, m.commit()
		case "tab", "down":
			m.setFocus((m.focus + 1) % fieldCount)
			return m, nil
		case "shift+tab", "up":
			m.setFocus((m.focus + fieldCount - 1) % fieldCount)
			return m, nil
		case " ", "enter":
			if m.focus != fieldDelimiter {
				m.toggle()
				return m, nil
			}
			if msg.String() == "enter" {
				m.setFocus(fieldMinted)
				return m, nil
			}
		}

	case SavedMsg:
		m.err = msg.Err
		if msg.Err == nil {
			m.saved = true
			return m, tea.Quit
		}
		return m, nil
	}

	if m.focus != fieldDelimiter {
		return m, nil
	}

	var cmd tea.Cmd
	m.delimiter, cmd = m.delimiter.Update(msg)
	m.cfg.InlineDelimiter = m.delimiter.Value()
	m.err = nil
	return m, cmd
}

func (m *SettingsModel) setFocus(f field) {
	m.focus = f
	if f == fieldDelimiter {
		m.delimiter.Focus()
	} else {
		m.delimiter.Blur()
	}
}

func (m *SettingsModel) toggle() {
	switch m.focus {
	case fieldMinted:
		m.cfg.MintedListings = !m.cfg.MintedListings
	case fieldStandalone:
		m.cfg.Standalone = !m.cfg.Standalone
	case fieldLogOutput:
		m.cfg.LogOutput = !m.cfg.LogOutput
	}
}

// commit validates and saves the edited config
func (m SettingsModel) commit() tea.Cmd {
	cfg := m.cfg
	return func() tea.Msg {
		if err := cfg.Validate(); err != nil {
			return SavedMsg{Err: err}
		}
		if m.save == nil {
			return SavedMsg{}
		}
		return SavedMsg{Err: m.save(&cfg)}
	}
}

// Config returns the edited configuration
func (m SettingsModel) Config() *config.Config {
	cfg := m.cfg
	return &cfg
}

// Saved reports whether the configuration was written
func (m SettingsModel) Saved() bool {
	return m.saved
}

func (m SettingsModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("mdlatex settings"))
	b.WriteString("\n\n")

	rows := []struct {
		f     field
		label string
		value string
	}{
		{fieldDelimiter, "Inline code delimiter", m.delimiter.View()},
		{fieldMinted, "Minted code blocks", checkbox(m.cfg.MintedListings)},
		{fieldStandalone, "Standalone document", checkbox(m.cfg.Standalone)},
		{fieldLogOutput, "Log conversions", checkbox(m.cfg.LogOutput)},
	}

	var form strings.Builder
	for _, row := range rows {
		label := fmt.Sprintf("%-22s", row.label)
		if row.f == m.focus {
			label = styles.FocusedFieldStyle.Render(label)
		} else {
			label = styles.FieldStyle.Render(label)
		}
		form.WriteString(label + "  " + row.value + "\n")
	}
	b.WriteString(styles.PanelStyle.Render(strings.TrimSuffix(form.String(), "\n")))
	b.WriteString("\n\n")

	b.WriteString(styles.DimStyle.Render("Inline code renders as "))
	b.WriteString(styles.HighlightStyle.Render(sample(m.cfg.InlineDelimiter)))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(styles.Failure(m.err.Error()))
		b.WriteString("\n\n")
	}
	if m.saved {
		b.WriteString(styles.Success("Saved"))
		b.WriteString("\n\n")
	}

	b.WriteString(styles.HelpStyle.Render("tab/↑↓ move • space toggle • ctrl+s save • esc quit"))
	b.WriteString("\n")

	return b.String()
}

func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

// sample renders a short code span with the given delimiter
func sample(delimiter string) string {
	root := mdast.NewRoot(mdast.NewParagraph(mdast.NewInlineCode("x = 1")))
	out := latex.Render(root, latex.Settings{InlineDelimiter: delimiter})
	return strings.TrimSpace(out)
}
