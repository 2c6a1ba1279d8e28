package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/joebot/schedbot/internal/config"
)

// --- existing-config chooser ---

type onboardChoice int

const (
	choiceKeep onboardChoice = iota
	choiceOverwrite
	choiceSkip
)

type chooserModel struct {
	choices []string
	cursor  int
	chosen  bool
	choice  onboardChoice
}

func (m chooserModel) Init() tea.Cmd { return nil }

func (m chooserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			m.choice = choiceSkip
			m.chosen = true
			return m, tea.Quit
		case tea.KeyUp, tea.KeyShiftTab:
			if m.cursor > 0 {
				m.cursor--
			}
		case tea.KeyDown, tea.KeyTab:
			if m.cursor < len(m.choices)-1 {
				m.cursor++
			}
		case tea.KeyEnter:
			m.choice = onboardChoice(m.cursor)
			m.chosen = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m chooserModel) View() string {
	if m.chosen {
		return ""
	}

	s := "\n"
	s += fmt.Sprintf("  Config already exists at %s\n\n", DimStyle.Render(config.ConfigPath()))
	for i, choice := range m.choices {
		cursor := "  "
		if i == m.cursor {
			cursor = TitleStyle.Render("❯ ")
		}
		s += "  " + cursor + choice + "\n"
	}
	s += "\n" + DimStyle.Render("  ↑/↓ navigate · enter select · ctrl+c cancel") + "\n"
	return s
}

// --- credential entry ---

type credsModel struct {
	inputs  []textinput.Model
	labels  []string
	index   int
	done    bool
	aborted bool
}

func newCredsModel() credsModel {
	labels := []string{"Discord bot token", "Gemini API key (optional, or set GEMINI_API_KEY)"}
	inputs := make([]textinput.Model, len(labels))
	for i := range inputs {
		ti := textinput.New()
		ti.Prompt = "❯ "
		ti.PromptStyle = lipgloss.NewStyle().Foreground(Accent)
		ti.EchoMode = textinput.EchoPassword
		ti.CharLimit = 0
		inputs[i] = ti
	}
	inputs[0].Focus()
	return credsModel{inputs: inputs, labels: labels}
}

func (m credsModel) Init() tea.Cmd { return textinput.Blink }

func (m credsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC:
			m.aborted = true
			return m, tea.Quit
		case tea.KeyEnter:
			m.inputs[m.index].Blur()
			m.index++
			if m.index >= len(m.inputs) {
				m.done = true
				return m, tea.Quit
			}
			m.inputs[m.index].Focus()
			return m, textinput.Blink
		}
	}

	var cmd tea.Cmd
	m.inputs[m.index], cmd = m.inputs[m.index].Update(msg)
	return m, cmd
}

func (m credsModel) View() string {
	if m.done || m.aborted {
		return ""
	}
	s := "\n  " + BoldStyle.Render(m.labels[m.index]) + "\n"
	s += "  " + m.inputs[m.index].View() + "\n"
	s += "\n" + DimStyle.Render("  enter continue · ctrl+c cancel") + "\n"
	return s
}

// RunOnboard runs the first-run wizard: creates the config file and prompts
// for credentials.
func RunOnboard() {
	cfgPath := config.ConfigPath()

	fmt.Println()
	fmt.Println(TitleStyle.Render(fmt.Sprintf("  %s schedbot Onboard", Logo)))

	if _, err := os.Stat(cfgPath); err == nil {
		m := chooserModel{
			choices: []string{
				"Keep — leave the existing config untouched",
				"Overwrite — replace with fresh defaults and re-enter credentials",
				"Skip — exit without changes",
			},
		}
		p := tea.NewProgram(m)
		final, err := p.Run()
		if err != nil {
			fmt.Println("  " + ErrStyle.Render("Error: "+err.Error()))
			os.Exit(1)
		}
		if fm := final.(chooserModel); fm.choice != choiceOverwrite {
			fmt.Println()
			fmt.Println("  " + DimStyle.Render("Config unchanged"))
			return
		}
	}

	cfg := config.DefaultConfig()

	p := tea.NewProgram(newCredsModel())
	final, err := p.Run()
	if err != nil {
		fmt.Println("  " + ErrStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
	cm := final.(credsModel)
	if cm.aborted {
		fmt.Println()
		fmt.Println("  " + DimStyle.Render("Cancelled, config unchanged"))
		return
	}
	cfg.Discord.Token = cm.inputs[0].Value()
	cfg.Provider.APIKey = cm.inputs[1].Value()

	if err := config.Save(cfg); err != nil {
		fmt.Println("  " + ErrStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("  " + OkStyle.Render("✓") + " Config written to " + DimStyle.Render(cfgPath))
	fmt.Println()
	fmt.Println(OkStyle.Render("  schedbot is ready!"))
	fmt.Println()
	fmt.Println(DimStyle.Render("  Next steps:"))
	fmt.Println(DimStyle.Render("  1. Invite the bot with the Read Message History permission"))
	fmt.Println(DimStyle.Render("  2. Start it: schedbot run"))
	fmt.Println(DimStyle.Render("  3. In a channel: !schedule meet"))
	fmt.Println()
}
