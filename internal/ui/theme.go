package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme bundles palette + symbols + box border.
type Theme struct {
	Name string

	Title, Muted, Accent, Success, Error, Task lipgloss.TerminalColor

	SymOK, SymFail, SymNote string
	Border                  lipgloss.Border
	Mono                    bool
}

// ThemeNames lists what --theme accepts.
var ThemeNames = []string{"classic", "neon", "mono"}

// LookupTheme returns the named theme, falling back to classic.
func LookupTheme(name string) Theme {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "neon":
		return Theme{
			Name:    "neon",
			Title:   lipgloss.Color("13"), // bright magenta
			Muted:   lipgloss.Color("8"),
			Accent:  lipgloss.Color("14"),
			Success: lipgloss.Color("10"),
			Error:   lipgloss.Color("9"),
			Task:    lipgloss.Color("14"),
			SymOK:   "◼",
			SymFail: "✖",
			SymNote: "◻",
			Border:  lipgloss.RoundedBorder(),
		}
	case "mono":
		none := lipgloss.NoColor{}
		return Theme{
			Name:    "mono",
			Title:   none,
			Muted:   none,
			Accent:  none,
			Success: none,
			Error:   none,
			Task:    none,
			SymOK:   "x",
			SymFail: "!",
			SymNote: "-",
			Border:  lipgloss.ASCIIBorder(),
			Mono:    true,
		}
	default: // classic
		return Theme{
			Name:    "classic",
			Title:   lipgloss.Color("15"),
			Muted:   lipgloss.Color("8"),
			Accent:  lipgloss.Color("12"),
			Success: lipgloss.Color("42"),
			Error:   lipgloss.Color("9"),
			Task:    lipgloss.Color("6"), // cyan
			SymOK:   "✔",
			SymFail: "✖",
			SymNote: "•",
			Border:  lipgloss.NormalBorder(),
		}
	}
}
