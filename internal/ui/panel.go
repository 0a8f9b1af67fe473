package ui

import (
	"fmt"
	"strings"
)

// Panel draws a framed box around lines using the theme's border.
func (c *Console) Panel(title string, lines []string) {
	body := strings.Join(lines, "\n")
	if title != "" {
		head := c.outR.NewStyle().Bold(true).Foreground(c.theme.Title).Render(title)
		body = head + "\n\n" + body
	}
	box := c.outR.NewStyle().
		Border(c.theme.Border).
		BorderForeground(c.theme.Muted).
		Padding(0, 1)
	fmt.Fprintln(c.out, box.Render(body))
}

// Muted renders s dim, for secondary text inside panels.
func (c *Console) Muted(s string) string {
	return c.outR.NewStyle().Foreground(c.theme.Muted).Render(s)
}

// Accent renders s in the accent color.
func (c *Console) Accent(s string) string {
	return c.outR.NewStyle().Foreground(c.theme.Accent).Render(s)
}
