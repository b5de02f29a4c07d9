package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mehrbod2002/fxmobile/internal/app"
	"github.com/mehrbod2002/fxmobile/internal/theme"
)

// terminalNotifier prints toasts in the theme's colors and asks
// confirmations on stdin unless autoYes is set.
type terminalNotifier struct {
	out     io.Writer
	in      *bufio.Reader
	autoYes bool
	theme   *theme.Theme
}

func (n *terminalNotifier) style(kind app.ToastKind) lipgloss.Style {
	if n.theme == nil {
		return lipgloss.NewStyle()
	}
	switch kind {
	case app.ToastSuccess:
		return n.theme.Style(func(p theme.Palette) lipgloss.Color { return p.Success }).Bold(true)
	case app.ToastError:
		return n.theme.Style(func(p theme.Palette) lipgloss.Color { return p.Danger }).Bold(true)
	}
	return n.theme.Style(func(p theme.Palette) lipgloss.Color { return p.Primary })
}

func (n *terminalNotifier) Toast(kind app.ToastKind, message string) {
	fmt.Fprintln(n.out, n.style(kind).Render(message))
}

func (n *terminalNotifier) Confirm(message string) bool {
	prompt := n.style(app.ToastInfo).Render(message)
	if n.autoYes {
		fmt.Fprintf(n.out, "%s [y/N] y\n", prompt)
		return true
	}
	fmt.Fprintf(n.out, "%s [y/N] ", prompt)
	line, err := n.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
