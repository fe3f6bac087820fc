package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/vango-dev/hashnav/pkg/hashroute"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	keyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	pageStyle    = lipgloss.NewStyle().Bold(true)
)

const banner = `
  ╦ ╦┌─┐┌─┐┬ ┬┌┐┌┌─┐┬  ┬
  ╠═╣├─┤└─┐├─┤│││├─┤└┐┌┘
  ╩ ╩┴ ┴└─┘┴ ┴┘└┘┴ ┴ └┘
`

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", successStyle.Render("✓"), fmt.Sprintf(format, args...))
}

// info prints an indented info line.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning.
func warn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", warnStyle.Render("⚠"), fmt.Sprintf(format, args...))
}

// printState writes a human-readable view of state.
func printState(w io.Writer, state hashroute.RouteState) {
	page := state.PageKey
	if page == "" {
		page = labelStyle.Render("(none)")
	} else {
		page = pageStyle.Render(page)
	}
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("page:"), page)

	if state.Vars.Len() == 0 {
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render("vars:"), labelStyle.Render("(none)"))
		return
	}
	fmt.Fprintln(w, labelStyle.Render("vars:"))
	for k, v := range state.Vars.All() {
		fmt.Fprintf(w, "  %s = %q\n", keyStyle.Render(k), v)
	}
}
