package main

import (
	"flag"
	"fmt"
	"os"

	"blog-cms/cmd/console/ui"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	server := flag.String("server", "http://127.0.0.1:5000", "backend base URL")
	flag.Parse()

	p := tea.NewProgram(ui.NewRootModel(*server), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "console:", err)
		os.Exit(1)
	}
}
