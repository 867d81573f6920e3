package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/contactdesk/contactdesk/internal/client"
	appconfig "github.com/contactdesk/contactdesk/internal/config"
	"github.com/contactdesk/contactdesk/internal/tui"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()

	gateway := client.New(cfg.BackendBaseURL, nil)
	model := tui.NewModel(gateway)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "contactdesk: %v\n", err)
		os.Exit(1)
	}
}
