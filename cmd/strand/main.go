// Command strand is a terminal client for an AG-UI conversation
// backend. It renders the live transcript, keeps the canonical log in
// sync with the event stream, and reopens persisted conversations
// without replaying them.
package main

import (
	"log/slog"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/spetersoncode/strand/chat"
	"github.com/spetersoncode/strand/client"
	"github.com/spetersoncode/strand/transcript"
)

func main() {
	godotenv.Load()

	defaultServer := os.Getenv("STRAND_SERVER")
	if defaultServer == "" {
		defaultServer = "http://localhost:8000"
	}

	server := pflag.String("server", defaultServer, "backend base URL")
	pflag.Parse()

	backend := client.New(client.Config{
		BaseURL:    *server,
		HTTPClient: &http.Client{}, // no client-level timeout: chat streams are long-lived
	})

	presenter := &programPresenter{}
	ctrl := chat.NewController(backend, presenter)

	p := tea.NewProgram(newModel(ctrl), tea.WithAltScreen())
	presenter.program = p

	if _, err := p.Run(); err != nil {
		slog.Error("terminal client exited", "error", err)
		os.Exit(1)
	}
}

// programPresenter forwards controller output into the Bubble Tea event
// loop. The program reference is set after construction because the
// controller and program depend on each other.
type programPresenter struct {
	program *tea.Program
}

func (p *programPresenter) Render(nodes []transcript.Node) {
	if p.program != nil {
		p.program.Send(renderMsg{nodes: nodes})
	}
}

func (p *programPresenter) ConversationsUpdated(ids []string) {
	if p.program != nil {
		p.program.Send(conversationsMsg{ids: ids})
	}
}
