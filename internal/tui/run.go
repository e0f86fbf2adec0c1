package tui

import (
	"fmt"
	"os"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/iksnae/timekeeper/internal"
)

// RunOptions configures an interactive session
type RunOptions struct {
	Store     *internal.PersistenceStore
	Agenda    []internal.AgendaEntry
	Fields    internal.ActiveFields
	ExportDir string
	// LogFile receives log output while the screen is active; empty keeps stderr
	LogFile string
}

// relay forwards scheduler callbacks to the program once it exists
type relay struct {
	program atomic.Pointer[tea.Program]
}

func (r *relay) post(fn func()) {
	if p := r.program.Load(); p != nil {
		p.Send(callbackMsg{fn: fn})
	}
}

// Run starts the timer screen and blocks until the user quits
func Run(opts RunOptions) error {
	if opts.LogFile != "" {
		f, err := os.OpenFile(opts.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer func() { _ = f.Close() }()
		internal.SetLogOutput(f)
		defer internal.SetLogOutput(os.Stderr)
	}

	r := &relay{}
	fields := opts.Fields
	keeper := internal.NewKeeper(internal.KeeperOptions{
		Scheduler: internal.NewLoopScheduler(r.post),
		Store:     opts.Store,
		Agenda:    opts.Agenda,
		Fields:    &fields,
	})

	model := New(keeper, Options{ExportDir: opts.ExportDir})
	p := tea.NewProgram(model, tea.WithAltScreen())
	r.program.Store(p)

	if _, err := p.Run(); err != nil {
		keeper.Shutdown()
		return fmt.Errorf("timer screen failed: %w", err)
	}
	return nil
}
