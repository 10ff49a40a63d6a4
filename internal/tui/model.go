// Package tui is the interactive record browser of bvbswizard.
package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"bvbswizard/internal/pipeline"
)

// AppModel holds the TUI state.
type AppModel struct {
	// Data
	Result  *pipeline.Result
	Loading bool
	Err     error
	Run     tea.Cmd // (re)runs the import

	// UI State
	SelectedIdx int
	WindowSize  tea.WindowSizeMsg
	RightFocus  bool

	// View Modes
	ShowUnmatched bool
	ShowReport    bool
	ShowHelp      bool
	Verbose       bool

	// Search State
	InputMode       bool
	InputBuffer     textinput.Model
	FilteredIndices []int // indices into Result.Records
	SearchActive    bool

	// Components
	DetailsViewport viewport.Model
	PopupViewport   viewport.Model
	HelpContent     string
}

// InitialModel returns the initial state. run produces a MsgRunReady or
// MsgError.
func InitialModel(run tea.Cmd) AppModel {
	ti := textinput.New()
	ti.Placeholder = "Mark or assembly..."
	ti.CharLimit = 50
	ti.Width = 20

	return AppModel{
		Loading:         true,
		Run:             run,
		InputBuffer:     ti,
		DetailsViewport: viewport.New(40, 10),
		PopupViewport:   viewport.New(60, 20),
	}
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.Run)
}
