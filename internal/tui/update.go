package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"bvbswizard/internal/pipeline"
)

// MsgRunReady carries a finished import.
type MsgRunReady *pipeline.Result

// MsgError indicates the import failed.
type MsgError error

// RunCmd runs the pipeline in the background.
func RunCmd(ctx context.Context, rc *pipeline.RunContext, in pipeline.Input) tea.Cmd {
	return func() tea.Msg {
		res, err := pipeline.Run(ctx, rc, in)
		if err != nil {
			return MsgError(err)
		}
		return MsgRunReady(res)
	}
}

// Update handles events.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.WindowSize = msg
		m.resize()
		m.refreshDetails()
		return m, nil

	case MsgRunReady:
		m.Loading = false
		m.Err = nil
		m.Result = (*pipeline.Result)(msg)
		m.performSearch()
		m.refreshDetails()
		return m, nil

	case MsgError:
		m.Err = msg
		m.Loading = false
		return m, nil

	case tea.KeyMsg:
		if m.InputMode {
			switch msg.Type {
			case tea.KeyEnter:
				m.InputMode = false
				m.InputBuffer.Blur()
				m.performSearch()
				m.refreshDetails()
				return m, nil
			case tea.KeyEsc:
				m.clearSearch()
				return m, nil
			}
			m.InputBuffer, cmd = m.InputBuffer.Update(msg)
			return m, cmd
		}

		if m.ShowReport || m.ShowHelp {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "esc", "s", "?":
				m.ShowReport = false
				m.ShowHelp = false
				return m, nil
			case "v":
				if m.ShowReport {
					m.Verbose = !m.Verbose
					m.openReport()
				}
				return m, nil
			}
			m.PopupViewport, cmd = m.PopupViewport.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			if m.SearchActive {
				m.clearSearch()
				return m, nil
			}
			if m.ShowUnmatched {
				m.ShowUnmatched = false
				m.refreshDetails()
			}
			return m, nil
		case "tab":
			m.RightFocus = !m.RightFocus
			return m, nil
		case "up", "k":
			if m.RightFocus {
				m.DetailsViewport.LineUp(1)
			} else if m.SelectedIdx > 0 {
				m.SelectedIdx--
				m.refreshDetails()
			}
		case "down", "j":
			if m.RightFocus {
				m.DetailsViewport.LineDown(1)
			} else if m.SelectedIdx < len(m.FilteredIndices)-1 {
				m.SelectedIdx++
				m.refreshDetails()
			}
		case "u":
			m.ShowUnmatched = !m.ShowUnmatched
			m.refreshDetails()
		case "s":
			if m.Result != nil {
				m.openReport()
			}
		case "?":
			m.ShowHelp = true
			m.PopupViewport.SetContent(m.HelpContent)
			m.PopupViewport.GotoTop()
		case "r":
			if m.Run != nil && !m.Loading {
				m.Loading = true
				return m, m.Run
			}
		case "/", "w":
			m.InputMode = true
			m.InputBuffer.Focus()
			m.InputBuffer.SetValue("")
			return m, textinput.Blink
		}
	}

	return m, cmd
}

func (m *AppModel) clearSearch() {
	m.InputMode = false
	m.InputBuffer.Blur()
	m.InputBuffer.SetValue("")
	m.performSearch()
	m.refreshDetails()
}

func (m *AppModel) openReport() {
	m.ShowReport = true
	m.PopupViewport.SetContent(pipeline.GenerateReport(m.Result, m.Verbose))
	m.PopupViewport.GotoTop()
}

// performSearch keeps the records whose mark starts with the search term
// or whose assembly name contains it.
func (m *AppModel) performSearch() {
	if m.Result == nil {
		m.FilteredIndices = nil
		return
	}
	term := strings.ToLower(strings.TrimSpace(m.InputBuffer.Value()))
	m.SearchActive = term != ""

	var filtered []int
	for i, r := range m.Result.Records {
		if term != "" {
			mark := strings.ToLower(r.MarkValue())
			asm := strings.ToLower(r.AssemblyName())
			if !strings.HasPrefix(mark, term) && !strings.Contains(asm, term) {
				continue
			}
		}
		filtered = append(filtered, i)
	}
	m.FilteredIndices = filtered

	// Bounds check
	if m.SelectedIdx >= len(m.FilteredIndices) {
		if len(m.FilteredIndices) > 0 {
			m.SelectedIdx = len(m.FilteredIndices) - 1
		} else {
			m.SelectedIdx = 0
		}
	}
}

func (m *AppModel) resize() {
	_, rightWidth, interiorHeight := layout(m.WindowSize)
	m.DetailsViewport.Width = rightWidth
	m.DetailsViewport.Height = interiorHeight

	w, h := popupSize(m.WindowSize)
	m.PopupViewport.Width = w - 4
	m.PopupViewport.Height = h - 4
}

func (m *AppModel) refreshDetails() {
	m.DetailsViewport.SetContent(m.detailsContent())
	m.DetailsViewport.GotoTop()
}
