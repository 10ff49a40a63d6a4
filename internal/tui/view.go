package tui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"bvbswizard/internal/match"
	"bvbswizard/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	popupTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	normalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dimmedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	adviceStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("208")) // Orange
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("81"))  // Sky Blue

	borderColor = lipgloss.Color("63")
	activeColor = lipgloss.Color("205")
)

// layout splits the window into the list and details panels. Heights are
// interior heights, without borders.
func layout(size tea.WindowSizeMsg) (leftWidth, rightWidth, interiorHeight int) {
	// 6 columns for borders and margin, 6 rows for borders and footer
	netWidth := size.Width - 6
	if netWidth < 20 {
		netWidth = 20
	}
	leftWidth = netWidth * 2 / 5
	rightWidth = netWidth - leftWidth

	interiorHeight = size.Height - 8
	if interiorHeight < 4 {
		interiorHeight = 4
	}
	return leftWidth, rightWidth, interiorHeight
}

func popupSize(size tea.WindowSizeMsg) (int, int) {
	w := size.Width * 90 / 100
	if w < 40 {
		w = 40
	}
	if size.Width > 4 && w > size.Width-4 {
		w = size.Width - 4
	}
	h := size.Height - 6
	if h < 8 {
		h = 8
	}
	return w, h
}

// RecordIcon picks the status icon shown in front of a record.
func RecordIcon(r *model.RebarRecord) string {
	switch {
	case len(r.Matched) == 0:
		return model.IconUnmatched
	case r.CouplerStartEnabled() || r.CouplerEndEnabled():
		return model.IconCoupler
	case r.PartOfAssembly:
		return model.IconAssembly
	case r.Radius != nil:
		return model.IconArc
	case r.Shape == model.Shape3D:
		return model.Icon3D
	default:
		return model.IconOK
	}
}

func (m AppModel) View() string {
	if m.Loading {
		return "\n  Decoding BVBS export... please wait.\n"
	}
	if m.Err != nil {
		return fmt.Sprintf("\n  Error: %v\n\n  r: retry • q: quit\n", m.Err)
	}
	if m.Result == nil {
		return "\n  Nothing to show.\n"
	}
	if m.ShowHelp {
		return m.renderPopup("Help", "Esc to close")
	}
	if m.ShowReport {
		return m.renderPopup("Import report", "v: verbose • s/Esc: close")
	}

	leftWidth, rightWidth, interiorHeight := layout(m.WindowSize)

	// LEFT PANEL: record list
	var leftView strings.Builder
	leftView.WriteString(titleStyle.Render(fmt.Sprintf("Records (%d/%d)", len(m.FilteredIndices), len(m.Result.Records))))
	leftView.WriteString("\n\n")

	// Header is 2 lines (title + blank)
	visibleItems := interiorHeight - 2
	if visibleItems < 1 {
		visibleItems = 1
	}
	startIdx := 0
	endIdx := len(m.FilteredIndices)
	if len(m.FilteredIndices) > visibleItems {
		if m.SelectedIdx >= visibleItems/2 {
			startIdx = m.SelectedIdx - (visibleItems / 2)
		}
		if startIdx+visibleItems > len(m.FilteredIndices) {
			startIdx = len(m.FilteredIndices) - visibleItems
		}
		endIdx = startIdx + visibleItems
	}

	for i := startIdx; i < endIdx; i++ {
		r := m.Result.Records[m.FilteredIndices[i]]
		line := fmt.Sprintf("%4d %s %s %s", r.Line, RecordIcon(r), r.Shape, orDash(r.MarkValue()))
		if asm := r.AssemblyName(); asm != "" {
			line += " [" + asm + "]"
		}
		if len(line) > leftWidth-2 && leftWidth > 5 {
			line = line[:leftWidth-5] + "..."
		}

		style := normalStyle
		if i == m.SelectedIdx {
			style = selectedStyle
		} else if len(r.Matched) == 0 {
			style = dimmedStyle
		}
		leftView.WriteString(style.Render(line))
		leftView.WriteString("\n")
	}

	lBorder, rBorder := activeColor, borderColor
	if m.RightFocus {
		lBorder, rBorder = borderColor, activeColor
	}

	left := lipgloss.NewStyle().
		Width(leftWidth).
		Height(interiorHeight).
		Border(lipgloss.NormalBorder()).
		BorderForeground(lBorder).
		Render(strings.TrimSuffix(leftView.String(), "\n"))

	right := lipgloss.NewStyle().
		Width(rightWidth).
		Height(interiorHeight).
		Border(lipgloss.NormalBorder()).
		BorderForeground(rBorder).
		Render(m.DetailsViewport.View())

	help := "↑/↓: Navigate • Tab: Switch Panel • /: Search • u: Unassigned • s: Report • r: Re-run • ?: Help • q: Quit"
	if m.RightFocus {
		help = "Details: ↑/↓: Scroll • Tab: Return to Records • q: Quit"
	}
	footer := "\n" + m.statusLine() + "\n" + dimmedStyle.Render(help)
	if m.InputMode {
		footer = fmt.Sprintf("\n\nSearch: %s", m.InputBuffer.View())
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, left, right) + footer
}

func (m AppModel) statusLine() string {
	res := m.Result
	parts := []string{fmt.Sprintf("run %s", shortID(res.RunID))}
	for _, e := range res.Summary {
		switch e.Label {
		case "Actual placements", "Unassigned elements", "Coupler failures":
			parts = append(parts, fmt.Sprintf("%s: %d", strings.ToLower(e.Label), e.Value))
		}
	}
	if m.SearchActive {
		parts = append(parts, fmt.Sprintf("filter %q", m.InputBuffer.Value()))
	}
	return strings.Join(parts, " • ")
}

// detailsContent is the text of the details panel for the current state.
func (m AppModel) detailsContent() string {
	if m.Result == nil {
		return ""
	}
	var b strings.Builder
	if m.ShowUnmatched {
		b.WriteString(titleStyle.Render("Unassigned placements"))
		b.WriteString("\n\n")
		if len(m.Result.Unmatched) == 0 {
			b.WriteString(model.IconOK + " Every placement found its record.")
			return b.String()
		}
		for _, u := range m.Result.Unmatched {
			fmt.Fprintf(&b, "%s %s  mark %s", model.IconUnmatched, u.PlacementID, u.Key)
			if u.Assembly != "" {
				fmt.Fprintf(&b, "  assembly %s", u.Assembly)
			}
			b.WriteString("\n")
		}
		return b.String()
	}

	if len(m.FilteredIndices) == 0 {
		return "No records found."
	}
	r := m.Result.Records[m.FilteredIndices[m.SelectedIdx]]

	b.WriteString(titleStyle.Render(fmt.Sprintf("Line %d: %s %s", r.Line, r.Shape, orDash(r.MarkValue()))))
	b.WriteString("\n\n")

	field := func(label string, a *model.Attribute) {
		if a == nil {
			return
		}
		fmt.Fprintf(&b, "%s %s  (attr %d)\n", labelStyle.Render(fmt.Sprintf("%-18s", label)), a.Value, a.ID)
	}
	field("Mark", r.Mark)
	field("Total length", r.TotalLength)
	field("Diameter", r.Diameter)
	field("Bend angle", r.BendAngle)
	field("Amount total", r.AmountTotal)
	field("Amount assembly", r.AmountAssembly)
	field("Arc radius", r.Radius)
	field("Assembly", r.Assembly)
	field("Coupler start", r.CouplerStart)
	field("  fabricant", r.CouplerStartFabricant)
	field("  type", r.CouplerStartType)
	field("Coupler end", r.CouplerEnd)
	field("  fabricant", r.CouplerEndFabricant)
	field("  type", r.CouplerEndType)

	b.WriteString("\n" + titleStyle.Render("Segments") + "\n")
	for _, a := range r.SegmentLengths {
		fmt.Fprintf(&b, "  %-20s %s\n", a.Name, a.Value)
	}
	for _, a := range r.SegmentAngles {
		fmt.Fprintf(&b, "  %-20s %s\n", a.Name, a.Value)
	}
	for _, p := range r.BendingPins {
		if p.Present {
			fmt.Fprintf(&b, "  %-20s %s\n", p.Name, p.Value)
		}
	}

	b.WriteString("\n" + titleStyle.Render("Placements") + "\n")
	if len(r.Matched) == 0 {
		b.WriteString(adviceStyle.Render(model.IconUnmatched + " No placement in the drawing uses this mark."))
		b.WriteString("\n")
	}
	for _, p := range r.Matched {
		fmt.Fprintf(&b, "  %s  %s (%s)\n", p.ID(), p.Kind(), p.TypeID())
	}

	for _, err := range m.Result.CouplerErrors {
		var ce *match.CouplerError
		if errors.As(err, &ce) && ce.Line == r.Line {
			b.WriteString("\n" + adviceStyle.Render(model.IconCoupler+" "+ce.Reason) + "\n")
		}
	}
	return b.String()
}

func (m AppModel) renderPopup(title, hint string) string {
	w, h := popupSize(m.WindowSize)
	footer := dimmedStyle.Render("\n" + hint)

	dialog := lipgloss.NewStyle().
		Width(w).
		Height(h).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("208")).
		Padding(0, 1).
		Render(popupTitleStyle.Render(title) + "\n\n" + m.PopupViewport.View() + footer)

	if m.WindowSize.Width == 0 || m.WindowSize.Height == 0 {
		return dialog
	}
	return lipgloss.Place(m.WindowSize.Width, m.WindowSize.Height,
		lipgloss.Center, lipgloss.Center,
		dialog,
	)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
