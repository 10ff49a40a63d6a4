package model

// Status icons shared by the TUI and the report.
// Single-width characters keep the record list aligned.
const (
	IconOK        = " " // matched, nothing to report
	IconUnmatched = "✗" // no placement matched the record
	IconCoupler   = "⊕" // record has at least one coupler
	IconAssembly  = "▣" // record belongs to an assembly
	IconArc       = "◠" // record contains an arc segment
	Icon3D        = "◆" // spatial (BF3D) shape
)

// Version is the released version of bvbswizard.
const Version = "0.3.0"
