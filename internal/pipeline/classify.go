package pipeline

import (
	"errors"

	"bvbswizard/internal/bvbs"
	"bvbswizard/internal/config"
	"bvbswizard/internal/host"
)

var (
	// ErrConfig wraps configuration validation failures.
	ErrConfig = errors.New("invalid configuration")
	// ErrSelection wraps failures to read or filter the placement document.
	ErrSelection = errors.New("placement selection")
)

// Exit codes returned by the CLI.
const (
	ExitOK        = 0
	ExitRuntime   = 1
	ExitDecode    = 2
	ExitSelection = 3
)

// Classify maps a Run error to the process exit code.
func Classify(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, bvbs.ErrSyntax), errors.Is(err, bvbs.ErrGeometry):
		return ExitDecode
	case errors.Is(err, ErrConfig),
		errors.Is(err, ErrSelection),
		errors.Is(err, config.ErrUndefinedAttribute),
		errors.Is(err, host.ErrNoPlacements):
		return ExitSelection
	default:
		return ExitRuntime
	}
}
