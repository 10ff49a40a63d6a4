package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"github.com/tcnksm/go-latest"
	"go.uber.org/zap"

	"bvbswizard/internal/bvbs"
	"bvbswizard/internal/config"
	"bvbswizard/internal/logging"
	"bvbswizard/internal/model"
	"bvbswizard/internal/pipeline"
	"bvbswizard/internal/tui"
	"bvbswizard/internal/web"
)

func checkUpdate(currentVer string, explicit bool) {
	githubTag := &latest.GithubTag{
		Owner:      "bvbswizard",
		Repository: "bvbswizard",
	}

	res, err := latest.Check(githubTag, currentVer)
	if err != nil {
		return // Silently fail
	}

	if res.Outdated {
		fmt.Printf("\n✨ A new version is available: %s (you have %s)\n", res.Current, currentVer)
		fmt.Println("👉 Download it from https://github.com/bvbswizard/bvbswizard/releases")
	} else if explicit {
		fmt.Printf("✅ You are using the latest version: %s\n", currentVer)
	}
}

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: bvbswizard --bvbs FILE --placements FILE [options]\n\n")
		fmt.Fprintf(os.Stderr, "bvbswizard decodes a BVBS bending-machine export and works out which\n")
		fmt.Fprintf(os.Stderr, "attributes belong on which rebar placement of the drawing.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  bvbswizard -b plan.abs -p sel.yaml           # Browse records (TUI)\n")
		fmt.Fprintf(os.Stderr, "  bvbswizard -b plan.abs -p sel.yaml --report  # Print import report\n")
		fmt.Fprintf(os.Stderr, "  bvbswizard -b plan.abs -p sel.yaml -r -o r.md # Save report to file\n")
		fmt.Fprintf(os.Stderr, "  bvbswizard -b plan.abs -p sel.yaml --json    # Output assignments as JSON\n")
		fmt.Fprintf(os.Stderr, "  bvbswizard -b plan.abs -p sel.yaml --watch   # Re-run on every export\n")
	}

	bvbsFlag := pflag.StringP("bvbs", "b", "", "BVBS export file (.abs)")
	placementsFlag := pflag.StringP("placements", "p", "", "Placement document exported from the drawing (YAML or JSON)")
	configFlag := pflag.StringP("config", "c", "", "Configuration file (default ./"+config.DefaultFile+" if present)")
	jsonFlag := pflag.BoolP("json", "j", false, "Output the import result as JSON")
	reportFlag := pflag.BoolP("report", "r", false, "Print the import report (CLI mode)")
	outputFlag := pflag.StringP("output", "o", "", "Save report or JSON to the specified file")
	verboseFlag := pflag.BoolP("verbose", "v", false, "Debug logging and every record in the report")
	watchFlag := pflag.Bool("watch", false, "Re-run the report whenever the BVBS export changes")
	webFlag := pflag.BoolP("web", "w", false, "Start Web Mode on http://localhost:PORT")
	portFlag := pflag.String("port", web.DefaultPort, "Port for --web")
	versionFlag := pflag.BoolP("version", "V", false, "Print version information")
	updateFlag := pflag.BoolP("update", "u", false, "Check for latest version")
	helpFlag := pflag.BoolP("help", "h", false, "Show this help message")
	pflag.Parse()

	if *helpFlag {
		pflag.Usage()
		return
	}

	if *versionFlag {
		fmt.Printf("bvbswizard version %s\n", model.Version)
		return
	}

	if *updateFlag {
		checkUpdate(model.Version, true)
		return
	}

	cfg, err := config.LoadOrDefault(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(pipeline.ExitSelection)
	}
	if *verboseFlag {
		cfg.Logging.Level = "debug"
	}

	in := pipeline.Input{BVBSPath: *bvbsFlag, PlacementsPath: *placementsFlag}
	if in.BVBSPath == "" || in.PlacementsPath == "" {
		fmt.Fprintf(os.Stderr, "Error: --bvbs and --placements are required\n\n")
		pflag.Usage()
		os.Exit(pipeline.ExitSelection)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	interactive := !*webFlag && !*reportFlag && !*jsonFlag && !*watchFlag
	var logger *zap.Logger
	if interactive {
		logger = logging.Quiet()
	} else {
		logger, err = logging.New(cfg.Logging.Level, cfg.Logging.JSON)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(pipeline.ExitSelection)
		}
	}
	defer logger.Sync()

	code := pipeline.ExitOK
	switch {
	case *webFlag:
		err = web.StartServer(ctx, web.Options{Port: *portFlag, Input: in, Config: cfg, Logger: logger})
		if err != nil {
			logger.Error("web server", zap.Error(err))
			code = pipeline.ExitRuntime
		}
	case *watchFlag:
		runReportMode(ctx, cfg, logger, in, *outputFlag, *verboseFlag)
		err = pipeline.Watch(ctx, in.BVBSPath, 0, logger, func(ctx context.Context) {
			runReportMode(ctx, cfg, logger, in, *outputFlag, *verboseFlag)
		})
		if err != nil {
			logger.Error("watch", zap.Error(err))
			code = pipeline.ExitRuntime
		}
	case *reportFlag:
		code = runReportMode(ctx, cfg, logger, in, *outputFlag, *verboseFlag)
	case *jsonFlag:
		code = runJSONMode(ctx, cfg, logger, in, *outputFlag)
	default:
		code = runTuiMode(ctx, cfg, logger, in)
	}
	if code != pipeline.ExitOK {
		logger.Sync()
		stop()
		os.Exit(code)
	}
}

// printRunError reports a failed run on stderr, with the offending export
// line when decoding failed.
func printRunError(in pipeline.Input, err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	var de *bvbs.DecodeError
	if !errors.As(err, &de) {
		return
	}
	ctx := model.GetLineContext(pipeline.ExpandHome(in.BVBSPath), de.Line)
	if ctx.ErrorMsg != "" {
		return
	}
	for i, l := range ctx.Before {
		fmt.Fprintf(os.Stderr, "  %4d | %s\n", de.Line-len(ctx.Before)+i, l)
	}
	fmt.Fprintf(os.Stderr, "> %4d | %s\n", de.Line, ctx.Target)
	for i, l := range ctx.After {
		fmt.Fprintf(os.Stderr, "  %4d | %s\n", de.Line+1+i, l)
	}
}

func runReportMode(ctx context.Context, cfg config.Config, logger *zap.Logger, in pipeline.Input, outputFile string, verbose bool) int {
	res, err := pipeline.Run(ctx, pipeline.NewRunContext(cfg, logger), in)
	if err != nil {
		printRunError(in, err)
		return pipeline.Classify(err)
	}

	report := pipeline.GenerateReport(res, verbose)

	if outputFile != "" {
		err := os.WriteFile(outputFile, []byte(report), 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing report to %s: %v\n", outputFile, err)
			return pipeline.ExitRuntime
		}
		fmt.Printf("Report saved to %s\n", outputFile)
		return pipeline.ExitOK
	}

	rendered, err := pipeline.RenderReport(report, 0)
	if err != nil {
		rendered = report
	}
	fmt.Println(rendered)
	return pipeline.ExitOK
}

func runJSONMode(ctx context.Context, cfg config.Config, logger *zap.Logger, in pipeline.Input, outputFile string) int {
	res, err := pipeline.Run(ctx, pipeline.NewRunContext(cfg, logger), in)
	if err != nil {
		printRunError(in, err)
		return pipeline.Classify(err)
	}

	out := os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", outputFile, err)
			return pipeline.ExitRuntime
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding result: %v\n", err)
		return pipeline.ExitRuntime
	}
	return pipeline.ExitOK
}

func runTuiMode(ctx context.Context, cfg config.Config, logger *zap.Logger, in pipeline.Input) int {
	run := func() tea.Msg {
		return tui.RunCmd(ctx, pipeline.NewRunContext(cfg, logger), in)()
	}
	m := tui.InitialModel(run)
	m.HelpContent = web.HelpMarkdown()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return pipeline.ExitOK
		}
		fmt.Printf("Alas, there's been an error: %v", err)
		return pipeline.ExitRuntime
	}
	return pipeline.ExitOK
}
