package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/timetracker/internal/config"
	"git.home.luguber.info/inful/timetracker/internal/metrics"
	"git.home.luguber.info/inful/timetracker/internal/observability"
	"git.home.luguber.info/inful/timetracker/internal/store"
	"git.home.luguber.info/inful/timetracker/internal/tracker"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"timetracker.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Project struct {
		Add struct {
			Name  string `arg:"" help:"Project name"`
			Color string `help:"Display color (hex)" default:"#4A9EFF"`
		} `cmd:"" help:"Create a new project"`

		List struct{} `cmd:"" help:"List projects"`

		Rename struct {
			ID   int64  `arg:"" help:"Project id"`
			Name string `arg:"" help:"New name"`
		} `cmd:"" help:"Rename a project"`

		Recolor struct {
			ID    int64  `arg:"" help:"Project id"`
			Color string `arg:"" help:"New display color (hex)"`
		} `cmd:"" help:"Change a project's display color"`

		Archive struct {
			ID int64 `arg:"" help:"Project id"`
		} `cmd:"" help:"Archive a project (history is kept)"`
	} `cmd:"" help:"Manage projects"`

	Start struct {
		Project int64 `arg:"" help:"Project id"`
	} `cmd:"" help:"Start the timer on a project (stops a running one first)"`

	Stop struct {
		Note string `help:"Note to attach to the closed session"`
	} `cmd:"" help:"Stop the running timer"`

	Discard struct{} `cmd:"" help:"Close the running timer without counting its time"`

	Status struct{} `cmd:"" help:"Show the current timer state"`

	Dashboard struct{} `cmd:"" help:"Show today/week/month/total per project"`

	History struct {
		Project int64  `help:"Filter by project id"`
		From    string `help:"Inclusive start date (YYYY-MM-DD)"`
		To      string `help:"Inclusive end date (YYYY-MM-DD)"`
	} `cmd:"" help:"List closed sessions, newest first"`

	Export struct {
		Output  string `short:"o" help:"Output CSV path" default:"sessions.csv"`
		Project int64  `help:"Filter by project id"`
		From    string `help:"Inclusive start date (YYYY-MM-DD)"`
		To      string `help:"Inclusive end date (YYYY-MM-DD)"`
	} `cmd:"" help:"Export closed sessions as CSV"`
}

func main() {
	ctx := kong.Parse(&CLI)

	cfg, err := config.LoadOrDefault(CLI.Config)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Set up logging
	level := cfg.Logging.Level
	if CLI.Verbose {
		level = "debug"
	}
	logger := observability.Setup(level, cfg.Logging.Format)
	logger = observability.WithRunID(logger, observability.NewRunID())

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	if cfg.Metrics.Enabled {
		registry := prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(registry)
		go func() {
			if err := http.ListenAndServe(cfg.Metrics.Listen, metrics.HTTPHandler(registry)); err != nil {
				logger.Warn("metrics endpoint stopped", slog.String("error", err.Error()))
			}
		}()
	}

	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		logger.Error("Failed to open database", slog.String("path", cfg.Database.Path), slog.String("error", err.Error()))
		os.Exit(1)
	}

	trk, err := tracker.New(st, tracker.WithLogger(logger), tracker.WithRecorder(recorder))
	if err != nil {
		logger.Error("Failed to initialize tracker", slog.String("error", err.Error()))
		_ = st.Close()
		os.Exit(1)
	}
	defer trk.Close()

	if err := run(ctx.Command(), trk); err != nil {
		logger.Error("Command failed", slog.String("command", ctx.Command()), slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(command string, trk *tracker.Tracker) error {
	switch command {
	case "project add <name>":
		return runProjectAdd(trk, CLI.Project.Add.Name, CLI.Project.Add.Color)
	case "project list":
		return runProjectList(trk)
	case "project rename <id> <name>":
		return trk.RenameProject(CLI.Project.Rename.ID, CLI.Project.Rename.Name)
	case "project recolor <id> <color>":
		return trk.SetProjectColor(CLI.Project.Recolor.ID, CLI.Project.Recolor.Color)
	case "project archive <id>":
		return trk.RemoveProject(CLI.Project.Archive.ID)
	case "start <project>":
		return trk.Start(CLI.Start.Project)
	case "stop":
		return runStop(trk, CLI.Stop.Note)
	case "discard":
		return trk.Discard()
	case "status":
		return runStatus(trk)
	case "dashboard":
		return runDashboard(trk)
	case "history":
		return runHistory(trk, CLI.History.Project, CLI.History.From, CLI.History.To)
	case "export":
		return runExport(trk, CLI.Export.Output, CLI.Export.Project, CLI.Export.From, CLI.Export.To)
	default:
		return nil
	}
}
