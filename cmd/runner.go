package main

import (
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/mikueye/mikueye/internal/osuapi"
	"github.com/mikueye/mikueye/internal/repositories"
	"github.com/mikueye/mikueye/internal/shared"
	"github.com/mikueye/mikueye/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	tokens  *osuapi.TokenSource
	client  *osuapi.Client
	monitor *tasks.Monitor
	browser *tasks.Browser
	logger  *log.Logger
	output  io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config
	Tokens  *osuapi.TokenSource
	Client  *osuapi.Client
	Monitor *tasks.Monitor
	Browser *tasks.Browser
	Logger  *log.Logger
	Output  io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Tokens == nil {
		opts.Tokens = osuapi.NewTokenSource(
			opts.Config.Credentials.Osu.ClientID,
			opts.Config.Credentials.Osu.ClientSecret,
			nil,
		)
	}
	if opts.Client == nil {
		opts.Client = osuapi.NewClient(opts.Tokens, osuapi.ClientOpts{Logger: opts.Logger})
	}
	if opts.Monitor == nil {
		opts.Monitor = tasks.NewMonitor(opts.Client, tasks.MonitorOpts{
			AutoStop:  opts.Config.Monitor.AutoStop,
			Workers:   opts.Config.Monitor.Workers,
			RateLimit: opts.Config.Monitor.RateLimit,
			Logger:    opts.Logger,
		})
	}
	if opts.Browser == nil {
		opts.Browser = tasks.NewBrowser(opts.Client, opts.Logger)
	}

	return &Runner{
		config:  opts.Config,
		tokens:  opts.Tokens,
		client:  opts.Client,
		monitor: opts.Monitor,
		browser: opts.Browser,
		logger:  opts.Logger,
		output:  opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, trackCommand, monitorCommand, browseCommand, historyCommand, coverCommand, openCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger swaps the Runner's logger, used when the TUI takes over stderr.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// openDB opens the configured database and returns it with both repositories.
func (r *Runner) openDB() (*sql.DB, *repositories.BeatmapsetRepository, *repositories.HistoryRepository, error) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, repositories.NewBeatmapsetRepository(db), repositories.NewHistoryRepository(db), nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return err
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
