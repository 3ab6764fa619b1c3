package main

import (
	"bufio"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/akoval/topspin/internal/catalog"
	"github.com/akoval/topspin/internal/repositories"
	"github.com/akoval/topspin/internal/services"
	"github.com/akoval/topspin/internal/shared"
	"github.com/akoval/topspin/internal/tasks"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	records services.RecordSource
	artwork services.ArtworkSource
	engine  *tasks.CatalogEngine
	db      *sql.DB
	runs    *repositories.RunRepository
	logger  *log.Logger
	output  io.Writer
	input   *bufio.Reader
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config
	Records services.RecordSource
	Artwork services.ArtworkSource
	Logger  *log.Logger
	Output  io.Writer
	Input   io.Reader
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
	if opts.Input == nil {
		opts.Input = os.Stdin
	}

	engine := tasks.NewCatalogEngine(opts.Records, opts.Artwork, opts.Config.Fields,
		shared.WithLogger(opts.Logger, "component", "engine"))

	return &Runner{
		config:  opts.Config,
		records: opts.Records,
		artwork: opts.Artwork,
		engine:  engine,
		logger:  opts.Logger,
		output:  opts.Output,
		input:   bufio.NewReader(opts.Input),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, rankCommand, coversCommand, pruneCommand, statsCommand, historyCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the runner and engine loggers.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
	r.engine.SetLogger(shared.WithLogger(logger, "component", "engine"))
}

// historyRepo lazily opens the run-history database and runs migrations.
func (r *Runner) historyRepo() (*repositories.RunRepository, error) {
	if r.runs != nil {
		return r.runs, nil
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate history database: %w", err)
	}

	r.db = db
	r.runs = repositories.NewRunRepository(db)
	return r.runs, nil
}

// attachHistory wires run recording into the engine. History is optional, so a
// failure only logs a warning.
func (r *Runner) attachHistory() {
	repo, err := r.historyRepo()
	if err != nil {
		r.logger.Warn("run history disabled", "err", err)
		return
	}
	r.engine.SetRunRecorder(repo)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
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

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

// readLine reads one trimmed line of operator input.
func (r *Runner) readLine() (string, error) {
	line, err := r.input.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptPolicy asks for the sorting policy until the operator enters a valid one.
func (r *Runner) promptPolicy() (catalog.Policy, error) {
	for {
		r.writePlain("Choose sorting option (default/compact) [d/c]: ")
		line, err := r.readLine()
		if err != nil {
			return catalog.PolicyDefault, fmt.Errorf("failed to read input: %w", err)
		}

		policy, err := catalog.ParsePolicy(line)
		if err != nil {
			r.writePlain("Please enter one of: d, c, default, compact\n")
			continue
		}
		return policy, nil
	}
}

// promptYesNo asks a y/n question until the operator answers one or the other.
func (r *Runner) promptYesNo(prompt string) (bool, error) {
	for {
		r.writePlain("%s", prompt)
		line, err := r.readLine()
		if err != nil {
			return false, fmt.Errorf("failed to read input: %w", err)
		}

		switch strings.ToLower(line) {
		case "y":
			return true, nil
		case "n":
			return false, nil
		default:
			r.writePlain("Please enter one of: y, n\n")
		}
	}
}
