package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spoolr/internal/repositories"
	"github.com/desertthunder/spoolr/internal/services"
	"github.com/desertthunder/spoolr/internal/shared"
	"github.com/desertthunder/spoolr/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The store and everything built on it are opened lazily by [Runner.init], after the global flags are parsed.
type Runner struct {
	config     *shared.Config
	configPath string
	logger     *log.Logger
	output     io.Writer

	store     *repositories.Store
	engine    *tasks.UsageEngine
	auth      *services.AuthService
	users     *services.UserService
	filaments *repositories.FilamentRepository
	printers  *repositories.PrinterRepository
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config // When nil, loaded from the --config path on first use
	ConfigPath string
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, registerCommand, loginCommand, filamentCommand, printerCommand,
		usageCommand, statsCommand, usersCommand, exportCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the runner's logger. It must be called before [Runner.init] to reach the store.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// loadConfig reads the configuration at path, falling back to defaults when the file is absent.
func (r *Runner) loadConfig(path string) (*shared.Config, error) {
	if path == "" {
		path = "config.toml"
	}
	r.configPath = path

	config, err := shared.LoadConfig(path)
	if errors.Is(err, shared.ErrMissingConfig) {
		r.logger.Debug("config file not found, using defaults", "path", path)
		return shared.DefaultConfig(), nil
	}
	return config, err
}

// init resolves configuration and opens the store on first use.
//
// Unreadable documents are logged and replaced by empty aggregates, so init only fails on configuration errors.
func (r *Runner) init(cmd *cli.Command) error {
	if r.store != nil {
		return nil
	}

	if r.config == nil {
		config, err := r.loadConfig(cmd.String("config"))
		if err != nil {
			return err
		}
		r.config = config
	}

	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	} else {
		shared.SetLogLevel(r.logger, r.config.LogLevel())
	}

	storeLogger := shared.WithLogger(r.logger, "component", "store")
	store := repositories.NewStore(r.config.Storage.CatalogPath, r.config.Storage.StatsPath, storeLogger)
	if err := store.Load(); err != nil {
		storeLogger.Warn("documents loaded with errors", "error", err)
	}

	userRepo := repositories.NewUserRepository(store)
	r.store = store
	r.engine = tasks.NewUsageEngine(store, shared.WithLogger(r.logger, "component", "usage"))
	r.auth = services.NewAuthService(userRepo, shared.WithLogger(r.logger, "component", "auth"))
	r.users = services.NewUserService(userRepo, shared.WithLogger(r.logger, "component", "users"))
	r.filaments = repositories.NewFilamentRepository(store)
	r.printers = repositories.NewPrinterRepository(store)
	return nil
}

// authorize initializes the runner and checks the --as/--as-password admin credentials.
func (r *Runner) authorize(cmd *cli.Command) error {
	if err := r.init(cmd); err != nil {
		return err
	}

	username := cmd.String("as")
	if username == "" {
		return fmt.Errorf("%w: --as is required for this command", shared.ErrMissingArgument)
	}

	admin, err := r.auth.Authorize(username, cmd.String("as-password"))
	if err != nil {
		return err
	}
	r.logger.Debug("authorized", "username", admin.Username)
	return nil
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
