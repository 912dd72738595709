// Package app provides application bootstrapping with Cobra, Viper, and Pflag.
//
// Configuration is layered: defaults from the options constructor, then an
// optional .env file, then the YAML config file, then environment variables
// (prefixed with the upper-cased app name), then explicitly set flags.
//
//	app.NewApp(
//	    app.WithName("tutor"),
//	    app.WithOptions(opts),
//	    app.WithRunFunc(run),
//	).Run()
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"regexp"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/kart-io/version"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// App is the main application structure.
type App struct {
	name        string
	shortDesc   string
	description string
	options     CliOptions
	runFunc     RunFunc
	cmd         *cobra.Command
	viper       *viper.Viper
}

// RunFunc is the application's run function. ctx is cancelled on SIGINT or SIGTERM.
type RunFunc func(ctx context.Context, v *viper.Viper) error

// Option configures an App.
type Option func(*App)

// WithName sets the application name.
func WithName(name string) Option {
	return func(a *App) {
		a.name = name
	}
}

// WithShortDescription sets the short description.
func WithShortDescription(desc string) Option {
	return func(a *App) {
		a.shortDesc = desc
	}
}

// WithDescription sets the long description.
func WithDescription(desc string) Option {
	return func(a *App) {
		a.description = desc
	}
}

// WithOptions sets the CLI options.
func WithOptions(opts CliOptions) Option {
	return func(a *App) {
		a.options = opts
	}
}

// WithRunFunc sets the run function.
func WithRunFunc(run RunFunc) Option {
	return func(a *App) {
		a.runFunc = run
	}
}

// NewApp creates a new application instance.
func NewApp(opts ...Option) *App {
	a := &App{
		name:  filepath.Base(os.Args[0]),
		viper: viper.New(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.buildCommand()
	return a
}

func (a *App) buildCommand() {
	cmd := &cobra.Command{
		Use:          a.name,
		Short:        a.shortDesc,
		Long:         a.description,
		RunE:         a.runCommand,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
	}
	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)
	cmd.Flags().SortFlags = true

	cmd.PersistentFlags().StringP("config", "c", "", "Path to config file")
	cmd.PersistentFlags().String("env-file", ".env", "Optional dotenv file loaded before the config")
	version.AddFlags(cmd.PersistentFlags())

	if a.options != nil {
		a.options.AddFlags(cmd.Flags())
	}
	a.cmd = cmd
}

func (a *App) runCommand(cmd *cobra.Command, _ []string) error {
	version.PrintAndExitIfRequested()

	if err := a.loadConfig(cmd); err != nil {
		return err
	}

	if a.options != nil {
		if err := a.options.Complete(); err != nil {
			return fmt.Errorf("complete options: %w", err)
		}
		if err := a.options.Validate(); err != nil {
			return fmt.Errorf("invalid options: %w", err)
		}
	}

	if a.runFunc == nil {
		return nil
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return a.runFunc(ctx, a.viper)
}

// loadConfig loads configuration from .env, file, environment, and flags.
func (a *App) loadConfig(cmd *cobra.Command) error {
	envFile, _ := cmd.Flags().GetString("env-file")
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}

	v := a.viper
	if configFile, _ := cmd.Flags().GetString("config"); configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(a.name)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/" + a.name)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	expandEnvVars(v)

	v.SetEnvPrefix(strings.ToUpper(strings.ReplaceAll(a.name, "-", "_")))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if a.options == nil {
		return nil
	}

	// 先记下显式设置的 flag，反序列化后重新应用以保证优先级
	changed := make(map[string]string)
	cmd.Flags().Visit(func(f *pflag.Flag) {
		changed[f.Name] = f.Value.String()
	})
	if err := v.Unmarshal(a.options); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	for name, val := range changed {
		if err := cmd.Flags().Set(name, val); err != nil {
			return fmt.Errorf("failed to re-apply flag %s: %w", name, err)
		}
	}
	return nil
}

var envPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// expandEnvVars expands ${VAR} and $VAR references in string config values.
// Unknown variables are left as written.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		s, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		expanded := envPattern.ReplaceAllStringFunc(s, func(match string) string {
			name := strings.TrimPrefix(strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}"), "$")
			if val, ok := os.LookupEnv(name); ok {
				return val
			}
			return match
		})
		if expanded != s {
			v.Set(key, expanded)
		}
	}
}

// Run executes the application and exits non-zero on error.
func (a *App) Run() {
	if err := a.cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// Command returns the cobra command.
func (a *App) Command() *cobra.Command {
	return a.cmd
}
