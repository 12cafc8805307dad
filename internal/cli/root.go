package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tbre-automation/partslist/internal/config"
	"github.com/tbre-automation/partslist/internal/logging"
	"github.com/tbre-automation/partslist/internal/session"
)

var (
	cfgFile     string
	verbose     bool
	quietFlag   bool
	hostFlag    string
	fixtureFlag string
)

// state is what PersistentPreRunE prepares for every command.
var state struct {
	cfg *config.Config
	log *logging.Logger
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "partslist",
	Short: "Parts lists for Inventor assemblies",
	Long: `partslist connects to Autodesk Inventor, walks an assembly's occurrence
tree and reports every leaf part with its part number, description, mass and
center of mass.

Reports are written as HTML, a rounded HTML preview, tab-separated text for
pasting into spreadsheets, or Markdown.

Without Inventor, --host fixture --fixture <file.yaml> runs against a YAML
description of the documents.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./.partslist.yaml, then $HOME/.partslist.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "disable progress bars and log output on stderr")
	rootCmd.PersistentFlags().StringVar(&hostFlag, "host", "", "host driver: com or fixture (overrides config)")
	rootCmd.PersistentFlags().StringVar(&fixtureFlag, "fixture", "", "fixture YAML for --host fixture (overrides config)")
}

// setup loads configuration, applies flag overrides and builds the logger.
func setup(cmd *cobra.Command, args []string) error {
	var opts []config.LoaderOption
	if cfgFile != "" {
		opts = append(opts, config.WithConfigFile(cfgFile))
	}
	cfg, err := config.LoadConfig(opts...)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if hostFlag != "" {
		cfg.Host.Driver = hostFlag
	}
	if fixtureFlag != "" {
		cfg.Host.Fixture = fixtureFlag
		if hostFlag == "" {
			cfg.Host.Driver = config.DriverFixture
		}
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logging.New(cfg.LoggingOptions(quietFlag), time.Now())
	if err != nil {
		return err
	}
	log.Debug("configuration loaded", zap.String("command", cmd.Name()), zap.String("host", cfg.Host.Driver))

	state.cfg = cfg
	state.log = log
	return nil
}

func teardown(cmd *cobra.Command, args []string) error {
	if state.log != nil {
		err := state.log.Close()
		state.log = nil
		return err
	}
	return nil
}

// connect opens a host session from the loaded configuration.
func connect(ctx context.Context) (*session.Session, error) {
	return session.Connect(ctx, state.cfg, state.log.Logger)
}
