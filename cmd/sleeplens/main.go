package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/spektr-org/sleeplens/config"
	"github.com/spektr-org/sleeplens/dashboard"
	"github.com/spektr-org/sleeplens/dataset"
	"github.com/spektr-org/sleeplens/server"
)

// ============================================================================
// SLEEPLENS CLI — Sleep, Health and Lifestyle dashboard
// ============================================================================

const version = "0.3.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app carries the state shared by every subcommand.
type app struct {
	v          *viper.Viper
	configPath string
	cfg        *config.Config
	logger     *zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.New()}

	root := &cobra.Command{
		Use:   "sleeplens",
		Short: "Sleep, Health and Lifestyle dashboard",
		Long: `Sleeplens serves an interactive dashboard over the Sleep, Health and
Lifestyle dataset: a strip plot, bar chart and box plot of the selected
sleep metric, plus a BMI by sleep disorder heatmap.

Examples:
  sleeplens --data Sleep_health_and_lifestyle_dataset.csv
  sleeplens serve --port 9000 --debug
  SLEEPLENS_DATA_SOURCE=mysql SLEEPLENS_DATA_DSN="user:pw@tcp(db:3306)/health" sleeplens serve
  sleeplens export --chart bar --metric "Quality of Sleep" --format csv --out bar.csv`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE:              a.runServe,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default ./sleeplens.{yaml,toml,json})")
	pf.String("host", "127.0.0.1", "listen host")
	pf.Int("port", 8050, "listen port")
	pf.Bool("debug", false, "debug logging and console output")
	pf.String("data", "", "path to the dataset CSV")

	bind(a.v, pf.Lookup("host"), "server.host")
	bind(a.v, pf.Lookup("port"), "server.port")
	bind(a.v, pf.Lookup("debug"), "server.debug")
	bind(a.v, pf.Lookup("data"), "data.path")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Serve the dashboard (default command)",
			RunE:  a.runServe,
		},
		newExportCmd(a),
		&cobra.Command{
			Use:   "version",
			Short: "Print version and exit",
			PersistentPreRunE: func(*cobra.Command, []string) error {
				return nil
			},
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "sleeplens %s\n", version)
			},
		},
	)
	return root
}

func bind(v *viper.Viper, flag *pflag.Flag, key string) {
	if err := v.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", key, err))
	}
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.v, a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = config.NewLogger(cfg)
	return nil
}

// ============================================================================
// SERVE
// ============================================================================

func (a *app) runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	table, err := a.loadTable(ctx)
	if err != nil {
		a.logger.Error().Err(err).Msg("❌ dataset load failed")
		return err
	}

	srv, err := server.New(dashboard.NewController(table), a.logger, server.WithDebug(a.cfg.Server.Debug))
	if err != nil {
		a.logger.Error().Err(err).Msg("❌ server setup failed")
		return err
	}
	return srv.ListenAndServe(ctx, a.cfg.Server.Addr())
}

// loadTable reads the dataset from the configured source.
func (a *app) loadTable(ctx context.Context) (*dataset.Table, error) {
	d := a.cfg.Data
	switch d.Source {
	case config.SourceMySQL:
		db, err := dataset.OpenMySQL(ctx, d.DSN)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		return dataset.LoadSQL(ctx, db, d.Table, dataset.WithLogger(a.logger))
	default:
		return dataset.LoadFile(d.Path, dataset.WithLogger(a.logger))
	}
}
