package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"aktis-reporter-jira/internal/common"
	"aktis-reporter-jira/internal/interfaces"
	"aktis-reporter-jira/internal/services"

	"github.com/spf13/cobra"
	"github.com/ternarybob/arbor"
)

const appName = "aktis-reporter-jira"

var (
	configPath string
	quiet      bool

	cfg    *common.Config
	logger arbor.ILogger
	store  interfaces.Storage
)

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Weekly Jira board activity reports",
	Long: `Aktis Reporter Jira connects to Jira Cloud or Server/Data Center, discovers
boards across the agile, GreenHopper and project APIs, buckets recent issue
activity and writes a weekly markdown report.`,
	SilenceErrors:      true,
	SilenceUsage:       true,
	PersistentPreRunE:  initRuntime,
	PersistentPostRunE: closeRuntime,
}

func execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		common.PrintError(err.Error())
		if store != nil {
			store.Close()
		}
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress banner and spinners")

	rootCmd.AddCommand(
		setupCmd,
		testCmd,
		projectsCmd,
		boardsCmd,
		addBoardCmd,
		listCmd,
		summaryCmd,
		boardIssuesCmd,
		reportCmd,
		historyCmd,
		serveCmd,
		versionCmd,
	)
}

func initRuntime(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = common.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := common.InitLogger(&cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = common.GetLogger()

	logger.Info().
		Str("version", common.GetVersion()).
		Str("command", cmd.Name()).
		Str("config_path", configPath).
		Msg("Starting Aktis Reporter Jira")

	store, err = services.NewStorage(&cfg.Storage, logger)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	return nil
}

func closeRuntime(cmd *cobra.Command, args []string) error {
	if store == nil {
		return nil
	}
	err := store.Close()
	store = nil
	return err
}
