package main

import (
	"context"
	"fmt"
	"time"

	"aktis-reporter-jira/internal/common"
	"aktis-reporter-jira/internal/models"
	"aktis-reporter-jira/internal/services"

	"github.com/spf13/cobra"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve boards and reports over a read-only HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if servePort > 0 {
		cfg.Server.Port = servePort
	}

	session, err := openSession()
	if err != nil {
		return err
	}

	boards := make([]string, 0, len(session.Record.SelectedBoards))
	for _, b := range session.Record.SelectedBoards {
		boards = append(boards, fmt.Sprintf("%s (%s)", b.Name, b.ID))
	}
	family := ""
	if session.Record.APIVersion != models.FamilyUnknown {
		family = session.Record.APIVersion.String()
	}
	common.PrintBanner(common.BannerInfo{
		Name:         cfg.Reporter.Name,
		Environment:  cfg.Reporter.Environment,
		ConfigFile:   configPath,
		LogFile:      common.GetLogFilePath(),
		Port:         cfg.Server.Port,
		JiraURL:      session.BaseURL(),
		APIFamily:    family,
		Boards:       boards,
		ReportDir:    absPath(cfg.Report.OutputDir),
		DatabasePath: cfg.Storage.DatabasePath,
		Routes:       services.Routes,
	})

	probeCtx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	identity, err := session.Negotiator.Probe(probeCtx)
	cancel()
	if err != nil {
		if common.IsErrorType(err, common.ErrorTypeAuth) {
			return err
		}
		common.PrintWarning(fmt.Sprintf("Jira is not reachable yet: %v", err))
	} else {
		persistFamily(session)
		common.PrintSuccess(fmt.Sprintf("Connected as %s (API %s)", identity.DisplayName, identity.Family))
	}

	service := services.NewReportService(session, store, &cfg.Report, logger)
	webServer, err := services.NewWebServer(cfg, store, service, logger)
	if err != nil {
		return fmt.Errorf("failed to create web server: %w", err)
	}

	if err := webServer.Start(cmd.Context()); err != nil {
		return fmt.Errorf("failed to start web server: %w", err)
	}

	logger.Info().Int("port", cfg.Server.Port).Msg("Server mode running")
	common.PrintInfo(fmt.Sprintf("Listening on http://localhost:%d", cfg.Server.Port))

	<-cmd.Context().Done()
	logger.Info().Msg("Received shutdown signal")

	common.PrintShutdownBanner(cfg.Reporter.Name)
	if err := webServer.Stop(); err != nil {
		logger.Error().Err(err).Msg("Failed to stop web server")
	}
	logger.Info().Msg("Server stopped")
	return nil
}
