package main

import (
	"fmt"
	"os"
	"strings"

	"aktis-reporter-jira/internal/common"
	"aktis-reporter-jira/internal/models"
	"aktis-reporter-jira/internal/services"

	"github.com/spf13/cobra"
)

var (
	setupURL   string
	setupEmail string
	setupToken string
	setupPAT   string
	setupReset bool
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Store Jira connection details and verify them",
	Long: `Store the Jira base URL and credentials. Cloud sites use an email and API
token (basic auth); Server and Data Center may use a personal access token.
Tokens may also come from JIRA_API_TOKEN or JIRA_PERSONAL_TOKEN.
--reset forgets the stored session, including selected projects and boards.`,
	RunE: runSetup,
}

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Check the stored connection",
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := openSession()
		if err != nil {
			return err
		}

		bar := newSpinner("Connecting to " + session.BaseURL())
		identity, err := session.Negotiator.Probe(cmd.Context())
		finishBar(bar)
		if err != nil {
			return err
		}
		persistFamily(session)

		common.PrintSuccess(fmt.Sprintf("Connected as %s (API %s)", identity.DisplayName, identity.Family))
		return nil
	},
}

func init() {
	setupCmd.Flags().StringVar(&setupURL, "url", "", "Jira base URL, e.g. https://company.atlassian.net")
	setupCmd.Flags().StringVar(&setupEmail, "email", "", "Account email for API token auth")
	setupCmd.Flags().StringVar(&setupToken, "token", "", "API token (basic auth with --email)")
	setupCmd.Flags().StringVar(&setupPAT, "pat", "", "Personal access token (bearer auth)")
	setupCmd.Flags().BoolVar(&setupReset, "reset", false, "Forget the stored session before configuring")
}

func runSetup(cmd *cobra.Command, args []string) error {
	if setupReset {
		if err := store.ClearSession(); err != nil {
			return common.WrapError(err, common.ErrorTypeStorage, "clear_failed", "failed to clear stored session")
		}
		logger.Info().Msg("Stored session cleared")
		if strings.TrimSpace(setupURL) == "" {
			common.PrintSuccess("Stored session cleared")
			return nil
		}
	}
	if strings.TrimSpace(setupURL) == "" {
		return common.NewConfigurationError("missing_url", "--url is required")
	}

	record := &models.SessionRecord{
		BaseURL: services.NormalizeBaseURL(setupURL),
	}

	// selections survive re-running setup against the same site
	if existing, err := store.LoadSession(); err == nil && existing.BaseURL == record.BaseURL {
		record.SelectedProjects = existing.SelectedProjects
		record.SelectedBoards = existing.SelectedBoards
	}

	token := firstNonEmpty(setupToken, os.Getenv("JIRA_API_TOKEN"))
	pat := firstNonEmpty(setupPAT, os.Getenv("JIRA_PERSONAL_TOKEN"))

	switch {
	case pat != "":
		record.AuthMethod = models.AuthMethodToken
		record.PersonalToken = pat
		if services.IsCloudHost(record.BaseURL) {
			common.PrintWarning("Atlassian Cloud sites usually require --email and --token instead of a personal access token")
		}
	case token != "":
		record.AuthMethod = models.AuthMethodBasic
		record.Email = strings.TrimSpace(setupEmail)
		record.APIToken = token
	default:
		return common.NewConfigurationError("missing_credentials", "provide --email with --token, or --pat")
	}

	if err := record.Validate(); err != nil {
		return common.NewConfigurationError("invalid_session", err.Error())
	}

	session, err := services.NewSession(record, &cfg.Jira, logger)
	if err != nil {
		return err
	}

	bar := newSpinner("Connecting to " + record.BaseURL)
	identity, err := session.Negotiator.Probe(cmd.Context())
	finishBar(bar)
	if err != nil {
		return err
	}
	session.SyncFamily()

	if err := store.SaveSession(session.Record); err != nil {
		return err
	}

	logger.Info().
		Str("base_url", record.BaseURL).
		Str("auth_method", string(record.AuthMethod)).
		Str("api_version", record.APIVersion.String()).
		Msg("Session configured")

	common.PrintSuccess(fmt.Sprintf("Connected as %s (API %s)", identity.DisplayName, identity.Family))
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
