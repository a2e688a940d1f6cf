package main

import (
	"fmt"
	"path/filepath"
	"time"

	"aktis-reporter-jira/internal/activity"
	"aktis-reporter-jira/internal/common"
	"aktis-reporter-jira/internal/models"
	"aktis-reporter-jira/internal/report"
	"aktis-reporter-jira/internal/services"

	"github.com/spf13/cobra"
)

var (
	issueStatuses string

	reportDays      int
	reportOutput    string
	reportNoSummary bool
	reportXLSX      bool
	reportPreview   bool
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show recent issues per selected project and status counts per selected board",
	RunE:  runSummary,
}

var boardIssuesCmd = &cobra.Command{
	Use:   "board-issues [ID]",
	Short: "List a board's issues grouped by status",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBoardIssues,
}

var reportCmd = &cobra.Command{
	Use:   "report [ID]",
	Short: "Generate the weekly markdown report for a board",
	Long: `Generate the weekly activity report for a board. Without an id the first
selected board is used. The report is written to the configured output
directory as Weekly_Kanban_Report_YYYY-MM-DD.md unless --output is given; use
--output - to print it instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReport,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List previously generated reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := store.ListReports()
		if err != nil {
			return err
		}

		heading(fmt.Sprintf("Report history (%d)", len(records)))
		for _, r := range records {
			output := r.OutputPath
			if output == "" {
				output = "(not written)"
			}
			fmt.Printf("  %s  %-24s %s  %s\n",
				mutedStyle.Render(r.GeneratedAt.Local().Format("2006-01-02 15:04")),
				keyStyle.Render(r.BoardName),
				fmt.Sprintf("started %d, completed %d, blocked %d, other %d", r.Started, r.Completed, r.Blocked, r.Other),
				mutedStyle.Render(output))
		}
		return nil
	},
}

func init() {
	boardIssuesCmd.Flags().StringVar(&issueStatuses, "status", "", "Comma-separated status groups (default In Progress, In Review, Done)")
	summaryCmd.Flags().StringVar(&issueStatuses, "status", "", "Comma-separated status groups for board counts")

	reportCmd.Flags().IntVarP(&reportDays, "days", "d", 0, "Lookback window in days (default from config)")
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "Output file, or - for stdout")
	reportCmd.Flags().BoolVar(&reportNoSummary, "no-summary", false, "Skip executive summaries")
	reportCmd.Flags().BoolVar(&reportXLSX, "xlsx", false, "Also export an Excel workbook")
	reportCmd.Flags().BoolVar(&reportPreview, "preview", false, "Render the report in the terminal")
}

func runSummary(cmd *cobra.Command, args []string) error {
	session, err := openSession()
	if err != nil {
		return err
	}
	defer persistFamily(session)

	if len(session.Record.SelectedProjects) == 0 && len(session.Record.SelectedBoards) == 0 {
		common.PrintWarning("Nothing selected, run projects --select or add-board first")
		return nil
	}

	bar := newSpinner("Fetching project issues")
	projects := session.ProjectSummaries(cmd.Context(), cfg.Jira.SummaryCount)
	describe(bar, "Fetching board issues")
	boards := session.BoardSummaries(cmd.Context(), parseCommaList(issueStatuses))
	finishBar(bar)

	for _, p := range projects {
		heading(fmt.Sprintf("%s  %s", p.Project.Key, p.Project.Name))
		if p.Error != "" {
			common.PrintError(p.Error)
			continue
		}
		if len(p.Issues) == 0 {
			fmt.Println(mutedStyle.Render("  No issues found"))
		}
		for _, issue := range p.Issues {
			printIssue(issue)
		}
	}

	for _, b := range boards {
		heading(fmt.Sprintf("%s  (%d issues)", b.Board.Name, b.Total))
		for _, g := range b.Groups {
			fmt.Printf("  %-14s %d\n", statusStyle.Render(g.Status), len(g.Issues))
		}
		if len(b.Latest) > 0 {
			fmt.Println(mutedStyle.Render("  Latest:"))
			for _, issue := range b.Latest {
				printIssue(issue)
			}
		}
	}
	return nil
}

func runBoardIssues(cmd *cobra.Command, args []string) error {
	session, err := openSession()
	if err != nil {
		return err
	}
	defer persistFamily(session)

	board, err := pickBoard(cmd, session, args)
	if err != nil {
		return err
	}

	bar := newSpinner("Fetching issues for " + board.Name)
	issues := session.Discovery.BoardIssues(cmd.Context(), board)
	finishBar(bar)

	heading(fmt.Sprintf("%s  (%d issues)", board.Name, len(issues)))
	for _, g := range activity.GroupByStatus(issues, parseCommaList(issueStatuses)) {
		fmt.Println()
		fmt.Println(statusStyle.Render(fmt.Sprintf("  %s (%d)", g.Status, len(g.Issues))))
		for _, issue := range g.Issues {
			printIssue(issue)
		}
	}
	return nil
}

func runReport(cmd *cobra.Command, args []string) error {
	session, err := openSession()
	if err != nil {
		return err
	}
	defer persistFamily(session)

	board, err := pickBoard(cmd, session, args)
	if err != nil {
		return err
	}

	reporter := services.NewReporter(session, store, &cfg.Report, logger)

	bar := newSpinner("Generating report for " + board.Name)
	reporter.OnProgress(func(event string, data interface{}) {
		switch event {
		case "issues_classified":
			describe(bar, "Writing report")
		case "summary_generated":
			describe(bar, "Summarizing issues")
		}
	})

	req := services.ReportRequest{
		Board:            board,
		Days:             reportDays,
		IncludeSummaries: cfg.Report.IncludeSummaries && !reportNoSummary,
		OutputPath:       reportOutput,
	}
	if reportXLSX {
		req.XLSXPath = fmt.Sprintf("Weekly_Kanban_Report_%s.xlsx", time.Now().Format("2006-01-02"))
	}

	result, err := reporter.Generate(cmd.Context(), req)
	finishBar(bar)
	if err != nil {
		return err
	}

	switch {
	case reportPreview:
		fmt.Println(report.Preview(result.Markdown, 100))
	case reportOutput == services.StdoutPath:
		fmt.Println(result.Markdown)
	}

	c := result.Classified
	common.PrintInfo(fmt.Sprintf("%s: %d started, %d completed, %d blocked, %d other",
		board.Name, len(c.Started), len(c.Completed), len(c.Blocked), len(c.Other)))
	if result.OutputPath != "" {
		common.PrintSuccess("Report written to " + absPath(result.OutputPath))
	}
	if result.XLSXPath != "" {
		common.PrintSuccess("Workbook written to " + absPath(result.XLSXPath))
	}
	return nil
}

// pickBoard resolves the board argument, defaulting to the first selected board
func pickBoard(cmd *cobra.Command, session *services.Session, args []string) (models.Board, error) {
	if len(args) == 1 {
		reporter := services.NewReporter(session, nil, &cfg.Report, logger)
		return reporter.ResolveBoard(cmd.Context(), args[0]), nil
	}
	if len(session.Record.SelectedBoards) == 0 {
		return models.Board{}, common.NewConfigurationError("no_board", "no board selected, pass a board id or run boards --select")
	}
	return session.Record.SelectedBoards[0], nil
}

func printIssue(issue models.Issue) {
	fmt.Printf("    %-12s %s %s\n",
		keyStyle.Render(issue.Key),
		shorten(issue.Summary, 70),
		mutedStyle.Render(fmt.Sprintf("[%s, %s]", issue.Status, issue.Assignee)))
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
