package main

import (
	"fmt"
	"strings"

	"aktis-reporter-jira/internal/common"
	"aktis-reporter-jira/internal/models"
	"aktis-reporter-jira/internal/services"

	"github.com/spf13/cobra"
)

var (
	projectSearch string
	projectSelect string
	projectAll    bool

	boardsAll    bool
	boardsSelect string
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List, search and select projects",
	RunE:  runProjects,
}

var boardsCmd = &cobra.Command{
	Use:   "boards",
	Short: "Discover and select boards for the selected projects",
	RunE:  runBoards,
}

var addBoardCmd = &cobra.Command{
	Use:   "add-board ID",
	Short: "Select a board by id, including boards outside the selected projects",
	Args:  cobra.ExactArgs(1),
	RunE:  runAddBoard,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the selected projects and boards",
	RunE: func(cmd *cobra.Command, args []string) error {
		record, err := store.LoadSession()
		if err != nil {
			return err
		}

		heading("Connection")
		fmt.Printf("  %s  %s\n", mutedStyle.Render("URL:"), record.BaseURL)
		fmt.Printf("  %s  %s\n", mutedStyle.Render("Auth:"), record.AuthMethod)
		if record.APIVersion != models.FamilyUnknown {
			fmt.Printf("  %s  %s\n", mutedStyle.Render("API:"), record.APIVersion)
		}

		heading(fmt.Sprintf("Selected projects (%d)", len(record.SelectedProjects)))
		for _, p := range record.SelectedProjects {
			fmt.Printf("  %s  %s\n", keyStyle.Render(p.Key), p.Name)
		}

		heading(fmt.Sprintf("Selected boards (%d)", len(record.SelectedBoards)))
		for _, b := range record.SelectedBoards {
			printBoard(b)
		}
		return nil
	},
}

func init() {
	projectsCmd.Flags().StringVarP(&projectSearch, "search", "s", "", "Filter projects by key or name")
	projectsCmd.Flags().StringVar(&projectSelect, "select", "", "Comma-separated project keys to select")
	projectsCmd.Flags().BoolVar(&projectAll, "all", false, "Select every accessible project")

	boardsCmd.Flags().BoolVar(&boardsAll, "all", false, "Show boards from every project")
	boardsCmd.Flags().StringVar(&boardsSelect, "select", "", "Comma-separated board ids to select, or 'all'")
}

func runProjects(cmd *cobra.Command, args []string) error {
	session, err := openSession()
	if err != nil {
		return err
	}
	defer persistFamily(session)

	bar := newSpinner("Fetching projects")
	projects, err := session.Discovery.Projects(cmd.Context())
	finishBar(bar)
	if err != nil {
		return err
	}

	var selected []models.Project
	switch {
	case projectAll:
		selected = projects
	case projectSelect != "":
		var missing []string
		selected, missing = services.SelectProjectsByKey(projects, parseCommaList(projectSelect))
		for _, key := range missing {
			common.PrintWarning(fmt.Sprintf("Project %s not found", key))
		}
	}

	if projectAll || projectSelect != "" {
		session.Record.SelectedProjects = selected
		if err := store.SaveSession(session.Record); err != nil {
			return err
		}
		common.PrintSuccess(fmt.Sprintf("Selected %d project(s)", len(selected)))
		return nil
	}

	shown := projects
	if projectSearch != "" {
		shown = services.FindProjects(projects, projectSearch)
	}

	heading(fmt.Sprintf("Projects (%d of %d)", len(shown), len(projects)))
	for _, p := range shown {
		fmt.Printf("  %-12s %s %s\n", keyStyle.Render(p.Key), p.Name, mutedStyle.Render(p.Type))
	}
	return nil
}

func runBoards(cmd *cobra.Command, args []string) error {
	session, err := openSession()
	if err != nil {
		return err
	}
	defer persistFamily(session)

	bar := newSpinner("Discovering boards")
	boards := session.Discovery.Boards(cmd.Context(), session.Record.SelectedProjects)
	finishBar(bar)

	keys := session.Record.ProjectKeys()
	if !boardsAll && len(keys) > 0 {
		filtered := services.FilterBoardsByProjects(boards, keys)
		if len(filtered) == 0 && len(boards) > 0 {
			common.PrintWarning(fmt.Sprintf("None of the %d boards belong to %s", len(boards), strings.Join(keys, ", ")))
			fmt.Println("  • add-board ID    select a known board by id")
			fmt.Println("  • boards --all    list boards from every project")
			fmt.Println("  • skip            report from project summaries only")
			return nil
		}
		boards = filtered
	}

	if boardsSelect != "" {
		return selectBoards(session, boards)
	}

	heading(fmt.Sprintf("Boards (%d)", len(boards)))
	for _, b := range boards {
		printBoard(b)
	}
	return nil
}

func selectBoards(session *services.Session, boards []models.Board) error {
	chosen := boards
	if !strings.EqualFold(strings.TrimSpace(boardsSelect), "all") {
		chosen = nil
		for _, id := range parseCommaList(boardsSelect) {
			found := false
			for _, b := range boards {
				if b.ID.String() == id {
					chosen = append(chosen, b)
					found = true
					break
				}
			}
			if !found {
				common.PrintWarning(fmt.Sprintf("Board %s not in the discovered list, use add-board", id))
			}
		}
	}

	added := 0
	for _, b := range chosen {
		if session.Record.AddBoard(b) {
			added++
		}
	}
	if err := store.SaveSession(session.Record); err != nil {
		return err
	}
	common.PrintSuccess(fmt.Sprintf("Selected %d new board(s), %d total", added, len(session.Record.SelectedBoards)))
	return nil
}

func runAddBoard(cmd *cobra.Command, args []string) error {
	session, err := openSession()
	if err != nil {
		return err
	}
	defer persistFamily(session)

	board, err := session.Discovery.GetBoard(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if !session.Record.AddBoard(*board) {
		common.PrintInfo(fmt.Sprintf("Board %s is already selected", board.ID))
		return nil
	}
	if err := store.SaveSession(session.Record); err != nil {
		return err
	}
	common.PrintSuccess(fmt.Sprintf("Added board %s (%s)", board.Name, board.ID))
	return nil
}

func printBoard(b models.Board) {
	fmt.Printf("  %-16s %s %s\n",
		keyStyle.Render(b.ID.String()),
		b.Name,
		mutedStyle.Render(fmt.Sprintf("[%s, %s]", b.Kind, b.ProjectKey)))
}
