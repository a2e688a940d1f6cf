package common

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/ternarybob/banner"
)

// BannerInfo is what serve mode shows before it starts listening
type BannerInfo struct {
	Name         string
	Environment  string
	ConfigFile   string
	LogFile      string
	Port         int
	JiraURL      string
	APIFamily    string
	Boards       []string
	ReportDir    string
	DatabasePath string
	Routes       []string
}

var (
	outMu     sync.Mutex
	statusOut io.Writer = os.Stdout
	errorOut  io.Writer = os.Stderr
)

// SetStatusOutput redirects status lines; a nil writer restores the default
func SetStatusOutput(status, errors io.Writer) {
	outMu.Lock()
	defer outMu.Unlock()
	if status == nil {
		status = os.Stdout
	}
	if errors == nil {
		errors = os.Stderr
	}
	statusOut, errorOut = status, errors
}

// PrintBanner displays the serve-mode startup banner
func PrintBanner(info BannerInfo) {
	b := banner.New().
		SetStyle(banner.StyleDouble).
		SetBorderColor(banner.ColorPurple).
		SetTextColor(banner.ColorWhite).
		SetBold(true).
		SetWidth(80)

	fmt.Println()
	b.PrintTopLine()
	b.PrintCenteredText("AKTIS REPORTER - JIRA")
	b.PrintCenteredText("Weekly Board Activity Reports")
	b.PrintSeparatorLine()
	b.PrintKeyValue("Version", GetVersion(), 15)
	b.PrintKeyValue("Service", info.Name, 15)
	b.PrintKeyValue("Environment", info.Environment, 15)
	b.PrintKeyValue("Port", fmt.Sprintf("%d", info.Port), 15)
	b.PrintSeparatorLine()
	b.PrintKeyValue("Jira", orPlaceholder(info.JiraURL, "(not configured)"), 15)
	b.PrintKeyValue("API", orPlaceholder(info.APIFamily, "negotiated on first call"), 15)
	b.PrintKeyValue("Boards", fmt.Sprintf("%d selected", len(info.Boards)), 15)
	b.PrintBottomLine()
	fmt.Println()

	fmt.Print(bannerDetails(info))
}

// bannerDetails renders the plain text block below the box
func bannerDetails(info BannerInfo) string {
	var sb strings.Builder

	sb.WriteString("📋 Configuration:\n")
	fmt.Fprintf(&sb, "   • Config File: %s\n", orPlaceholder(info.ConfigFile, "(defaults)"))
	fmt.Fprintf(&sb, "   • Database: %s\n", info.DatabasePath)
	fmt.Fprintf(&sb, "   • Report Dir: %s\n", info.ReportDir)
	if info.LogFile != "" {
		fmt.Fprintf(&sb, "   • Log File: %s\n", info.LogFile)
	}
	sb.WriteString("\n")

	if len(info.Boards) > 0 {
		sb.WriteString("📊 Selected Boards:\n")
		for _, board := range info.Boards {
			fmt.Fprintf(&sb, "   • %s\n", board)
		}
		sb.WriteString("\n")
	}

	if len(info.Routes) > 0 {
		sb.WriteString("🔌 Endpoints:\n")
		for _, route := range info.Routes {
			fmt.Fprintf(&sb, "   • http://localhost:%d%s\n", info.Port, route)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func orPlaceholder(value, placeholder string) string {
	if strings.TrimSpace(value) == "" {
		return placeholder
	}
	return value
}

// PrintShutdownBanner displays the application shutdown banner
func PrintShutdownBanner(serviceName string) {
	b := banner.New().
		SetStyle(banner.StyleDouble).
		SetBorderColor(banner.ColorPurple).
		SetTextColor(banner.ColorWhite).
		SetBold(true).
		SetWidth(42)

	b.PrintTopLine()
	b.PrintCenteredText("SHUTTING DOWN")
	b.PrintCenteredText(serviceName)
	b.PrintBottomLine()
	fmt.Println()
}

func printStatus(w io.Writer, color, symbol, message string) {
	fmt.Fprintf(w, "%s%s %s%s\n", color, symbol, message, banner.ColorReset)
}

func PrintSuccess(message string) {
	outMu.Lock()
	defer outMu.Unlock()
	printStatus(statusOut, banner.ColorGreen, "✓", message)
}

// PrintError writes to the error stream so piped report output stays clean
func PrintError(message string) {
	outMu.Lock()
	defer outMu.Unlock()
	printStatus(errorOut, banner.ColorRed, "✗", message)
}

func PrintWarning(message string) {
	outMu.Lock()
	defer outMu.Unlock()
	printStatus(errorOut, banner.ColorYellow, "⚠", message)
}

func PrintInfo(message string) {
	outMu.Lock()
	defer outMu.Unlock()
	printStatus(statusOut, banner.ColorCyan, "ℹ", message)
}
