package controllers

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/qtech/forgeupdates/internal/domain/commands"
	"github.com/qtech/forgeupdates/internal/domain/entities"
)

//nolint:gochecknoglobals // terminal styles
var (
	updateStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	currentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// CheckController handles the "check" subcommand.
type CheckController struct {
	command commands.Check
}

// NewCheckController creates a new CheckController.
func NewCheckController(command commands.Check) *CheckController {
	return &CheckController{command: command}
}

// GetBind returns the Cobra command metadata for the check controller.
func (it *CheckController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "check [component-id]",
		Short: "Check the configured components for updates",
		Long: `Fetch the update manifest of every configured component (or only the
given one), resolve the release for the configured game version and
channel, and print whether an update is available together with the
flattened list of dependencies that would be downloaded.`,
	}
}

// Execute runs a single check.
func (it *CheckController) Execute(cmd *cobra.Command, args []string) {
	settings, err := loadSettings(cmd)
	if err != nil {
		logger.Error(err)
		return
	}

	opts := commands.CheckOptions{}
	if len(args) > 0 {
		opts.ComponentID = args[0]
	}

	results, err := it.command.Execute(context.Background(), settings, opts)
	if err != nil {
		logger.Errorf("Check failed: %v", err)
		return
	}

	for _, result := range results {
		printCheckResult(cmd.OutOrStdout(), result)
	}
}

func printCheckResult(out io.Writer, result commands.CheckResult) {
	info := result.Info
	name := result.Component.Name()

	switch info.Status {
	case entities.StatusUpdateAvailable:
		current, latest := result.CurrentVersion.String(), info.LatestVersion.String()
		label := latest
		if kind := entities.AnalyzeChange(current, latest); kind != entities.ChangeUnknown {
			label = fmt.Sprintf("%s, %s", latest, kind)
		}
		_, _ = fmt.Fprintf(out, "%s: %s -> %s (%s)\n",
			name, current, updateStyle.Render(label), info.ReleaseURL)
	case entities.StatusUpToDate:
		_, _ = fmt.Fprintf(out, "%s: %s\n", name, currentStyle.Render(result.CurrentVersion.String()+" is up to date"))
	default:
		_, _ = fmt.Fprintf(out, "%s: %s (%v)\n", name, failureStyle.Render(info.Status.String()), info.Err)
		return
	}

	for _, dep := range info.Dependencies.Flatten() {
		_, _ = fmt.Fprintf(out, "  + %s (%s)\n", dep.DisplayName, dep.DownloadURL)
	}
}
