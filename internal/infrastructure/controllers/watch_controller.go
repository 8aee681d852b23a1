package controllers

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/qtech/forgeupdates/internal/domain/commands"
	"github.com/qtech/forgeupdates/internal/domain/entities"
)

// WatchController handles the "watch" subcommand.
type WatchController struct {
	command commands.Watch
}

// NewWatchController creates a new WatchController.
func NewWatchController(command commands.Watch) *WatchController {
	return &WatchController{command: command}
}

// GetBind returns the Cobra command metadata for the watch controller.
func (it *WatchController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "watch",
		Short: "Poll for updates until interrupted",
		Long: `Drive the update poller with a ticker at poll.tick_rate. Every
poll.interval_ticks ticks all components are checked again, and each
newly available version is reported exactly once.

Polling is disabled when dev_mode is set.`,
	}
}

// Execute runs the watch loop until SIGINT or SIGTERM.
func (it *WatchController) Execute(cmd *cobra.Command, _ []string) {
	settings, err := loadSettings(cmd)
	if err != nil {
		logger.Error(err)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	if runErr := it.command.Execute(ctx, settings, commands.WatchOptions{
		OnNotice: func(notice entities.UpdateNotice) {
			_, _ = fmt.Fprintf(out, "%s: %s is available (%s)\n",
				notice.DisplayName, notice.LatestVersion, notice.ReleaseURL)
		},
	}); runErr != nil {
		logger.Errorf("Watch failed: %v", runErr)
	}
}
