package controllers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path"
	"syscall"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/qtech/forgeupdates/internal/domain/commands"
	"github.com/qtech/forgeupdates/internal/domain/entities"
)

const (
	renderInterval      = 100 * time.Millisecond
	progressLogInterval = 2 * time.Second
)

// DownloadController handles the "download" subcommand.
type DownloadController struct {
	command commands.Fetch
}

// NewDownloadController creates a new DownloadController.
func NewDownloadController(command commands.Fetch) *DownloadController {
	return &DownloadController{command: command}
}

// GetBind returns the Cobra command metadata for the download controller.
func (it *DownloadController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "download <component-id>",
		Short: "Download the latest release of a component",
		Long: `Check the component for updates and download its latest release followed
by every transitive dependency into the destination folder.

The download runs in the background while a progress bar is rendered.
Press Ctrl+C to cancel; the partially written file is removed.`,
	}
}

// Execute checks and downloads one component.
func (it *DownloadController) Execute(cmd *cobra.Command, args []string) {
	if len(args) != 1 {
		logger.Error("download expects exactly one component ID")
		return
	}

	settings, err := loadSettings(cmd)
	if err != nil {
		logger.Error(err)
		return
	}

	destination, _ := cmd.Flags().GetString("dest")
	force, _ := cmd.Flags().GetBool("force")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sometimes := rate.Sometimes{Interval: progressLogInterval}
	task, err := it.command.Execute(ctx, settings, commands.FetchOptions{
		ComponentID: args[0],
		Destination: destination,
		Force:       force,
		OnProgress: func(p entities.Progress) {
			sometimes.Do(func() {
				logger.Debugf("%s: %d/%d bytes", p.File, p.Downloaded, p.Total)
			})
		},
	})
	if err != nil {
		if errors.Is(err, entities.ErrUpToDate) {
			logger.Info(err)
			return
		}
		logger.Errorf("Download failed: %v", err)
		return
	}

	result := waitWithProgress(cmd.OutOrStdout(), task)
	if result.Failed() {
		logger.Errorf("Download %s failed: %v", task.ID, result.Err)
		return
	}

	for _, file := range result.Files {
		logger.Infof("Saved %s", file)
	}
}

// AddFlags adds the download-specific flags to the given Cobra command.
func (it *DownloadController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("dest", "", "Destination folder (default: download.destination from the config)")
	cmd.Flags().Bool("force", false, "Download even when the component is up to date")
}

// waitWithProgress renders the task's progress until it finishes.
func waitWithProgress(out io.Writer, task *commands.DownloadTask) entities.DownloadResult {
	bar := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(40),
	)

	ticker := time.NewTicker(renderInterval)
	defer ticker.Stop()

	for {
		select {
		case <-task.Done():
			renderProgress(out, bar, task.Progress())
			_, _ = fmt.Fprintln(out)
			return task.Wait()
		case <-ticker.C:
			renderProgress(out, bar, task.Progress())
		}
	}
}

func renderProgress(out io.Writer, bar progress.Model, p entities.Progress) {
	if p.File == "" {
		return
	}
	name := path.Base(p.File)
	counter := fmt.Sprintf("[%d/%d]", min(p.FilesDone+1, p.FilesTotal), p.FilesTotal)

	if percent, ok := p.Percent(); ok {
		_, _ = fmt.Fprintf(out, "\r%s %s %s", counter, bar.ViewAs(percent/100), name)
		return
	}
	_, _ = fmt.Fprintf(out, "\r%s %d bytes %s", counter, p.Downloaded, name)
}
