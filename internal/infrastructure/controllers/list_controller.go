package controllers

import (
	"fmt"
	"text/tabwriter"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/qtech/forgeupdates/internal/domain/commands"
	"github.com/qtech/forgeupdates/internal/domain/entities"
)

// ListController handles the "list" subcommand.
type ListController struct {
	command commands.List
}

// NewListController creates a new ListController.
func NewListController(command commands.List) *ListController {
	return &ListController{command: command}
}

// GetBind returns the Cobra command metadata for the list controller.
func (it *ListController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "list",
		Short: "List the configured components",
		Long:  `Print every configured component with its running version, version scheme and release channel.`,
	}
}

// Execute prints the configured components.
func (it *ListController) Execute(cmd *cobra.Command, _ []string) {
	settings, err := loadSettings(cmd)
	if err != nil {
		logger.Error(err)
		return
	}

	updaters, err := it.command.Execute(settings)
	if err != nil {
		logger.Errorf("List failed: %v", err)
		return
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tVERSION\tSCHEME\tCHANNEL")
	for _, u := range updaters {
		component := u.Component()
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			component.ID, component.Name(), u.CurrentVersion(), component.Scheme, component.Channel())
	}
	_ = w.Flush()
}
