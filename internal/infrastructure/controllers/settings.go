package controllers

import (
	"fmt"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/qtech/forgeupdates/internal/domain/entities"
)

// loadSettings reads the file given with --config, or the first one found in
// the default locations.
func loadSettings(cmd *cobra.Command) (*entities.Settings, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	if cfgPath == "" {
		var err error
		cfgPath, err = entities.FindConfigFile()
		if err != nil {
			return nil, fmt.Errorf(
				"no config file found: %w\nSpecify one with --config or create forgeupdates.yaml",
				err,
			)
		}
	}

	logger.Debugf("Using config file: %s", cfgPath)

	settings, err := entities.NewSettings(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return settings, nil
}
