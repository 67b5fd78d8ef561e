package main

import (
	"github.com/spf13/cobra"

	"github.com/itchan-dev/scoula/shared/config"
	"github.com/itchan-dev/scoula/shared/logger"
)

// app carries what every subcommand needs once the config is loaded.
type app struct {
	configFolder string
	cfg          *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:          "scoula",
		Short:        "Scoula is a small bulletin board with attachments and a todo list",
		SilenceUsage: true,
	}

	cmd.Version = version
	cmd.PersistentFlags().StringVar(&a.configFolder, "config_folder", "config", "path to folder with configs")

	cmd.AddCommand(
		newServeCmd(a),
		newMigrateCmd(a),
	)

	return cmd
}

// load reads the config folder and configures the global logger.
// It panics on a missing or invalid config, like config.MustLoad.
func (a *app) load() *config.Config {
	if a.cfg == nil {
		a.cfg = config.MustLoad(a.configFolder)
		logger.Initialize(a.cfg.Public.LogLevel, a.cfg.Public.LogJSON)
		logger.SlowCallThreshold = a.cfg.Public.SlowRequestThreshold
	}
	return a.cfg
}
