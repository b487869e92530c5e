package main

import (
	"fmt"
	"os"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/spf13/cobra"

	"rigrouter/config"
)

// initConfig writes the defaults to --config, or to the standard location
func initConfig(cmd *cobra.Command, args []string) error {
	path := flags.config
	if path == "" {
		p, err := config.ConfigPath()
		if err != nil {
			return err
		}
		path = p
	}

	if _, err := os.Stat(path); err == nil && !flags.force {
		return fault.New("config exists",
			fmsg.WithDesc("refusing to overwrite "+path, "Pass --force to replace "+path))
	}

	cfg := config.DefaultConfig()
	var err error
	if flags.config == "" {
		err = cfg.Save()
	} else {
		err = cfg.SaveTo(path)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "wrote", path)
	return nil
}
