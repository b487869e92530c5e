package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	Version = "dev"

	// Command-line overrides for the config file
	flags struct {
		config       string
		setDir       string
		running      string
		input        string
		surface      string
		passThrough  string
		skipPattern  string
		palette      string
		logLevel     string
		filterVolume bool
		dryRun       bool
		debug        bool
		tui          bool
		force        bool
	}
)

var rootCmd = &cobra.Command{
	Use:   "rigrouter",
	Short: "Live MIDI router for a KeyLab controller",
	Long: `rigrouter takes the notes and controllers of one keyboard and routes
them to the instrument racks of the current song in a performance set.

Songs and set lists are browsed from the controller's encoders and buttons,
and the controller display shows what is playing.`,
	Version:      Version,
	SilenceUsage: true,
	RunE:         runRouter,
}

var setsCmd = &cobra.Command{
	Use:   "sets",
	Short: "List the set lists found in the set directory",
	RunE:  listSets,
}

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List MIDI ports and the role rigrouter gives them",
	RunE:  listPorts,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config file",
	Args:  cobra.NoArgs,
	RunE:  initConfig,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.config, "config", "c", "",
		"Config file (default ~/.config/rigrouter/config.json)")
	pf.StringVarP(&flags.setDir, "sets", "s", "",
		"Directory holding performance files")
	pf.StringVar(&flags.logLevel, "log-level", "",
		"Console log level (debug, info, warn, error)")

	f := rootCmd.Flags()
	f.StringVarP(&flags.running, "running", "r", "",
		"Performance file already running in the host; its default set list is loaded at start")
	f.StringVar(&flags.input, "input", "",
		"Preferred controller input (substring of the port name)")
	f.StringVar(&flags.surface, "surface", "",
		"Controller display output (substring of the port name)")
	f.StringVar(&flags.passThrough, "pass-through", "",
		"Forward everything to this output instead of routing to racks")
	f.StringVar(&flags.skipPattern, "skip-racks", "",
		"Racks whose name contains this get no virtual output")
	f.StringVar(&flags.palette, "palette", "",
		"GIMP palette for the monitor")
	f.BoolVar(&flags.filterVolume, "filter-volume", false,
		"Swallow CC 7 from the controller")
	f.BoolVar(&flags.dryRun, "dry-run", false,
		"Log the shutdown instead of powering off")
	f.BoolVarP(&flags.debug, "debug", "d", false,
		"Write the category log to ~/.config/rigrouter/debug.log")
	f.BoolVarP(&flags.tui, "tui", "t", false,
		"Show the status monitor")

	configInitCmd.Flags().BoolVarP(&flags.force, "force", "f", false,
		"Overwrite an existing config file")
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(setsCmd, portsCmd, configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
