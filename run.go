package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"rigrouter/config"
	"rigrouter/debug"
	"rigrouter/forte"
	"rigrouter/midi"
	"rigrouter/platform"
	"rigrouter/router"
	"rigrouter/theme"
	"rigrouter/tui"
)

// loadConfig reads the config file and applies the flags that were set
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if flags.config != "" {
		cfg, err = config.LoadFrom(flags.config)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}
	if changed("sets") {
		cfg.SetDir = flags.setDir
	}
	if changed("running") {
		cfg.RunningFile = flags.running
	}
	if changed("input") {
		cfg.Ports.Input = flags.input
	}
	if changed("surface") {
		cfg.Ports.Surface = flags.surface
	}
	if changed("pass-through") {
		cfg.Ports.PassThrough = flags.passThrough
	}
	if changed("skip-racks") {
		cfg.Racks.SkipPattern = flags.skipPattern
	}
	if changed("palette") {
		cfg.Palette = flags.palette
	}
	if changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}
	if changed("filter-volume") {
		cfg.FilterVolumeCC = flags.filterVolume
	}
	if changed("dry-run") {
		cfg.DryRunShutdown = flags.dryRun
	}
	if changed("debug") {
		cfg.Debug = flags.debug
	}
	return cfg, nil
}

func newLogger(w io.Writer, level string) *log.Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix:          "rigrouter",
		Level:           lvl,
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	})
}

func runRouter(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// The monitor owns the terminal, so console logging goes to a file
	logOut := io.Writer(os.Stderr)
	if flags.tui {
		dir, err := config.ConfigDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
		f, err := tea.LogToFile(filepath.Join(dir, "rigrouter.log"), "rigrouter")
		if err != nil {
			return err
		}
		defer f.Close()
		logOut = f
	}
	logger := newLogger(logOut, cfg.LogLevel)

	if cfg.Debug {
		if err := debug.Enable(); err != nil {
			logger.Warn("debug log unavailable", "err", err)
		}
		defer debug.Disable()
	}

	transport, err := midi.NewTransport()
	if err != nil {
		return err
	}
	defer transport.Close()

	in, loopback, err := transport.FindIn(cfg.Ports.Input, cfg.Ports.Loopback)
	if err != nil {
		return err
	}
	logger.Info("input", "port", in.String(), "loopback", loopback)

	opts := router.Options{
		FilterVolumeCC: cfg.FilterVolumeCC,
		Logger:         logger,
	}

	var keylab *midi.KeyLab
	if out, err := transport.FindOut(cfg.Ports.Surface); err != nil {
		logger.Warn("no controller display", "pattern", cfg.Ports.Surface)
	} else if keylab, err = midi.NewKeyLab(out); err != nil {
		logger.Warn("open controller display", "port", out.String(), "err", err)
		keylab = nil
	} else {
		opts.Surface = keylab
		logger.Info("display", "port", keylab.Name())
	}

	if cfg.Ports.PassThrough != "" && !loopback {
		through, err := transport.OpenOut(cfg.Ports.PassThrough)
		if err != nil {
			logger.Warn("pass-through output unavailable, routing to racks", "pattern", cfg.Ports.PassThrough, "err", err)
		} else {
			opts.PassThrough = through
			logger.Info("pass-through", "port", through.Name())
		}
	}

	if opts.PassThrough == nil {
		opts.OpenRack = func(rackName string) (router.Output, error) {
			name := cfg.RackOutName(rackName)
			if name == "" {
				return nil, nil
			}
			port, err := transport.OpenVirtualOut(name)
			if err != nil {
				return nil, err
			}
			return port, nil
		}
	}

	sets, err := router.Catalogue(cfg.SetDir, forte.Load, logger)
	if err != nil {
		return err
	}
	logger.Info("catalogue", "dir", cfg.SetDir, "sets", len(sets))

	opts.Platform = platform.New(cfg.DryRunShutdown, logger)
	engine := router.NewEngine(sets, opts)
	defer engine.Close()

	stop, err := midi.Listen(in, engine.Process)
	if err != nil {
		return err
	}
	defer stop()

	if keylab != nil {
		if err := keylab.Setup(); err != nil {
			logger.Warn("controller setup", "err", err)
		}
	}
	engine.Start(cfg.RunningFile)

	if flags.tui {
		th := theme.New(theme.LoadOrDefault(cfg.Palette))
		p := tea.NewProgram(tui.NewModel(engine, th), tea.WithAltScreen())
		_, err := p.Run()
		return err
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	logger.Info("routing", "stop", "ctrl+c")
	<-sig
	logger.Info("stopping")
	return nil
}

func listSets(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, cfg.LogLevel)

	sets, err := router.Catalogue(cfg.SetDir, forte.Load, logger)
	if err != nil {
		return err
	}
	for i, s := range sets {
		marker := " "
		if s.SetListIndex == s.DefaultSetListIndex {
			marker = "*"
		}
		fmt.Printf("%3d %s %-24s %s\n", i, marker, s.ShortName, s.SetListName)
	}
	return nil
}

func listPorts(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	transport, err := midi.NewTransport()
	if err != nil {
		return err
	}
	defer transport.Close()

	ports, err := transport.Describe(midi.Patterns{
		Input:       cfg.Ports.Input,
		Loopback:    cfg.Ports.Loopback,
		Surface:     cfg.Ports.Surface,
		PassThrough: cfg.Ports.PassThrough,
	})
	if err != nil {
		return err
	}
	for _, p := range ports {
		dir := "in "
		if p.Output {
			dir = "out"
		}
		fmt.Printf("%s %-40s %s\n", dir, p.Name, p.Role)
	}
	return nil
}
