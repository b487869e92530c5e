// Package platform isolates the operating system services the router needs:
// powering the machine off, naming the host, and finding performance files.
package platform

import (
	"net"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/charmbracelet/log"
)

// Services is the default implementation used by the engine
type Services struct {
	// DryRun logs the shutdown instead of running it
	DryRun bool
	Logger *log.Logger
}

// New returns platform services logging to logger
func New(dryRun bool, logger *log.Logger) *Services {
	if logger == nil {
		logger = log.Default()
	}
	return &Services{DryRun: dryRun, Logger: logger}
}

// Shutdown powers the machine off
func (s *Services) Shutdown() error {
	name, args := shutdownCommand()
	if s.DryRun {
		s.Logger.Warn("shutdown requested (dry run)", "cmd", name, "args", strings.Join(args, " "))
		return nil
	}
	s.Logger.Warn("shutting down", "cmd", name)
	if err := startCommand(name, args...); err != nil {
		return fault.Wrap(err, fmsg.With("run shutdown command"))
	}
	return nil
}

// HostIdentity returns the host name and first non-loopback IPv4 address
func (s *Services) HostIdentity() (host, ip string) {
	host, _ = os.Hostname()
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return host, ""
	}
	for _, a := range addrs {
		ipnet, ok := a.(*net.IPNet)
		if !ok || ipnet.IP.IsLoopback() {
			continue
		}
		if v4 := ipnet.IP.To4(); v4 != nil {
			return host, v4.String()
		}
	}
	return host, ""
}

// ListSetFiles returns the performance files in dir with one of the given
// extensions, sorted by name. Backup files ("_bk") are skipped.
func ListSetFiles(dir string, extensions []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fault.Wrap(err, fmsg.With("list set directory"))
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.Contains(name, "_bk") {
			continue
		}
		ext := strings.ToLower(filepath.Ext(name))
		for _, want := range extensions {
			if ext == want {
				files = append(files, filepath.Join(dir, name))
				break
			}
		}
	}
	sort.Strings(files)
	return files, nil
}
