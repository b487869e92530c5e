//go:build !windows

package platform

import "os/exec"

func shutdownCommand() (string, []string) {
	return "shutdown", []string{"-h", "now"}
}

func startCommand(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}
