//go:build windows

package platform

import "os/exec"

func shutdownCommand() (string, []string) {
	return "shutdown", []string{"/t", "0", "/s"}
}

func startCommand(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}
