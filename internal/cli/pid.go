package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/haskel/monix/internal/config"
)

var pidFile string

func writePIDFile(path string) error {
	return os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0644)
}

// resolvePIDFile returns the --pid-file flag, falling back to config.
func resolvePIDFile() (string, error) {
	path := pidFile
	if path == "" {
		path = config.LoadOrDefault(cfgFile).Server.PIDFile
	}
	if path == "" {
		return "", fmt.Errorf("no PID file specified (use --pid-file or configure in config)")
	}
	return path, nil
}

func readPIDFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fmt.Errorf("PID file not found: %s (server may not be running)", path)
		}
		return 0, fmt.Errorf("failed to read PID file: %w", err)
	}

	pidStr := strings.TrimSpace(string(data))
	pid, err := strconv.Atoi(pidStr)
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid PID in file: %s", pidStr)
	}
	return pid, nil
}

// signalServer sends sig to the process named in the PID file.
func signalServer(sig syscall.Signal) (int, error) {
	path, err := resolvePIDFile()
	if err != nil {
		return 0, err
	}

	pid, err := readPIDFile(path)
	if err != nil {
		return 0, err
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return 0, fmt.Errorf("process not found: %d", pid)
	}

	if err := process.Signal(sig); err != nil {
		return 0, fmt.Errorf("failed to send signal: %w", err)
	}
	return pid, nil
}
