package instance

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-ps"
)

// ErrAlreadyRunning is returned when another process with the same executable name exists.
var ErrAlreadyRunning = errors.New("another instance is already running")

// lister returns the running processes.
type lister func() ([]ps.Process, error)

// EnsureSingle fails with ErrAlreadyRunning when a process other than the
// current one runs an executable named name.
func EnsureSingle(name string) error {
	return ensureSingle(ps.Processes, os.Getpid(), name)
}

// CurrentExecutable returns the executable name of the running process.
func CurrentExecutable() string {
	path, err := os.Executable()
	if err != nil {
		return filepath.Base(os.Args[0])
	}

	return filepath.Base(path)
}

func ensureSingle(list lister, thisProcessID int, name string) error {
	processList, err := list()
	if err != nil {
		return fmt.Errorf("list processes: %w", err)
	}

	for _, process := range processList {
		if process.Pid() == thisProcessID {
			continue
		}

		if process.Executable() != name {
			continue
		}

		return fmt.Errorf("%s (pid %d): %w", name, process.Pid(), ErrAlreadyRunning)
	}

	return nil
}
