package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/ChrisSch-dev/budget-tracking-app/logger"
	"go.uber.org/zap"
)

// RunExtension attempts to find and execute an external bt-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found or executed.
//
// The resolved global configuration is passed to the extension as BT_*
// environment variables.
func RunExtension(subcommand string, args []string) (bool, int) {
	externalCmdName := "bt-" + subcommand

	lp, err := exec.LookPath(externalCmdName)
	if err != nil {
		logger.Named("cmd").Debug("external command not found", zap.String("name", externalCmdName), zap.Error(err))
		return false, 0
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return true, 2
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.Env = append(os.Environ(), cfg.env()...)

	if err := cmd.Run(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return true, exitError.ExitCode()
		}
		fmt.Fprintf(stderr, "Error executing external command %q: %v\n", externalCmdName, err)
		return true, 1
	}
	return true, 0
}
