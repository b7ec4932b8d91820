// Command bt tracks personal expenses in several currencies.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/ChrisSch-dev/budget-tracking-app/cmd"
	"github.com/ChrisSch-dev/budget-tracking-app/logger"
	"github.com/google/subcommands"
)

func main() {
	if err := cmd.LoadEnv(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(2)
	}

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	cmd.Complete("bt")
	flag.Parse()

	if err := cmd.Setup(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(2)
	}
	code := run(commander)
	logger.Sync()
	os.Exit(code)
}

// run executes the subcommand, or the bt-<subcommand> extension if there is
// no such subcommand.
func run(commander *subcommands.Commander) int {
	if name := flag.Arg(0); name != "" && !known(name) {
		if found, code := cmd.RunExtension(name, flag.Args()[1:]); found {
			return code
		}
	}
	return int(commander.Execute(context.Background()))
}

func known(name string) bool {
	switch name {
	case "help", "flags", "commands":
		return true
	}
	for _, c := range cmd.Commands {
		if c.Name() == name {
			return true
		}
	}
	return false
}
