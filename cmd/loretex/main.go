package main

import (
	"fmt"
	"os"

	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	flags, _, err := parseConvertFlags(argsAfterCommand(os.Args))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitUsage)
	}

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues.
	if flags.common.verbose {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	if err := run(os.Args, DefaultDeps()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

// argsAfterCommand strips the program name and, when present, the
// subcommand, so flag parsing in main sees only flags.
func argsAfterCommand(args []string) []string {
	if len(args) <= 1 {
		return nil
	}
	rest := args[1:]
	switch rest[0] {
	case "convert", "version", "help", "--version":
		return rest[1:]
	}
	return rest
}

// run dispatches to the requested command. The default command is convert.
func run(args []string, deps *Dependencies) error {
	command := "convert"
	commandArgs := args[1:]
	if len(commandArgs) > 0 {
		switch commandArgs[0] {
		case "convert", "version", "help":
			command = commandArgs[0]
			commandArgs = commandArgs[1:]
		case "--version":
			command = "version"
			commandArgs = commandArgs[1:]
		}
	}

	switch command {
	case "version":
		fmt.Fprintf(deps.Stdout, "loretex %s\n", Version)
		return nil
	case "help":
		runHelp(commandArgs, deps)
		return nil
	default:
		return runConvert(commandArgs, deps)
	}
}
