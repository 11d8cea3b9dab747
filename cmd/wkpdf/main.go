package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	verbose := slices.ContainsFunc(os.Args[1:], func(a string) bool {
		return a == "-v" || a == "--verbose"
	})

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if verbose {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...any) {}))
	}

	os.Exit(run(os.Args, DefaultEnv()))
}

// run dispatches args to a command and returns the exit code.
// Arguments that are not a command name are treated as convert inputs.
func run(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	cmd, rest := args[1], args[2:]
	switch cmd {
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "wkpdf %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		return runHelp(rest, env)
	case "doctor":
		return runDoctorCmd(ctx, rest, env)
	case "completion":
		return exitWith(runCompletion(rest, env), env)
	case "convert":
		return exitWith(runConvert(ctx, rest, env), env)
	default:
		return exitWith(runConvert(ctx, args[1:], env), env)
	}
}

// exitWith prints err and maps it to an exit code.
func exitWith(err error, env *Environment) int {
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}

	var be *batchError
	if errors.As(err, &be) {
		fmt.Fprintln(env.Stderr, err) // failures already printed with hints
	} else {
		fmt.Fprintln(env.Stderr, "error:", describeError(err))
	}
	return exitCodeFor(err)
}
