// Command rackfx renders test signals through the Warp and ChowRNN modules
// and manages ChowRNN weight files.
//
// Usage:
//
//	rackfx [-v] <command> [flags]
//
// Commands:
//
//	render     run a sine through a module and print level and alias stats
//	randomise  write a freshly randomised ChowRNN weight file
//	inspect    summarise a ChowRNN weight file
//	modes      list Warp saturation modes
//
// Examples:
//
//	rackfx render -module warp -mode fold -drive 18 -os 4
//	rackfx randomise -seed 42 -o weights.json
//	rackfx render -module chowrnn -weights weights.json -inputs 2
//	rackfx inspect weights.json
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var errUsage = errors.New("usage")

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}

		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	global := flag.NewFlagSet("rackfx", flag.ContinueOnError)
	global.SetOutput(stderr)
	verbose := global.Bool("v", false, "enable debug logging")
	global.Usage = func() { usage(stderr, global) }

	if err := global.Parse(args); err != nil {
		return errUsage
	}

	logger := newLogger(stderr, *verbose)

	rest := global.Args()
	if len(rest) == 0 {
		global.Usage()
		return errUsage
	}

	cmd, cmdArgs := rest[0], rest[1:]
	logger.WithField("command", cmd).Debug("rackfx start")

	switch cmd {
	case "render":
		return runRender(cmdArgs, stdout, stderr, logger)
	case "randomise", "randomize":
		return runRandomise(cmdArgs, stdout, stderr, logger)
	case "inspect":
		return runInspect(cmdArgs, stdout, stderr, logger)
	case "modes":
		printModes(stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", cmd)
		global.Usage()

		return errUsage
	}
}

func newLogger(w io.Writer, verbose bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.WarnLevel)
	}

	return logger
}

func usage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintf(w, "Usage: rackfx [-v] <command> [flags]\n\n")
	fmt.Fprintf(w, "Commands:\n")
	fmt.Fprintf(w, "  render     run a sine through a module and print level and alias stats\n")
	fmt.Fprintf(w, "  randomise  write a freshly randomised ChowRNN weight file\n")
	fmt.Fprintf(w, "  inspect    summarise a ChowRNN weight file\n")
	fmt.Fprintf(w, "  modes      list Warp saturation modes\n\n")
	fmt.Fprintf(w, "Flags:\n")
	fs.PrintDefaults()
}
