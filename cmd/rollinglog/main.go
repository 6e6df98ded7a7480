// rollinglog writes lines from stdin to rolling log files.
//
// Usage:
//
//	rollinglog [--config sink.yaml] pipe [--category Name] [--level information] [--tee]
//	rollinglog [--config sink.yaml] check
//
// pipe logs every stdin line as one record until stdin closes or the
// process receives SIGINT/SIGTERM, then drains the queue and exits. The
// config file is watched while piping; changes to its enabled flag take
// effect immediately.
//
// check loads and validates the config and prints the resolved settings.
//
// Exit codes: 0 on success, 1 on any error.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
)

// Version is set with -ldflags "-X main.Version=..."
var Version = "0.1.0-dev"

func main() {
	os.Exit(run(context.Background(), os.Args, os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	if err := newApp(in, out, errOut).Run(ctx, args); err != nil {
		fmt.Fprintln(errOut, "rollinglog:", err)
		return 1
	}
	return 0
}

func newApp(in io.Reader, out, errOut io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "rollinglog",
		Usage:     "write stdin to time-bucketed, size-limited log files",
		Version:   Version,
		Reader:    in,
		Writer:    out,
		ErrWriter: errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML or JSON config file (defaults apply when unset)",
				Sources: cli.EnvVars("ROLLINGLOG_CONFIG"),
			},
		},
		Commands: []*cli.Command{
			pipeCommand(),
			checkCommand(),
		},
		// Errors are printed once by run
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}
}
