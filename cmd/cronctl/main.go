// cronctl schedules, previews, lists and deletes jobs on the remote cron API.
//
// It reads the same CRONJOB_API_* environment as the demo server and prints
// every result as JSON on stdout. Logs go to stderr.
//
//	cronctl schedule -f job.yaml
//	cronctl preview -f job.toml -n 10
//	cronctl list
//	cronctl get 12345
//	cronctl delete 12345 12346
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

// errReported means the command already printed its failure as JSON.
var errReported = errors.New("command failed")

const usage = `Usage: cronctl [--verbose] <command> [args]

Commands:
  schedule -f FILE          validate, encode and submit a schedule request
  preview  -f FILE [-n N]   show the encoded schedule and its next N runs
  list                      list all jobs
  get ID                    show one job
  delete ID [ID...]         delete jobs concurrently

Request files may be .yaml, .yml, .toml or .json.
`

func run(args []string, stdout, stderr io.Writer) error {
	var verbose bool

	flagSet := pflag.NewFlagSet("cronctl", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.SetInterspersed(false)
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log requests and responses to stderr")
	flagSet.Usage = func() { fmt.Fprint(stderr, usage) }

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	rest := flagSet.Args()
	if len(rest) == 0 {
		fmt.Fprint(stderr, usage)
		return errors.New("missing command")
	}

	cmd, ok := commands[rest[0]]
	if !ok {
		fmt.Fprint(stderr, usage)
		return fmt.Errorf("unknown command %q", rest[0])
	}

	a, err := newApp(stdout, stderr, verbose)
	if err != nil {
		return err
	}
	return cmd(a, rest[1:])
}
