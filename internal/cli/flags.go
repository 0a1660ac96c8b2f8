package cli

import (
	"flag"
	"fmt"
	"io"

	"extrack/internal/config"
)

// ApplyFlags overrides cfg with command-line flags. Flags left unset keep
// the value loaded from the environment. A single positional argument is
// the input.
func ApplyFlags(cfg *config.Config, args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("extrack", flag.ContinueOnError)
	if stderr != nil {
		fs.SetOutput(stderr)
	}
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: extrack [options] <input>")
		fmt.Fprintln(fs.Output(), "\nInput is an .xlsx workbook, a .csv file or sheets:<spreadsheet-id>.")
		fmt.Fprintln(fs.Output(), "\nOptions:")
		fs.PrintDefaults()
	}

	fs.StringVar(&cfg.Output, "o", cfg.Output, "output destination (shorthand)")
	fs.StringVar(&cfg.Output, "output", cfg.Output, "output destination: file path, sqlite:<path>, amqp://... or - for stdout")
	fs.StringVar(&cfg.TimeRange, "t", cfg.TimeRange, "time range (shorthand)")
	fs.StringVar(&cfg.TimeRange, "timerange", cfg.TimeRange, "time range: Year, Month or Week")
	fs.StringVar(&cfg.Source, "source", cfg.Source, "source type: auto, xlsx, csv or sheets")
	fs.StringVar(&cfg.Sink, "sink", cfg.Sink, "sink type: auto, csv, sqlite or amqp")
	fs.StringVar(&cfg.SheetName, "sheet", cfg.SheetName, "workbook sheet name (default first sheet)")
	fs.IntVar(&cfg.ParseWorkers, "workers", cfg.ParseWorkers, "row parsing workers")

	if err := fs.Parse(args); err != nil {
		return err
	}

	switch fs.NArg() {
	case 0:
	case 1:
		cfg.Input = fs.Arg(0)
	default:
		return fmt.Errorf("expected one input, got %d: %v", fs.NArg(), fs.Args())
	}
	return nil
}
