// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/retroenv/retrocheat/internal/cic"
	"github.com/retroenv/retrocheat/internal/container"
	"github.com/retroenv/retrocheat/internal/detector"
	"github.com/retroenv/retrocheat/internal/options"
)

// ParseFlags parses command line flags and returns the program options
func ParseFlags() (options.Program, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	var opts options.Program
	readOptionFlags(flags, &opts)
	readPreferenceFlags(flags, &opts.PreferenceFlags)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || (len(args) == 0 && opts.Batch == "" && opts.Input == "") {
		return opts, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, err
	}

	if err := normalizeOptions(&opts); err != nil {
		return opts, err
	}

	if opts.Batch == "" && len(args) > 0 {
		opts.Input = args[0]
	}

	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: retrocheat [options] <ROM file>\n\n")
	if e.flags != nil {
		e.flags.PrintDefaults()
	}
	fmt.Printf("\nsupported firmware layouts: %s\n", strings.Join(container.Layouts(), ", "))
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg != "" && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after ROM file, please pass the ROM file as last argument", arg),
			}
		}
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	opts.Operation = strings.ToLower(opts.Operation)
	if !slices.Contains(options.Operations, opts.Operation) {
		return fmt.Errorf("unsupported operation: %s. Valid options: %s",
			opts.Operation, strings.Join(options.Operations, ", "))
	}

	if opts.Format != "" {
		format, err := detector.ParseFormat(opts.Format)
		if err != nil {
			return err
		}
		opts.Format = string(format)
	}

	if opts.AddKeyCode != "" {
		if _, err := cic.ParseIdentity(opts.KeyCodeCIC); err != nil {
			return err
		}
	}

	if opts.HasEdits() && opts.Operation != options.Encode {
		return fmt.Errorf("preference edits require the %s operation", options.Encode)
	}
	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Input, "i", "", "name of the input ROM file")
	flags.StringVar(&opts.Output, "o", "", "name of the output ROM file, derived from the input and operation if not given")
	flags.StringVar(&opts.Batch, "batch", "", "process a batch of given path and file mask and automatically output file naming, for example *.bin")
	flags.StringVar(&opts.Extract, "x", "", "directory to extract the embedded firmware files to")
	flags.StringVar(&opts.List, "l", "", "name of a text file to write the cheat list to")
	flags.StringVar(&opts.Operation, "op", options.Decode, "operation to perform ("+strings.Join(options.Operations, "/")+")")
	flags.StringVar(&opts.Format, "f", "", "force the input format instead of detecting it")
	flags.BoolVar(&opts.StrictKeys, "strict", false, "fail on key codes that do not match the firmware")
	flags.BoolVar(&opts.Verify, "verify", false, "verify the output by parsing it again and comparing the result")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}

func readPreferenceFlags(flags *flag.FlagSet, prefs *options.PreferenceFlags) {
	flags.IntVar(&prefs.Sound, "sound", options.Unset, "menu sound setting (0-255)")
	flags.IntVar(&prefs.BackgroundPattern, "bgpattern", options.Unset, "menu background pattern (0-255)")
	flags.IntVar(&prefs.BackgroundColor, "bgcolor", options.Unset, "menu background color (0-255)")
	flags.IntVar(&prefs.MenuScroll, "menuscroll", options.Unset, "menu scroll setting (0-255)")
	flags.IntVar(&prefs.KeyCodeScroll, "keyscroll", options.Unset, "key code list scroll setting (0-255)")
	flags.IntVar(&prefs.SelectGame, "game", options.Unset, "index of the game to select")
	flags.IntVar(&prefs.ActiveKeyCode, "key", options.Unset, "index of the key code to activate")
	flags.StringVar(&prefs.AddKeyCode, "addkey", "", "name of a key code to add, computed from the firmware")
	flags.StringVar(&prefs.KeyCodeCIC, "cic", "6102", "boot chip of the added key code (6101/6102/6103/6105/6106)")
}
