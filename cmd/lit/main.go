package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gubarz/lit/internal/config"
	"github.com/gubarz/lit/internal/mapfile"
	"github.com/gubarz/lit/internal/markup"
	"github.com/gubarz/lit/internal/ui"
)

var version = "0.2.0"

var logger = newLogger(os.Stderr)

// usageError marks failures that are reported together with the usage banner
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usageErrorf(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

func newLogger(w io.Writer) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix: "lit",
		Level:  log.WarnLevel,
	})
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	if err := config.Init(); err != nil {
		logger.Warn("error loading config", "err", err)
	}
}

func newRootCmd() *cobra.Command {
	defaults := markup.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "lit [OPTIONS] [--] <INPUT-FILE>",
		Short: "Convert literate markup into a program",
		Long: `Converts a markup document with embedded code blocks into a program.

Prose lines become line comments of the target language, lines between
the begin and end markers are copied unchanged.`,
		Args:          inputArgs,
		RunE:          runLit,
		SilenceErrors: true,
		SilenceUsage:  true,
		Version:       version,
	}

	flags := cmd.Flags()
	flags.SortFlags = false
	flags.Bool("help", false, "Print this help to stdout and exit with 0")
	flags.String("input", "", "Path to the input file")
	flags.String("begin", defaults.Begin, "Line that denotes the beginning of the code block in the markup language")
	flags.String("end", defaults.End, "Line that denotes the end of the code block in the markup language")
	flags.String("comment", defaults.Comment, "The inline comment of the programming language")
	flags.String("o", "", "Output file path. If not provided, output to stdout")
	flags.String("mode", string(markup.MarkupToProgram), "Conversion mode. m2p -- markup to program. p2m -- program to markup")
	flags.Bool("preview", false, "Show the converted program in an interactive pager instead of writing it")
	flags.BoolP("verbose", "v", false, "Log progress to stderr")
	flags.Bool("version", false, "Print the version and exit with 0")

	for _, key := range []string{"begin", "end", "comment", "mode"} {
		viper.BindPFlag(key, flags.Lookup(key))
	}

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return &usageError{err: classifyFlagError(err)}
	})
	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		printUsage(c.OutOrStdout(), c.Flags())
	})

	return cmd
}

// inputArgs accepts exactly one input, given either as -input or positionally
func inputArgs(cmd *cobra.Command, args []string) error {
	n := len(args)
	if input, _ := cmd.Flags().GetString("input"); input != "" {
		n++
	}

	switch {
	case n == 0:
		return usageErrorf("no input file was provided")
	case n > 1:
		return usageErrorf("only one input file is supported right now")
	}
	return nil
}

func runLit(cmd *cobra.Command, args []string) error {
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logger.SetLevel(log.DebugLevel)
	}

	path, _ := cmd.Flags().GetString("input")
	if len(args) > 0 {
		path = args[0]
	}

	dir, err := markup.ParseDirection(config.GetMode())
	if err != nil {
		return &usageError{err: err}
	}

	opts := config.MarkupOptions()
	if dir == markup.ProgramToMarkup {
		// Aborts before the input is mapped or the output is created
		markup.WriteMarkup(cmd.OutOrStdout(), nil, opts)
	}
	if file := config.ConfigFile(); file != "" {
		logger.Debug("using config", "file", file)
	}
	logger.Debug("options", "begin", opts.Begin, "end", opts.End, "comment", opts.Comment, "mode", dir)

	mf, err := mapfile.Open(path)
	if err != nil {
		return fmt.Errorf("could not read file %s: %s", path, reason(err))
	}
	defer mf.Close()
	logger.Debug("mapped input", "path", path, "bytes", mf.Len())

	if preview, _ := cmd.Flags().GetBool("preview"); preview {
		return ui.Preview(path, mf.Bytes(), opts)
	}

	output, _ := cmd.Flags().GetString("o")
	return writeOutput(cmd.OutOrStdout(), output, func(w io.Writer) (markup.Stats, error) {
		return dir.Write(w, mf.Bytes(), opts)
	})
}

// writeOutput runs write against stdout, or against the file at path when
// one is given, and flushes and closes on every path
func writeOutput(stdout io.Writer, path string, write func(io.Writer) (markup.Stats, error)) (err error) {
	dst := stdout
	if path != "" {
		f, cerr := os.Create(path)
		if cerr != nil {
			return fmt.Errorf("could not open file %s: %s", path, reason(cerr))
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("could not write output: %s", reason(cerr))
			}
		}()
		dst = f
	}

	bw := bufio.NewWriter(dst)
	stats, err := write(bw)
	if err == nil {
		err = bw.Flush()
	}
	if err != nil {
		return fmt.Errorf("could not write output: %s", reason(err))
	}

	logger.Debug("converted", "lines", stats.Lines, "prose", stats.Prose, "code", stats.Code)
	if stats.Unterminated {
		logger.Debug("input ended inside a code block")
	}
	return nil
}

// reason returns the system error text without the operation and path
func reason(err error) string {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err.Error()
	}
	return err.Error()
}

// run executes the command line and returns the process exit status
func run(args []string, stdout, stderr io.Writer) int {
	logger = newLogger(stderr)

	cmd := newRootCmd()
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(normalizeArgs(cmd.Flags(), args))

	err := cmd.Execute()
	if err == nil {
		return 0
	}

	var uerr *usageError
	if errors.As(err, &uerr) {
		printUsage(stderr, cmd.Flags())
	}
	fmt.Fprintf(stderr, "ERROR: %s\n", err)
	return 1
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
