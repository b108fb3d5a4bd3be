package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// FlagErrorKind classifies a command line parse failure
type FlagErrorKind int

const (
	FlagUnknown FlagErrorKind = iota
	FlagNoValue
	FlagInvalidNumber
	FlagOverflow
	FlagInvalidValue
)

func (k FlagErrorKind) String() string {
	switch k {
	case FlagNoValue:
		return "no value provided"
	case FlagInvalidNumber:
		return "invalid number"
	case FlagOverflow:
		return "integer overflow"
	case FlagInvalidValue:
		return "invalid value"
	default:
		return "unknown flag"
	}
}

// FlagError is a parse failure attributed to one flag
type FlagError struct {
	Kind FlagErrorKind
	Name string
	Err  error
}

func (e *FlagError) Error() string {
	return fmt.Sprintf("-%s: %s", e.Name, e.Kind)
}

func (e *FlagError) Unwrap() error {
	return e.Err
}

// classifyFlagError maps a pflag parse error to a FlagError.
// Errors it does not recognize are returned unchanged.
func classifyFlagError(err error) error {
	var (
		notExist *pflag.NotExistError
		noValue  *pflag.ValueRequiredError
		invalid  *pflag.InvalidValueError
		syntax   *pflag.InvalidSyntaxError
	)

	fe := &FlagError{Err: err}
	switch {
	case errors.As(err, &notExist):
		fe.Kind = FlagUnknown
		fe.Name = notExist.GetSpecifiedName()
	case errors.As(err, &syntax):
		fe.Kind = FlagUnknown
		fe.Name = strings.TrimLeft(syntax.GetSpecifiedFlag(), "-")
	case errors.As(err, &noValue):
		fe.Kind = FlagNoValue
		fe.Name = noValue.GetSpecifiedName()
	case errors.As(err, &invalid):
		fe.Name = invalid.GetFlag().Name
		switch {
		case !isNumeric(invalid.GetFlag()):
			fe.Kind = FlagInvalidValue
		case errors.Is(err, strconv.ErrRange):
			fe.Kind = FlagOverflow
		default:
			fe.Kind = FlagInvalidNumber
		}
	default:
		return err
	}
	return fe
}

func isNumeric(f *pflag.Flag) bool {
	if f == nil {
		return false
	}
	t := f.Value.Type()
	return strings.HasPrefix(t, "int") || strings.HasPrefix(t, "uint")
}

// normalizeArgs rewrites single dash long flags (-begin x, -o=out) into the
// double dash form pflag expects. Values of flags that take one are left
// untouched, and so is everything after "--".
func normalizeArgs(fs *pflag.FlagSet, args []string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return append(out, args[i:]...)
		}
		if len(arg) < 2 || arg[0] != '-' {
			out = append(out, arg)
			continue
		}

		long := strings.HasPrefix(arg, "--")
		name, _, inline := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		f := fs.Lookup(name)

		switch {
		case long:
			out = append(out, arg)
		case f == nil && len(name) == 1:
			// Registered shorthand, or an unknown one pflag will report
			out = append(out, arg)
			if sf := fs.ShorthandLookup(name); sf != nil && !inline && sf.NoOptDefVal == "" && i+1 < len(args) {
				i++
				out = append(out, args[i])
			}
			continue
		default:
			out = append(out, "-"+arg)
		}

		if f != nil && !inline && f.NoOptDefVal == "" && i+1 < len(args) {
			i++
			out = append(out, args[i])
		}
	}
	return out
}

// printOptions writes one block per flag, in definition order
func printOptions(w io.Writer, fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		if f.Shorthand != "" {
			fmt.Fprintf(w, "    -%s, -%s\n", f.Name, f.Shorthand)
		} else {
			fmt.Fprintf(w, "    -%s\n", f.Name)
		}
		fmt.Fprintf(w, "        %s\n", f.Usage)

		switch {
		case f.Value.Type() == "bool":
			if f.DefValue == "true" {
				fmt.Fprintf(w, "        Default: %s\n", f.DefValue)
			}
		case isNumeric(f):
			fmt.Fprintf(w, "        Default: %s\n", f.DefValue)
		case f.DefValue != "":
			fmt.Fprintf(w, "        Default: %s\n", f.DefValue)
		}
	})
}

// printUsage writes the usage banner followed by the option list
func printUsage(w io.Writer, fs *pflag.FlagSet) {
	fmt.Fprintln(w, "Usage: lit [OPTIONS] [--] <INPUT-FILE>")
	fmt.Fprintln(w, "OPTIONS:")
	printOptions(w, fs)
}
