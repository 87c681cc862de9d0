// Package cmd implements the b11cc command-line driver: a single
// compile command that runs the lex/parse/validate/emit pipeline over
// one source file (spec §6 "Command-line surface"). Grounded on the
// teacher's cobra-based root command (single persistent command tree,
// package-level *cobra.Command values, init() wiring flags).
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set by build flags; it backs cobra's built-in --version flag.
var Version = "0.1.0-dev"

var rootCmd = &cobra.Command{
	Use:   "b11cc [flags] file",
	Short: "Vilnius BASIC to PDP-11 assembly compiler",
	Long: `b11cc compiles line-numbered BASIC source into PDP-11 assembly text.

The pipeline runs four stages in order: lexing, parsing, validation
(type inference, constant folding, symbol and target checking), and
emission. Each stage runs to completion over its whole input before the
driver checks its error counter, so a single invocation surfaces a full
batch of diagnostics rather than stopping at the first one.`,
	Args:    cobra.ExactArgs(1),
	RunE:    runCompile,
	Version: Version,
}

func init() {
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress the startup banner")
	rootCmd.Flags().BoolVarP(&tokenizeOnly, "tokenizeonly", "t", false, "stop after lexing and print the token stream")
	rootCmd.Flags().BoolVarP(&parsingOnly, "parsingonly", "p", false, "stop after parsing and print the parsed lines")
	rootCmd.Flags().BoolVarP(&validationOnly, "validationonly", "e", false, "stop after validation and print diagnostics only")
	rootCmd.Flags().BoolVarP(&showGeneration, "showgeneration", "g", false, "print the generated assembly to stdout instead of writing a .MAC file")
	rootCmd.Flags().StringVar(&codePage, "codepage", "utf8", "source file encoding: utf8, cp437, or cp866")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
