package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nzeemin/vilnius-basic-compiler-sub000/internal/emitter"
	"github.com/nzeemin/vilnius-basic-compiler-sub000/internal/lexer"
	"github.com/nzeemin/vilnius-basic-compiler-sub000/internal/parser"
	"github.com/nzeemin/vilnius-basic-compiler-sub000/internal/token"
	"github.com/nzeemin/vilnius-basic-compiler-sub000/internal/validator"
	"github.com/spf13/cobra"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

var (
	quiet          bool
	tokenizeOnly   bool
	parsingOnly    bool
	validationOnly bool
	showGeneration bool
	codePage       string
)

// codePages maps the --codepage flag's accepted values to the 8-bit
// encodings source files written on the vintage machines this targets
// may use. "utf8" (the default) means the input is already UTF-8 and
// needs no decoding.
var codePages = map[string]encoding.Encoding{
	"cp437": charmap.CodePage437,
	"cp866": charmap.CodePage866,
}

// decodeSource converts raw file bytes to UTF-8 text according to
// --codepage. A source file written in an 8-bit national code page (the
// common case on the 8-bit machines this compiler targets) must be
// decoded before it reaches the lexer, which only ever consumes UTF-8
// (spec §4.1).
func decodeSource(raw []byte) (string, error) {
	if codePage == "" || codePage == "utf8" {
		return string(raw), nil
	}
	enc, ok := codePages[codePage]
	if !ok {
		return "", fmt.Errorf("unknown code page %q", codePage)
	}
	decoded, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("decoding %s source: %w", codePage, err)
	}
	return string(decoded), nil
}

// runCompile drives the four pipeline stages over one input file,
// stopping early when a stage-stop flag is set and otherwise writing
// the emitted assembly to the implicit .MAC output path (spec §6).
func runCompile(_ *cobra.Command, args []string) error {
	filename := args[0]

	if !quiet {
		fmt.Fprintln(os.Stderr, "b11cc - Vilnius BASIC to PDP-11 assembly compiler")
	}

	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	input, err := decodeSource(content)
	if err != nil {
		return err
	}

	if tokenizeOnly {
		return runTokenizeOnly(input)
	}

	source, parseErrors := parser.ParseProgram(input)
	if parsingOnly {
		for _, line := range source.Lines {
			fmt.Printf("%5d %s\n", line.Number, line.Text)
		}
		fmt.Fprint(os.Stderr, parseErrors.Format())
		if parseErrors.Count() > 0 {
			exitWithError("parsing failed with %d error(s)", parseErrors.Count())
		}
		return nil
	}
	if parseErrors.Count() > 0 {
		fmt.Fprint(os.Stderr, parseErrors.Format())
		exitWithError("parsing failed with %d error(s)", parseErrors.Count())
	}

	validateErrors := validator.Validate(source)
	if validationOnly {
		fmt.Fprint(os.Stderr, validateErrors.Format())
		if validateErrors.Count() > 0 {
			exitWithError("validation failed with %d error(s)", validateErrors.Count())
		}
		return nil
	}
	if validateErrors.Count() > 0 {
		fmt.Fprint(os.Stderr, validateErrors.Format())
		exitWithError("validation failed with %d error(s)", validateErrors.Count())
	}

	final := emitter.Emit(source)

	if showGeneration {
		fmt.Print(final.String())
		return nil
	}

	outputFile := strings.TrimSuffix(filename, filepath.Ext(filename)) + ".MAC"
	if err := os.WriteFile(outputFile, []byte(final.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outputFile, err)
	}
	if !quiet {
		fmt.Fprintf(os.Stderr, "wrote %s\n", outputFile)
	}
	return nil
}

// runTokenizeOnly prints every token the lexer produces and stops; it
// never registers a parse or validation error since the lexer itself is
// permissive (spec §7, the Lex diagnostic kind is "rare by design").
func runTokenizeOnly(input string) error {
	l := lexer.New(input)
	for {
		tok := l.Next()
		printToken(tok)
		if tok.Kind == token.EndOfText {
			break
		}
	}
	return nil
}

// printToken renders one token as "[kind] text @line:col", the same
// shape the teacher's lex dump command uses.
func printToken(tok token.Token) {
	text := tok.Text
	switch tok.Kind {
	case token.String:
		text = fmt.Sprintf("%q", tok.Str)
	case token.Identifier, token.Keyword:
		text = tok.Str
	}
	fmt.Printf("[%-12s] %s @%d:%d\n", tok.Kind.String(), text, tok.Pos.Line, tok.Pos.Column)
}
