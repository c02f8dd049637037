package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/bolt-lang/bolt/internal/cst"
	"github.com/bolt-lang/bolt/internal/diag"
	"github.com/bolt-lang/bolt/internal/lexer"
	"github.com/bolt-lang/bolt/internal/parser"
	"github.com/bolt-lang/bolt/internal/text"
	"github.com/bolt-lang/bolt/internal/types"
)

func main() {
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: bolt [options] <command>\n")
		fmt.Fprintf(os.Stderr, "\nCommands:\n")
		fmt.Fprintf(os.Stderr, "  compile <file>   Parse and type-check a Bolt source file\n")
		fmt.Fprintf(os.Stderr, "  repl             Start an interactive session\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	verbosity := 0
	if *verbose {
		verbosity = 2
	}
	commonlog.Configure(verbosity, nil)

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	switch flag.Arg(0) {
	case "compile":
		runCompile(flag.Args()[1:])
	case "repl":
		runRepl()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", flag.Arg(0))
		flag.Usage()
		os.Exit(1)
	}
}

var logger = commonlog.GetLogger("bolt")

// checkSource runs the whole front end over one source text: scan,
// punctuate, parse, link parents, check. All diagnostics end up in the
// returned store.
func checkSource(path, source string) (*cst.SourceFile, *types.Checker, *diag.Store, *text.File) {
	file := text.NewFile(path, source)
	store := diag.NewStore()

	scanner := lexer.NewScanner(source)
	punctuator := lexer.NewPunctuator(scanner)
	p := parser.New(file, punctuator, store)
	sf := p.ParseSourceFile()

	for _, e := range scanner.Errors {
		store.Add(&diag.InvalidCharacter{Ch: e.Ch, Loc: e.Loc})
	}

	cst.SetParents(sf)

	checker := types.NewChecker(store, logger)
	checker.Check(sf)

	return sf, checker, store, file
}

func runCompile(args []string) {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Usage: bolt compile <file>\n")
		os.Exit(1)
	}
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bolt: %v\n", err)
		os.Exit(1)
	}

	_, _, store, file := checkSource(path, string(data))

	store.Sort()
	formatter := diag.NewFormatter(file)
	formatter.FormatAll(os.Stderr, store)

	if store.Count() > 0 {
		os.Exit(1)
	}
}
