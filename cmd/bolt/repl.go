package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/bolt-lang/bolt/internal/cst"
	"github.com/bolt-lang/bolt/internal/diag"
)

const historyFile = ".bolt_history"

// runRepl reads one line fold at a time, runs the front end over it and
// prints the inferred type of the final element, or the diagnostics.
func runRepl() {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	historyPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		historyPath = filepath.Join(home, historyFile)
		if f, err := os.Open(historyPath); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
	}

	fmt.Println("Bolt REPL. Ctrl+D exits.")

	for {
		input, err := line.Prompt(">>> ")
		if err == liner.ErrPromptAborted {
			continue
		}
		if err == io.EOF {
			fmt.Println()
			break
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "bolt: %v\n", err)
			break
		}
		if strings.TrimSpace(input) == "" {
			continue
		}
		line.AppendHistory(input)
		evalLine(input)
	}

	if historyPath != "" {
		if f, err := os.Create(historyPath); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}
}

func evalLine(input string) {
	sf, checker, store, file := checkSource("<repl>", input)

	if store.Count() > 0 {
		store.Sort()
		formatter := diag.NewFormatter(file)
		formatter.FormatAll(os.Stderr, store)
		return
	}
	if len(sf.Elements) == 0 {
		return
	}

	switch last := sf.Elements[len(sf.Elements)-1].(type) {
	case *cst.ExpressionStatement:
		if t := checker.TypeOf(last.Expression); t != nil {
			fmt.Printf(": %s\n", t)
		}
	case *cst.LetDeclaration:
		name := "_"
		if tok := last.Name(); tok != nil {
			name = tok.Text()
		}
		if scheme := checker.SchemeOf(last); scheme != nil {
			fmt.Printf("%s : %s\n", name, scheme)
		}
	}
}
