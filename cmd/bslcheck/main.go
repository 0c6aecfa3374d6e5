package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	"github.com/bsltools/bslcheck"
)

const (
	historyFile = ".bslcheck_history"
	promptMain  = "bsl> "
	promptCont  = "...> "
)

func showUsage() {
	fmt.Fprintf(os.Stderr, `bslcheck - syntax and name checker for 1C:Enterprise (BSL) modules

Usage:
    bslcheck <command> [arguments]

Commands:
    lex <file>       Tokenize a .bsl file and print the token stream
    parse <file>     Parse a .bsl file and print its AST
    check <file>     Run the full pipeline and report diagnostics
    repl             Check snippets interactively
    help             Show this help message

Examples:
    bslcheck lex module.bsl
    bslcheck parse module.bsl
    bslcheck check -builtins builtins.json module.bsl

Exit codes for check: 0 clean, 1 lexer or parser failure, 2 diagnostics found.

Use "bslcheck <command> -h" for more information about a command.
`)
}

func main() {
	if len(os.Args) < 2 {
		showUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "lex":
		lexCommand(os.Args[2:])
	case "parse":
		parseCommand(os.Args[2:])
	case "check":
		checkCommand(os.Args[2:])
	case "repl":
		replCommand(os.Args[2:])
	case "help", "-h", "--help":
		showUsage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", os.Args[1])
		showUsage()
		os.Exit(1)
	}
}

// readSource loads one source file named by the flag set's single argument.
func readSource(fs *flag.FlagSet) string {
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one file argument\n")
		fs.Usage()
		os.Exit(1)
	}
	filename := fs.Arg(0)
	sourceBytes, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file %s: %v\n", filename, err)
		os.Exit(1)
	}
	return string(sourceBytes)
}

func lexCommand(args []string) {
	fs := flag.NewFlagSet("lex", flag.ExitOnError)
	all := fs.Bool("all", false, "Include newline and comment tokens")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: bslcheck lex [-all] <file>\n")
		fmt.Fprintf(os.Stderr, "Tokenize a .bsl file and print the token stream\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	source := readSource(fs)
	lexer := bslcheck.NewLexer(source)

	var tokens []bslcheck.Token
	var err error
	if *all {
		tokens, err = lexer.Tokenize()
	} else {
		tokens, err = lexer.TokenizeFiltered()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Lexing failed: %v\n", err)
		os.Exit(1)
	}

	for _, tok := range tokens {
		fmt.Printf("%d:%d\t%s\t%q\n", tok.Line, tok.Col, tok.Type, tok.Literal)
	}
}

func parseCommand(args []string) {
	fs := flag.NewFlagSet("parse", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: bslcheck parse <file>\n")
		fmt.Fprintf(os.Stderr, "Parse a .bsl file and print its AST\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	source := readSource(fs)
	module, err := parseModule(source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Parsing failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(bslcheck.PrintAST(module))
}

func checkCommand(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	builtinsPath := fs.String("builtins", "", "Path to the builtins JSON cache")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: bslcheck check [-builtins file.json] <file>\n")
		fmt.Fprintf(os.Stderr, "Run the full pipeline and report diagnostics\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	registry := loadRegistry(*builtinsPath)
	source := readSource(fs)

	module, err := parseModule(source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	diags, _ := bslcheck.NewAnalyzer(registry).Analyze(module)
	if len(diags) == 0 {
		fmt.Println("ok")
		return
	}
	for _, d := range diags {
		fmt.Println(d.Error())
	}
	os.Exit(2)
}

func replCommand(args []string) {
	fs := flag.NewFlagSet("repl", flag.ExitOnError)
	builtinsPath := fs.String("builtins", "", "Path to the builtins JSON cache")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: bslcheck repl [-builtins file.json]\n")
		fmt.Fprintf(os.Stderr, "Check snippets interactively\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	registry := loadRegistry(*builtinsPath)

	fmt.Println("bslcheck REPL")
	fmt.Println("Ctrl+C cancels input, Ctrl+D exits. Type :quit to exit.")

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	for {
		code, ok := readByParseProbe(ln, promptMain, promptCont)
		if !ok {
			fmt.Println()
			return
		}

		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			switch strings.ToLower(trimmed) {
			case ":quit":
				return
			default:
				fmt.Println("unknown command. Type :quit to exit.")
			}
			continue
		}

		module, err := parseModule(code)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}

		diags, _ := bslcheck.NewAnalyzer(registry).Analyze(module)
		if len(diags) == 0 {
			fmt.Println("ok")
		} else {
			for _, d := range diags {
				fmt.Println(d.Error())
			}
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	}
}

// readByParseProbe reads lines until the buffer parses, or fails with an
// error that more input cannot fix. The continuation prompt is shown while
// the buffer is incomplete, so block statements can be typed across lines.
func readByParseProbe(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if _, perr := parseModule(src); perr != nil && bslcheck.IsIncomplete(perr) {
			continue
		}
		return src, true
	}
}

func parseModule(source string) (*bslcheck.Module, error) {
	tokens, err := bslcheck.NewLexer(source).TokenizeFiltered()
	if err != nil {
		return nil, err
	}
	return bslcheck.NewParser(tokens).Parse()
}

func loadRegistry(path string) *bslcheck.BuiltinRegistry {
	registry := bslcheck.NewBuiltinRegistry()
	if path != "" {
		if err := registry.LoadFile(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	return registry
}
