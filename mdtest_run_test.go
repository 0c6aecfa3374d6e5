package bslcheck

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"github.com/bsltools/bslcheck/mdtest"
)

// TestMarkdownSuite runs every test case under testdata/*.md. Module inputs
// go through the full pipeline; expression inputs stop after parsing.
// Diagnostics are asserted as one "line:col: message" per line, with the
// literal "ok" meaning a clean module.
func TestMarkdownSuite(t *testing.T) {
	testFiles, err := filepath.Glob("testdata/*.md")
	be.Err(t, err, nil)
	be.True(t, len(testFiles) > 0)

	registry := NewBuiltinRegistry()
	be.Err(t, registry.LoadFile("testdata/builtins.json"), nil)

	for _, testFile := range testFiles {
		fileName := filepath.Base(testFile)
		testName := strings.TrimSuffix(fileName, ".md")

		t.Run(testName, func(t *testing.T) {
			content, err := os.ReadFile(testFile)
			be.Err(t, err, nil)

			testCases, err := mdtest.ExtractTestCases(string(content))
			be.Err(t, err, nil)

			for _, tc := range testCases {
				t.Run(tc.Name, func(t *testing.T) {
					runMarkdownCase(t, tc, registry)
				})
			}
		})
	}
}

func runMarkdownCase(t *testing.T, tc mdtest.TestCase, registry *BuiltinRegistry) {
	t.Helper()

	tokens, lexErr := NewLexer(tc.Input).TokenizeFiltered()
	if want, ok := findAssertion(tc, mdtest.AssertionTypeLexError); ok {
		be.Err(t, lexErr)
		be.True(t, strings.Contains(lexErr.Error(), want))
		return
	}
	be.Err(t, lexErr, nil)

	var root Node
	var parseErr error
	switch tc.InputType {
	case mdtest.InputTypeExpr:
		root, parseErr = NewParser(tokens).ParseExpr()
	case mdtest.InputTypeModule:
		root, parseErr = NewParser(tokens).Parse()
	default:
		t.Fatalf("Unknown input type: %s", tc.InputType)
	}

	if want, ok := findAssertion(tc, mdtest.AssertionTypeParseError); ok {
		be.Err(t, parseErr)
		be.True(t, strings.Contains(parseErr.Error(), want))
		return
	}
	be.Err(t, parseErr, nil)

	for _, assertion := range tc.Assertions {
		switch assertion.Type {
		case mdtest.AssertionTypeAST:
			be.Equal(t, strings.TrimRight(PrintAST(root), "\n"), assertion.Content)

		case mdtest.AssertionTypeDiagnostics:
			if tc.InputType != mdtest.InputTypeModule {
				t.Fatalf("diagnostics assertion requires a bsl input in test '%s'", tc.Name)
			}
			diags, _ := NewAnalyzer(registry).Analyze(root)
			be.Equal(t, formatDiagnostics(diags), assertion.Content)
		}
	}
}

func findAssertion(tc mdtest.TestCase, at mdtest.AssertionType) (string, bool) {
	for _, assertion := range tc.Assertions {
		if assertion.Type == at {
			return assertion.Content, true
		}
	}
	return "", false
}

func formatDiagnostics(diags []SemanticError) string {
	if len(diags) == 0 {
		return "ok"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = d.Error()
	}
	return strings.Join(lines, "\n")
}
