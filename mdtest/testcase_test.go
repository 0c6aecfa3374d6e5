package mdtest

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

func TestExtractTestCases_BasicTest(t *testing.T) {
	markdown := `# Expressions

## Test: addition
` + "```bsl-expr" + `
1 + 2
` + "```" + `
` + "```ast" + `
BinaryOp: +
` + "```" + `

## Test: subtraction
` + "```bsl-expr" + `
1 - 2
` + "```" + `
` + "```ast" + `
BinaryOp: -
` + "```"

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 2)

	// First test case
	tc1 := testCases[0]
	be.Equal(t, tc1.Name, "addition")
	be.Equal(t, tc1.Input, "1 + 2")
	be.Equal(t, tc1.InputType, InputTypeExpr)
	be.Equal(t, len(tc1.Assertions), 1)
	be.Equal(t, tc1.Assertions[0].Type, AssertionTypeAST)
	be.Equal(t, tc1.Assertions[0].Content, "BinaryOp: +")

	// Second test case
	tc2 := testCases[1]
	be.Equal(t, tc2.Name, "subtraction")
	be.Equal(t, tc2.Input, "1 - 2")
	be.Equal(t, tc2.InputType, InputTypeExpr)
	be.Equal(t, len(tc2.Assertions), 1)
	be.Equal(t, tc2.Assertions[0].Type, AssertionTypeAST)
	be.Equal(t, tc2.Assertions[0].Content, "BinaryOp: -")
}

func TestExtractTestCases_ModuleInput(t *testing.T) {
	markdown := `## Test: module input
` + "```bsl" + `
а = 1;
` + "```" + `
` + "```diagnostics" + `
ok
` + "```"

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 1)

	tc := testCases[0]
	be.Equal(t, tc.Name, "module input")
	be.Equal(t, tc.Input, "а = 1;")
	be.Equal(t, tc.InputType, InputTypeModule)
	be.Equal(t, len(tc.Assertions), 1)
	be.Equal(t, tc.Assertions[0].Type, AssertionTypeDiagnostics)
}

func TestExtractTestCases_MultipleAssertions(t *testing.T) {
	markdown := `## Test: multiple assertions
` + "```bsl" + `
б = а;
` + "```" + `
` + "```ast" + `
Module
` + "```" + `
` + "```diagnostics" + `
1:5: Undefined variable 'а'
` + "```"

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 1)

	tc := testCases[0]
	be.Equal(t, len(tc.Assertions), 2)
	be.Equal(t, tc.Assertions[0].Type, AssertionTypeAST)
	be.Equal(t, tc.Assertions[1].Type, AssertionTypeDiagnostics)
	be.Equal(t, tc.Assertions[1].Content, "1:5: Undefined variable 'а'")
}

func TestExtractTestCases_ErrorAssertionTypes(t *testing.T) {
	markdown := `## Test: lex error
` + "```bsl" + `
а = "незакрытая
` + "```" + `
` + "```lex-error" + `
unterminated string literal
` + "```" + `

## Test: parse error
` + "```bsl" + `
Если а Тогда
` + "```" + `
` + "```parse-error" + `
expected КОНЕЦЕСЛИ
` + "```"

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 2)
	be.Equal(t, testCases[0].Assertions[0].Type, AssertionTypeLexError)
	be.Equal(t, testCases[1].Assertions[0].Type, AssertionTypeParseError)
}

func TestExtractTestCases_MissingInputFence(t *testing.T) {
	markdown := `## Test: no input
` + "```ast" + `
Module
` + "```"

	_, err := ExtractTestCases(markdown)
	be.Err(t, err)
	be.True(t, strings.Contains(err.Error(), "has no input fence"))
}

func TestExtractTestCases_MissingAssertionFence(t *testing.T) {
	markdown := `## Test: no assertions
` + "```bsl" + `
а = 1;
` + "```"

	_, err := ExtractTestCases(markdown)
	be.Err(t, err)
	be.True(t, strings.Contains(err.Error(), "has no assertion fences"))
}

func TestExtractTestCases_MultipleInputFences(t *testing.T) {
	markdown := `## Test: two inputs
` + "```bsl" + `
а = 1;
` + "```" + `
` + "```bsl" + `
б = 2;
` + "```" + `
` + "```ast" + `
Module
` + "```"

	_, err := ExtractTestCases(markdown)
	be.Err(t, err)
	be.True(t, strings.Contains(err.Error(), "multiple input fences"))
}

func TestExtractTestCases_UnknownFenceLanguage(t *testing.T) {
	markdown := `## Test: bad fence
` + "```bsl" + `
а = 1;
` + "```" + `
` + "```python" + `
print("hi")
` + "```"

	_, err := ExtractTestCases(markdown)
	be.Err(t, err)
	be.True(t, strings.Contains(err.Error(), "unknown fence language 'python'"))
}

func TestExtractTestCases_FenceOutsideTestCase(t *testing.T) {
	markdown := "```bsl\nа = 1;\n```"

	_, err := ExtractTestCases(markdown)
	be.Err(t, err)
	be.True(t, strings.Contains(err.Error(), "outside of test case"))
}

func TestExtractTestCases_PlainFenceOutsideTestCaseAllowed(t *testing.T) {
	markdown := `Some prose.

` + "```" + `
just an example block
` + "```" + `

## Test: real case
` + "```bsl" + `
а = 1;
` + "```" + `
` + "```diagnostics" + `
ok
` + "```"

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 1)
}
