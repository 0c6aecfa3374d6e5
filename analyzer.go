package bslcheck

import "fmt"

// ErrorKind classifies a semantic diagnostic.
type ErrorKind string

const (
	KindUndefinedVariable ErrorKind = "undefined_variable"
	KindUndefinedType     ErrorKind = "undefined_type"
	KindInvalidAST        ErrorKind = "invalid_ast"
)

// SemanticError is one diagnostic. Unlike lexing and parsing, semantic
// analysis never aborts: every reachable problem is reported.
type SemanticError struct {
	Msg  string
	Line int
	Col  int
	Kind ErrorKind
}

func (e SemanticError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Col, e.Msg)
}

// Analyzer checks name resolution over a parsed module: variable and
// parameter references, calls against user routines and registry builtins,
// and constructed type names. Construct one per Analyze call.
type Analyzer struct {
	builtins *BuiltinRegistry
	table    *SymbolTable
	errors   []SemanticError
}

// NewAnalyzer creates an analyzer resolving builtins through reg. A nil
// registry checks user-defined names only.
func NewAnalyzer(reg *BuiltinRegistry) *Analyzer {
	return &Analyzer{builtins: reg}
}

// Analyze walks the module and returns all diagnostics, module-level
// statements first and then each routine in declaration order, together with
// the populated symbol table. Scoping is function-wide, not block-wide:
// Перем declarations are hoisted over the whole routine, while assignment
// targets and loop variables define their name at the point the checking
// walk reaches them and stay visible for the rest of the routine.
func (a *Analyzer) Analyze(root Node) ([]SemanticError, *SymbolTable) {
	a.table = NewSymbolTable(a.builtins)
	a.errors = nil

	mod, ok := root.(*Module)
	if !ok {
		a.errors = append(a.errors, SemanticError{
			Msg:  "expected module root node",
			Kind: KindInvalidAST,
		})
		return a.errors, a.table
	}

	for _, decl := range mod.Vars {
		line, col := decl.Pos()
		for _, name := range decl.Names {
			a.table.Define(name, SymVariable, line, col)
		}
	}

	// Routine names go in before any body is checked, so routines may call
	// each other regardless of declaration order.
	for _, fn := range mod.Functions {
		line, col := fn.Pos()
		a.table.Define(fn.Name, SymFunction, line, col)
	}
	for _, pr := range mod.Procedures {
		line, col := pr.Pos()
		a.table.Define(pr.Name, SymProcedure, line, col)
	}

	a.collectLocals(mod.Statements)
	for _, stmt := range mod.Statements {
		a.check(stmt)
	}

	for _, fn := range mod.Functions {
		a.checkRoutine(fn.Params, fn.Body)
	}
	for _, pr := range mod.Procedures {
		a.checkRoutine(pr.Params, pr.Body)
	}

	return a.errors, a.table
}

// checkRoutine checks one function or procedure body in a fresh scope.
// Parameter defaults are checked after all parameters are defined, so a
// default may refer to any parameter of the same routine.
func (a *Analyzer) checkRoutine(params []*Param, body []Node) {
	a.table.EnterScope()
	defer a.table.ExitScope()

	for _, param := range params {
		line, col := param.Pos()
		a.table.Define(param.Name, SymParameter, line, col)
	}
	for _, param := range params {
		if param.Default != nil {
			a.check(param.Default)
		}
	}

	a.collectLocals(body)
	for _, stmt := range body {
		a.check(stmt)
	}
}

// collectLocals hoists Перем declarations into the current scope, recursing
// through block statements but never into expressions. Assignment targets
// and loop variables are deliberately not hoisted: a read of such a name
// before the statement that assigns it is an undefined reference.
func (a *Analyzer) collectLocals(stmts []Node) {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *VarDecl:
			line, col := s.Pos()
			for _, name := range s.Names {
				a.table.Define(name, SymVariable, line, col)
			}
		case *For:
			a.collectLocals(s.Body)
		case *ForEach:
			a.collectLocals(s.Body)
		case *If:
			a.collectLocals(s.Then)
			for _, ei := range s.ElseIfs {
				a.collectLocals(ei.Body)
			}
			a.collectLocals(s.Else)
		case *While:
			a.collectLocals(s.Body)
		case *Try:
			a.collectLocals(s.Body)
			a.collectLocals(s.Except)
		}
	}
}

func (a *Analyzer) errorf(kind ErrorKind, n Node, format string, args ...any) {
	line, col := n.Pos()
	a.errors = append(a.errors, SemanticError{
		Msg:  fmt.Sprintf(format, args...),
		Line: line,
		Col:  col,
		Kind: kind,
	})
}

// check validates one statement or expression. Member names past the base
// object are never resolved: only the platform knows an object's members.
func (a *Analyzer) check(n Node) {
	switch x := n.(type) {
	case *VarDecl:
		// names already collected

	case *Assign:
		// Value first: in `а = а + 1` with а previously unassigned, the
		// read is the error, not the write. The target is defined only
		// after the value has been checked.
		a.check(x.Value)
		switch target := x.Target.(type) {
		case *Ident:
			line, col := target.Pos()
			a.table.Define(target.Name, SymVariable, line, col)
		default:
			a.check(x.Target)
		}

	case *If:
		a.check(x.Cond)
		a.checkAll(x.Then)
		for _, ei := range x.ElseIfs {
			a.check(ei.Cond)
			a.checkAll(ei.Body)
		}
		a.checkAll(x.Else)

	case *While:
		a.check(x.Cond)
		a.checkAll(x.Body)

	case *For:
		line, col := x.Pos()
		a.table.Define(x.Var, SymLoopVariable, line, col)
		a.check(x.From)
		a.check(x.To)
		a.checkAll(x.Body)

	case *ForEach:
		line, col := x.Pos()
		a.table.Define(x.Var, SymLoopVariable, line, col)
		a.check(x.Collection)
		a.checkAll(x.Body)

	case *Try:
		a.checkAll(x.Body)
		a.checkAll(x.Except)

	case *Return:
		if x.Value != nil {
			a.check(x.Value)
		}

	case *Raise:
		if x.Value != nil {
			a.check(x.Value)
		}

	case *Await:
		a.check(x.Value)

	case *Break, *Continue:

	case *ExprStmt:
		a.check(x.X)

	case *Binary:
		a.check(x.Left)
		a.check(x.Right)

	case *Unary:
		a.check(x.X)

	case *Ternary:
		a.check(x.Cond)
		a.check(x.Then)
		a.check(x.Else)

	case *Call:
		if fn, ok := x.Fn.(*Ident); ok {
			if a.table.Lookup(fn.Name) == nil {
				a.errorf(KindUndefinedVariable, fn, "Call to undefined function '%s'", fn.Name)
			}
		} else {
			a.check(x.Fn)
		}
		a.checkAll(x.Args)

	case *Member:
		a.check(x.X)

	case *Index:
		a.check(x.X)
		a.check(x.Idx)

	case *New:
		if a.table.Lookup(x.TypeName) == nil {
			a.errorf(KindUndefinedType, x, "Unknown type '%s'", x.TypeName)
		}
		a.checkAll(x.Args)

	case *Ident:
		if a.table.Lookup(x.Name) == nil {
			a.errorf(KindUndefinedVariable, x, "Undefined variable '%s'", x.Name)
		}

	case *Literal:
	}
}

func (a *Analyzer) checkAll(nodes []Node) {
	for _, n := range nodes {
		a.check(n)
	}
}
