package bslcheck

// SymbolKind classifies what a name refers to.
type SymbolKind string

const (
	SymParameter       SymbolKind = "parameter"
	SymVariable        SymbolKind = "variable"
	SymFunction        SymbolKind = "function"
	SymProcedure       SymbolKind = "procedure"
	SymLoopVariable    SymbolKind = "loop_variable"
	SymBuiltinFunction SymbolKind = "builtin_function"
	SymBuiltinType     SymbolKind = "builtin_type"
)

// Symbol is one named entity. Name keeps the spelling from the source (or
// the canonical Russian name for builtins); lookups are case-insensitive.
type Symbol struct {
	Name       string
	Kind       SymbolKind
	Line       int
	Col        int
	ScopeLevel int
	IsBuiltin  bool
}

// SymbolTable is a stack of scopes. Level 0 is the module scope, pre-seeded
// with platform builtins; each function or procedure body pushes exactly one
// scope on top of it. Blocks inside a routine (loops, conditionals, try) do
// not introduce scopes.
type SymbolTable struct {
	scopes []map[string]*Symbol
}

// NewSymbolTable creates a table whose module scope contains every function
// and type known to the registry. A nil registry yields an empty module scope.
func NewSymbolTable(reg *BuiltinRegistry) *SymbolTable {
	module := make(map[string]*Symbol)
	if reg != nil {
		for key, info := range reg.functions {
			module[key] = &Symbol{
				Name:      info.RU,
				Kind:      SymBuiltinFunction,
				IsBuiltin: true,
			}
		}
		for key, info := range reg.types {
			module[key] = &Symbol{
				Name:      info.RU,
				Kind:      SymBuiltinType,
				IsBuiltin: true,
			}
		}
	}
	return &SymbolTable{scopes: []map[string]*Symbol{module}}
}

// EnterScope pushes a new innermost scope.
func (t *SymbolTable) EnterScope() {
	t.scopes = append(t.scopes, make(map[string]*Symbol))
}

// ExitScope pops the innermost scope. The module scope is never popped.
func (t *SymbolTable) ExitScope() {
	if len(t.scopes) > 1 {
		t.scopes = t.scopes[:len(t.scopes)-1]
	}
}

// Level is the current scope depth, 0 at module level.
func (t *SymbolTable) Level() int {
	return len(t.scopes) - 1
}

// Define records a symbol in the innermost scope. Redefinition overwrites:
// BSL allows assigning a name any number of times.
func (t *SymbolTable) Define(name string, kind SymbolKind, line, col int) *Symbol {
	sym := &Symbol{
		Name:       name,
		Kind:       kind,
		Line:       line,
		Col:        col,
		ScopeLevel: t.Level(),
	}
	t.scopes[len(t.scopes)-1][lowerFold(name)] = sym
	return sym
}

// Lookup resolves a name from the innermost scope outward.
func (t *SymbolTable) Lookup(name string) *Symbol {
	key := lowerFold(name)
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if sym, ok := t.scopes[i][key]; ok {
			return sym
		}
	}
	return nil
}

// LookupLocal resolves a name in the innermost scope only.
func (t *SymbolTable) LookupLocal(name string) *Symbol {
	sym, ok := t.scopes[len(t.scopes)-1][lowerFold(name)]
	if !ok {
		return nil
	}
	return sym
}
