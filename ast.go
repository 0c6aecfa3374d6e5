package bslcheck

// Node is implemented by every AST node. Positions are 1-indexed.
type Node interface {
	Pos() (line, col int)
}

// span carries the source position shared by all nodes.
type span struct {
	Line int
	Col  int
}

func (s span) Pos() (int, int) { return s.Line, s.Col }

// at builds a span from a token.
func at(tok Token) span { return span{tok.Line, tok.Col} }

// LiteralKind tags Literal nodes with the primitive they carry.
type LiteralKind string

const (
	LitString    LiteralKind = "string"
	LitNumber    LiteralKind = "number"
	LitBoolean   LiteralKind = "boolean"
	LitDate      LiteralKind = "date"
	LitUndefined LiteralKind = "undefined"
)

// Module is the root node of a parsed source module.
type Module struct {
	span
	Vars       []*VarDecl
	Functions  []*Function
	Procedures []*Procedure
	Statements []Node // module-level code, run at module load
}

// VarDecl is a Перем declaration of one or more names.
type VarDecl struct {
	span
	Names []string
}

// Param is one function or procedure parameter. ByVal marks Знач parameters.
type Param struct {
	span
	Name    string
	Default Node // optional default value expression
	ByVal   bool
}

// Function is a Функция ... КонецФункции definition.
type Function struct {
	span
	Name       string
	Params     []*Param
	Body       []Node
	Export     bool
	Async      bool
	Annotation string // "&НаСервере", "&НаКлиенте", ... or ""
}

// Procedure is a Процедура ... КонецПроцедуры definition.
type Procedure struct {
	span
	Name       string
	Params     []*Param
	Body       []Node
	Export     bool
	Async      bool
	Annotation string
}

// Assign is a `target = value;` statement.
type Assign struct {
	span
	Target Node
	Value  Node
}

// ElseIf is one ИначеЕсли branch of an If. It is a (condition, body) pair,
// not a standalone statement.
type ElseIf struct {
	Cond Node
	Body []Node
}

// If is an Если ... Тогда ... ИначеЕсли ... Иначе ... КонецЕсли statement.
type If struct {
	span
	Cond    Node
	Then    []Node
	ElseIfs []ElseIf
	Else    []Node // nil when there is no Иначе branch
}

// While is a Пока ... Цикл ... КонецЦикла loop.
type While struct {
	span
	Cond Node
	Body []Node
}

// For is a numeric Для v = start По end Цикл loop.
type For struct {
	span
	Var  string
	From Node
	To   Node
	Body []Node
}

// ForEach is a Для Каждого v Из collection Цикл loop.
type ForEach struct {
	span
	Var        string
	Collection Node
	Body       []Node
}

// Try is a Попытка ... Исключение ... КонецПопытки statement. The exception
// object itself is not bound to a name and is inaccessible to analysis.
type Try struct {
	span
	Body   []Node
	Except []Node
}

// Return is a Возврат statement with an optional value.
type Return struct {
	span
	Value Node
}

// Break is a Прервать statement.
type Break struct {
	span
}

// Continue is a Продолжить statement.
type Continue struct {
	span
}

// Raise is a ВызватьИсключение statement; without a value it re-raises the
// current exception.
type Raise struct {
	span
	Value Node
}

// Await is a Ждать statement.
type Await struct {
	span
	Value Node
}

// ExprStmt wraps a call-like expression used for its side effect.
type ExprStmt struct {
	span
	X Node
}

// Binary is a binary operation. Op is the canonical operator spelling
// (И, ИЛИ, =, <>, <, >, <=, >=, +, -, *, /, %).
type Binary struct {
	span
	Left  Node
	Op    string
	Right Node
}

// Unary is a unary operation (НЕ or -).
type Unary struct {
	span
	Op string
	X  Node
}

// Ternary is the ?(condition, thenValue, elseValue) expression.
type Ternary struct {
	span
	Cond Node
	Then Node
	Else Node
}

// Call is a function or method call.
type Call struct {
	span
	Fn   Node // identifier or member access
	Args []Node
}

// Member is an object.member access. Only the object is subject to semantic
// validation; the member name is not resolved.
type Member struct {
	span
	X    Node
	Name string
}

// Index is an object[index] access.
type Index struct {
	span
	X   Node
	Idx Node
}

// New is a Новый ИмяТипа(арги) construction.
type New struct {
	span
	TypeName string
	Args     []Node
}

// Ident is a bare name reference.
type Ident struct {
	span
	Name string
}

// Literal is a literal value. Text keeps the raw spelling from the source.
type Literal struct {
	span
	Kind LiteralKind
	Text string
}
