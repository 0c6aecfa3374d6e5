package bslcheck

import (
	"errors"
	"fmt"
	"strings"
)

// ParseError is a fatal syntax error carrying the offending token. Parsing is
// fail-fast: the first structural mismatch aborts with no partial AST.
type ParseError struct {
	Msg string
	Tok Token
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.Tok.Line, e.Tok.Col, e.Msg)
}

// IsIncomplete reports whether err indicates input that ran out rather than
// input that is wrong: a parse error at the EOF token, or an unterminated
// string or date literal. Interactive callers use it to prompt for more.
func IsIncomplete(err error) bool {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Tok.Type == EOF
	}
	var le *LexError
	if errors.As(err, &le) {
		return strings.HasPrefix(le.Msg, "unterminated")
	}
	return false
}

// binPrecedence gives binary operator precedence, higher binds tighter.
// НЕ is listed for completeness but only ever parses as a unary operator.
var binPrecedence = map[string]int{
	"ИЛИ": 1,
	"И":   2,
	"НЕ":  3,
	"=":   4, "<>": 4, "<": 4, ">": 4, "<=": 4, ">=": 4,
	"+": 5, "-": 5,
	"*": 6, "/": 6, "%": 6,
}

// binaryOp returns the canonical operator spelling for a token usable as a
// binary operator: И/ИЛИ for the keyword forms, the operator text otherwise.
func binaryOp(tok Token) (string, bool) {
	switch tok.Type {
	case AND:
		return "И", true
	case OR:
		return "ИЛИ", true
	case ASSIGN, NOT_EQ, LT, GT, LE, GE, PLUS, MINUS, ASTERISK, SLASH, PERCENT:
		return string(tok.Type), true
	}
	return "", false
}

// Parser is a single-pass recursive descent parser over a token stream.
// Construct one per Parse call.
type Parser struct {
	toks              []Token
	cur               int
	pendingAnnotation string
}

// NewParser creates a parser for the given tokens. The stream should be
// terminated by an EOF token, as produced by Lexer.Tokenize.
func NewParser(tokens []Token) *Parser {
	if len(tokens) == 0 {
		tokens = []Token{{Type: EOF, Line: 1, Col: 1}}
	}
	return &Parser{toks: tokens}
}

// Parse consumes the token stream and returns the module root.
func (p *Parser) Parse() (mod *Module, err error) {
	defer p.recoverParseError(&err)
	return p.parseModule(), nil
}

// ParseExpr parses the stream as a single expression followed by end of
// input. Used by tooling that checks expression snippets.
func (p *Parser) ParseExpr() (expr Node, err error) {
	defer p.recoverParseError(&err)
	e := p.parseExpression()
	p.skipNewlines()
	p.expect(EOF, "")
	return e, nil
}

// The parser reports errors by panicking with *ParseError; the public entry
// points convert that into an error return.
func (p *Parser) recoverParseError(err *error) {
	if r := recover(); r != nil {
		pe, ok := r.(*ParseError)
		if !ok {
			panic(r)
		}
		*err = pe
	}
}

func (p *Parser) fail(msg string, tok Token) {
	panic(&ParseError{Msg: msg, Tok: tok})
}

// ==================== token stream helpers ====================

// peek looks at the token at the given offset without consuming it; past the
// end it returns the trailing EOF token.
func (p *Parser) peek(offset int) Token {
	pos := p.cur + offset
	if pos < 0 || pos >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[pos]
}

func (p *Parser) at() Token { return p.peek(0) }

// advance consumes and returns the current token; EOF is never consumed.
func (p *Parser) advance() Token {
	tok := p.at()
	if tok.Type != EOF {
		p.cur++
	}
	return tok
}

// expect consumes the current token, failing unless it has the wanted type.
// An empty msg produces a default "expected X, got Y" message.
func (p *Parser) expect(tt TokenType, msg string) Token {
	tok := p.at()
	if tok.Type != tt {
		if msg == "" {
			msg = fmt.Sprintf("expected %s, got %s", tt, tok.Type)
		}
		p.fail(msg, tok)
	}
	return p.advance()
}

func (p *Parser) match(tts ...TokenType) bool {
	cur := p.at().Type
	for _, tt := range tts {
		if cur == tt {
			return true
		}
	}
	return false
}

func (p *Parser) skipNewlines() {
	for p.match(NEWLINE, COMMENT) {
		p.advance()
	}
}

// synchronize advances to the next likely statement boundary. Recovery
// infrastructure for a future multi-error parsing mode; Parse itself stays
// fail-fast and does not call it.
func (p *Parser) synchronize() {
	p.advance()
	for !p.match(EOF) {
		if p.peek(-1).Type == SEMICOLON {
			return
		}
		if p.match(FUNCTION, PROCEDURE, IF, FOR, WHILE, RETURN, VAR) {
			return
		}
		p.advance()
	}
}

// ==================== module level ====================

// parseModule parses a complete module:
//
//	module = (annotation | var_decl | ["Асинх"] function | ["Асинх"] procedure | statement)*
func (p *Parser) parseModule() *Module {
	mod := &Module{}
	p.skipNewlines()

	for !p.match(EOF) {
		p.skipNewlines()

		switch {
		case p.match(ANNOTATION):
			p.pendingAnnotation = p.advance().Literal

		case p.match(VAR):
			mod.Vars = append(mod.Vars, p.parseVarDecl())
			p.pendingAnnotation = ""

		case p.match(ASYNC):
			p.advance()
			p.skipNewlines()
			switch {
			case p.match(FUNCTION):
				fn := p.parseFunction()
				fn.Async = true
				mod.Functions = append(mod.Functions, fn)
			case p.match(PROCEDURE):
				pr := p.parseProcedure()
				pr.Async = true
				mod.Procedures = append(mod.Procedures, pr)
			default:
				p.fail("expected Функция or Процедура after Асинх", p.at())
			}

		case p.match(FUNCTION):
			mod.Functions = append(mod.Functions, p.parseFunction())

		case p.match(PROCEDURE):
			mod.Procedures = append(mod.Procedures, p.parseProcedure())

		case p.match(PP_IF, PP_ELSE, PP_ENDIF):
			// Directives are not evaluated; see lexer.
			p.advance()

		case p.match(EOF):
			// handled by loop condition

		default:
			if stmt := p.parseStatement(); stmt != nil {
				mod.Statements = append(mod.Statements, stmt)
			}
		}

		p.skipNewlines()
	}

	return mod
}

// parseVarDecl parses `Перем имя (, имя)* ;`.
func (p *Parser) parseVarDecl() *VarDecl {
	tok := p.expect(VAR, "")
	decl := &VarDecl{span: at(tok)}

	name := p.expect(IDENT, "expected variable name after Перем")
	decl.Names = append(decl.Names, name.Literal)
	for p.match(COMMA) {
		p.advance()
		p.skipNewlines()
		name = p.expect(IDENT, "expected variable name after comma")
		decl.Names = append(decl.Names, name.Literal)
	}

	p.expect(SEMICOLON, "")
	return decl
}

// ==================== functions and procedures ====================

func (p *Parser) parseFunction() *Function {
	tok := p.expect(FUNCTION, "")
	fn := &Function{span: at(tok), Annotation: p.takeAnnotation()}

	fn.Name = p.expect(IDENT, "expected function name").Literal
	fn.Params = p.parseParamList()
	if p.match(EXPORT) {
		p.advance()
		fn.Export = true
	}
	p.skipNewlines()

	fn.Body = p.parseStatementBlock(END_FUNCTION)
	p.expect(END_FUNCTION, "")
	return fn
}

func (p *Parser) parseProcedure() *Procedure {
	tok := p.expect(PROCEDURE, "")
	pr := &Procedure{span: at(tok), Annotation: p.takeAnnotation()}

	pr.Name = p.expect(IDENT, "expected procedure name").Literal
	pr.Params = p.parseParamList()
	if p.match(EXPORT) {
		p.advance()
		pr.Export = true
	}
	p.skipNewlines()

	pr.Body = p.parseStatementBlock(END_PROCEDURE)
	p.expect(END_PROCEDURE, "")
	return pr
}

// takeAnnotation consumes the annotation seen before the current routine.
func (p *Parser) takeAnnotation() string {
	a := p.pendingAnnotation
	p.pendingAnnotation = ""
	return a
}

// parseParamList parses `( parameter (, parameter)* )` with
// parameter = ["Знач"] имя ["=" expression].
func (p *Parser) parseParamList() []*Param {
	p.expect(LPAREN, "")
	var params []*Param
	if !p.match(RPAREN) {
		params = append(params, p.parseParam())
		for p.match(COMMA) {
			p.advance()
			p.skipNewlines()
			params = append(params, p.parseParam())
		}
	}
	p.expect(RPAREN, "")
	return params
}

func (p *Parser) parseParam() *Param {
	byVal := false
	if p.match(VAL) {
		p.advance()
		byVal = true
	}
	name := p.expect(IDENT, "expected parameter name")
	param := &Param{span: at(name), Name: name.Literal, ByVal: byVal}
	if p.match(ASSIGN) {
		p.advance()
		param.Default = p.parseExpression()
	}
	return param
}

// ==================== statements ====================

// parseStatementBlock parses statements until one of the end tokens (or EOF,
// letting the caller's expect report the missing terminator).
func (p *Parser) parseStatementBlock(ends ...TokenType) []Node {
	var stmts []Node
	p.skipNewlines()
	stop := append(ends, EOF)
	for !p.match(stop...) {
		if stmt := p.parseStatement(); stmt != nil {
			stmts = append(stmts, stmt)
		}
		p.skipNewlines()
	}
	return stmts
}

func (p *Parser) parseStatement() Node {
	p.skipNewlines()

	// Directives may appear inside bodies as well; they are skipped the same
	// way as at module level.
	for p.match(PP_IF, PP_ELSE, PP_ENDIF) {
		p.advance()
		p.skipNewlines()
	}

	switch {
	case p.match(VAR):
		return p.parseVarDecl()
	case p.match(IF):
		return p.parseIf()
	case p.match(WHILE):
		return p.parseWhile()
	case p.match(FOR):
		return p.parseFor()
	case p.match(TRY):
		return p.parseTry()
	case p.match(RETURN):
		return p.parseReturn()
	case p.match(BREAK):
		tok := p.advance()
		p.expect(SEMICOLON, "")
		return &Break{span: at(tok)}
	case p.match(CONTINUE):
		tok := p.advance()
		p.expect(SEMICOLON, "")
		return &Continue{span: at(tok)}
	case p.match(RAISE):
		return p.parseRaise()
	case p.match(AWAIT):
		return p.parseAwait()
	case p.match(EOF):
		return nil
	}
	return p.parseExprOrAssign()
}

// parseIf parses
//
//	"Если" expr "Тогда" stmts ("ИначеЕсли" expr "Тогда" stmts)*
//	("Иначе" stmts)? "КонецЕсли" ";"
func (p *Parser) parseIf() *If {
	tok := p.expect(IF, "")
	node := &If{span: at(tok)}

	node.Cond = p.parseExpression()
	p.expect(THEN, "")
	p.skipNewlines()
	node.Then = p.parseStatementBlock(ELSIF, ELSE, END_IF)

	for p.match(ELSIF) {
		p.advance()
		cond := p.parseExpression()
		p.expect(THEN, "")
		p.skipNewlines()
		body := p.parseStatementBlock(ELSIF, ELSE, END_IF)
		node.ElseIfs = append(node.ElseIfs, ElseIf{Cond: cond, Body: body})
	}

	if p.match(ELSE) {
		p.advance()
		p.skipNewlines()
		node.Else = p.parseStatementBlock(END_IF)
		if node.Else == nil {
			node.Else = []Node{}
		}
	}

	p.expect(END_IF, "")
	p.expect(SEMICOLON, "")
	return node
}

// parseWhile parses `"Пока" expr "Цикл" stmts "КонецЦикла" ";"`.
func (p *Parser) parseWhile() *While {
	tok := p.expect(WHILE, "")
	node := &While{span: at(tok)}

	node.Cond = p.parseExpression()
	p.expect(DO, "")
	p.skipNewlines()
	node.Body = p.parseStatementBlock(END_DO)
	p.expect(END_DO, "")
	p.expect(SEMICOLON, "")
	return node
}

// parseFor parses both loop forms:
//
//	"Для" имя "=" expr "По" expr "Цикл" stmts "КонецЦикла" ";"
//	"Для" "Каждого" имя "Из" expr "Цикл" stmts "КонецЦикла" ";"
func (p *Parser) parseFor() Node {
	tok := p.expect(FOR, "")

	if p.match(EACH) {
		p.advance()
		node := &ForEach{span: at(tok)}
		node.Var = p.expect(IDENT, "expected loop variable name").Literal
		p.expect(IN, "")
		node.Collection = p.parseExpression()
		p.expect(DO, "")
		p.skipNewlines()
		node.Body = p.parseStatementBlock(END_DO)
		p.expect(END_DO, "")
		p.expect(SEMICOLON, "")
		return node
	}

	node := &For{span: at(tok)}
	node.Var = p.expect(IDENT, "expected loop variable name").Literal
	p.expect(ASSIGN, "")
	node.From = p.parseExpression()
	p.expect(TO, "")
	node.To = p.parseExpression()
	p.expect(DO, "")
	p.skipNewlines()
	node.Body = p.parseStatementBlock(END_DO)
	p.expect(END_DO, "")
	p.expect(SEMICOLON, "")
	return node
}

// parseTry parses `"Попытка" stmts "Исключение" stmts "КонецПопытки" ";"`.
// The exception object is not bound to any name.
func (p *Parser) parseTry() *Try {
	tok := p.expect(TRY, "")
	node := &Try{span: at(tok)}

	p.skipNewlines()
	node.Body = p.parseStatementBlock(EXCEPT)
	p.expect(EXCEPT, "")
	p.skipNewlines()
	node.Except = p.parseStatementBlock(END_TRY)
	p.expect(END_TRY, "")
	p.expect(SEMICOLON, "")
	return node
}

func (p *Parser) parseReturn() *Return {
	tok := p.expect(RETURN, "")
	node := &Return{span: at(tok)}
	if !p.match(SEMICOLON) {
		node.Value = p.parseExpression()
	}
	p.expect(SEMICOLON, "")
	return node
}

// parseRaise parses `"ВызватьИсключение" [expr] ";"`; without an expression
// it re-raises the current exception.
func (p *Parser) parseRaise() *Raise {
	tok := p.expect(RAISE, "")
	node := &Raise{span: at(tok)}
	if !p.match(SEMICOLON) {
		node.Value = p.parseExpression()
	}
	p.expect(SEMICOLON, "")
	return node
}

func (p *Parser) parseAwait() *Await {
	tok := p.expect(AWAIT, "")
	node := &Await{span: at(tok)}
	node.Value = p.parseExpression()
	p.expect(SEMICOLON, "")
	return node
}

// parseExprOrAssign disambiguates assignments from expression statements.
// The left side is probed as a postfix expression only (no binary operators):
// if "=" follows it is an assignment target; if a binary operator follows,
// climbing resumes with the probe result as the initial left operand.
func (p *Parser) parseExprOrAssign() Node {
	expr := p.parsePostfix()

	if p.match(ASSIGN) {
		p.advance()
		value := p.parseExpression()
		p.expect(SEMICOLON, "")
		line, col := expr.Pos()
		return &Assign{span: span{line, col}, Target: expr, Value: value}
	}

	if op, ok := binaryOp(p.at()); ok && binPrecedence[op] > 0 {
		expr = p.parseBinaryFrom(expr, 0)
	}

	p.expect(SEMICOLON, "")
	line, col := expr.Pos()
	return &ExprStmt{span: span{line, col}, X: expr}
}

// ==================== expressions ====================

func (p *Parser) parseExpression() Node {
	return p.parseBinary(0)
}

func (p *Parser) parseBinary(minPrec int) Node {
	return p.parseBinaryFrom(p.parseUnary(), minPrec)
}

// parseBinaryFrom is the single precedence-climbing loop, shared between the
// plain expression parser and the statement parser's resume-after-probe path.
// Newlines are transparent between an operator and its right operand, so
// expressions may span lines.
func (p *Parser) parseBinaryFrom(left Node, minPrec int) Node {
	for {
		p.skipNewlines()
		tok := p.at()
		op, ok := binaryOp(tok)
		if !ok {
			break
		}
		prec := binPrecedence[op]
		if prec < minPrec {
			break
		}

		p.advance()
		p.skipNewlines()
		right := p.parseBinary(prec + 1) // left-associative
		left = &Binary{span: at(tok), Left: left, Op: op, Right: right}
	}
	return left
}

// parseUnary parses `("НЕ" | "-") unary | postfix`.
func (p *Parser) parseUnary() Node {
	if p.match(NOT) {
		tok := p.advance()
		return &Unary{span: at(tok), Op: "НЕ", X: p.parseUnary()}
	}
	if p.match(MINUS) {
		tok := p.advance()
		return &Unary{span: at(tok), Op: "-", X: p.parseUnary()}
	}
	return p.parsePostfix()
}

// parsePostfix parses `primary ("." имя | "(" args ")" | "[" expr "]")*`.
func (p *Parser) parsePostfix() Node {
	expr := p.parsePrimary()

	for {
		switch {
		case p.match(DOT):
			tok := p.advance()
			member := p.expect(IDENT, "expected member name after '.'")
			expr = &Member{span: at(tok), X: expr, Name: member.Literal}

		case p.match(LPAREN):
			tok := p.advance()
			var args []Node
			if !p.match(RPAREN) {
				args = p.parseArgs()
			}
			p.expect(RPAREN, "")
			expr = &Call{span: at(tok), Fn: expr, Args: args}

		case p.match(LBRACKET):
			tok := p.advance()
			idx := p.parseExpression()
			p.expect(RBRACKET, "")
			expr = &Index{span: at(tok), X: expr, Idx: idx}

		default:
			return expr
		}
	}
}

func (p *Parser) parsePrimary() Node {
	tok := p.at()

	switch tok.Type {
	case QUESTION:
		return p.parseTernary()

	case LPAREN:
		p.advance()
		expr := p.parseExpression()
		p.expect(RPAREN, "")
		return expr

	case STRING:
		p.advance()
		return &Literal{span: at(tok), Kind: LitString, Text: tok.Literal}

	case NUMBER:
		p.advance()
		return &Literal{span: at(tok), Kind: LitNumber, Text: tok.Literal}

	case DATE:
		p.advance()
		return &Literal{span: at(tok), Kind: LitDate, Text: tok.Literal}

	case TRUE, FALSE:
		p.advance()
		return &Literal{span: at(tok), Kind: LitBoolean, Text: tok.Literal}

	case UNDEFINED:
		p.advance()
		return &Literal{span: at(tok), Kind: LitUndefined, Text: tok.Literal}

	case NEW:
		return p.parseNew()

	case IDENT:
		p.advance()
		return &Ident{span: at(tok), Name: tok.Literal}
	}

	p.fail(fmt.Sprintf("unexpected token in expression: %q", tok.Literal), tok)
	return nil
}

// parseTernary parses `"?" "(" expr "," expr "," expr ")"`.
func (p *Parser) parseTernary() *Ternary {
	tok := p.expect(QUESTION, "")
	node := &Ternary{span: at(tok)}

	p.expect(LPAREN, "")
	node.Cond = p.parseExpression()
	p.expect(COMMA, "")
	p.skipNewlines()
	node.Then = p.parseExpression()
	p.expect(COMMA, "")
	p.skipNewlines()
	node.Else = p.parseExpression()
	p.expect(RPAREN, "")
	return node
}

// parseNew parses `"Новый" ИмяТипа ["(" args ")"]`. The argument list is
// optional and may be empty.
func (p *Parser) parseNew() *New {
	tok := p.expect(NEW, "")
	typeName := p.expect(IDENT, "expected type name after Новый")
	node := &New{span: at(tok), TypeName: typeName.Literal}

	if p.match(LPAREN) {
		p.advance()
		if !p.match(RPAREN) {
			node.Args = p.parseArgs()
		}
		p.expect(RPAREN, "")
	}
	return node
}

func (p *Parser) parseArgs() []Node {
	args := []Node{p.parseExpression()}
	for p.match(COMMA) {
		p.advance()
		p.skipNewlines()
		args = append(args, p.parseExpression())
	}
	return args
}
