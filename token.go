package bslcheck

// TokenType is the type of token (keyword, identifier, literal, operator,
// delimiter, comment, annotation, preprocessor line, end of input).
type TokenType string

// Definition of token types
const (
	// Special tokens
	EOF     TokenType = "EOF"
	NEWLINE TokenType = "NEWLINE"
	COMMENT TokenType = "COMMENT"

	// Identifiers + literals
	IDENT  TokenType = "IDENT"
	STRING TokenType = "STRING"
	NUMBER TokenType = "NUMBER"
	DATE   TokenType = "DATE"

	// Annotations (&НаСервере, &НаКлиенте, ...)
	ANNOTATION TokenType = "ANNOTATION"

	// Preprocessor lines. Directives are tokenized for round-trip fidelity
	// but never evaluated; unrecognized directives classify as PP_IF.
	PP_IF    TokenType = "PP_IF"
	PP_ELSE  TokenType = "PP_ELSE"
	PP_ENDIF TokenType = "PP_ENDIF"

	// Keywords - procedures and functions
	PROCEDURE     TokenType = "PROCEDURE"     // Процедура
	FUNCTION      TokenType = "FUNCTION"      // Функция
	END_PROCEDURE TokenType = "END_PROCEDURE" // КонецПроцедуры
	END_FUNCTION  TokenType = "END_FUNCTION"  // КонецФункции

	// Keywords - control flow
	IF       TokenType = "IF"       // Если
	THEN     TokenType = "THEN"     // Тогда
	ELSIF    TokenType = "ELSIF"    // ИначеЕсли
	ELSE     TokenType = "ELSE"     // Иначе
	END_IF   TokenType = "END_IF"   // КонецЕсли
	FOR      TokenType = "FOR"      // Для
	EACH     TokenType = "EACH"     // Каждого
	IN       TokenType = "IN"       // Из
	TO       TokenType = "TO"       // По
	DO       TokenType = "DO"       // Цикл
	END_DO   TokenType = "END_DO"   // КонецЦикла
	WHILE    TokenType = "WHILE"    // Пока
	TRY      TokenType = "TRY"      // Попытка
	EXCEPT   TokenType = "EXCEPT"   // Исключение
	END_TRY  TokenType = "END_TRY"  // КонецПопытки
	BREAK    TokenType = "BREAK"    // Прервать
	CONTINUE TokenType = "CONTINUE" // Продолжить
	RAISE    TokenType = "RAISE"    // ВызватьИсключение

	// Keywords - variables and objects
	VAR    TokenType = "VAR"    // Перем
	VAL    TokenType = "VAL"    // Знач
	NEW    TokenType = "NEW"    // Новый
	RETURN TokenType = "RETURN" // Возврат
	EXPORT TokenType = "EXPORT" // Экспорт

	// Keywords - async
	ASYNC TokenType = "ASYNC" // Асинх
	AWAIT TokenType = "AWAIT" // Ждать

	// Keywords - logical operators
	AND TokenType = "AND" // И
	OR  TokenType = "OR"  // ИЛИ
	NOT TokenType = "NOT" // НЕ

	// Keywords - literals
	TRUE      TokenType = "TRUE"      // Истина
	FALSE     TokenType = "FALSE"     // Ложь
	UNDEFINED TokenType = "UNDEFINED" // Неопределено

	// Operators
	PLUS     TokenType = "+"
	MINUS    TokenType = "-"
	ASTERISK TokenType = "*"
	SLASH    TokenType = "/"
	PERCENT  TokenType = "%"
	ASSIGN   TokenType = "="
	NOT_EQ   TokenType = "<>"
	LT       TokenType = "<"
	GT       TokenType = ">"
	LE       TokenType = "<="
	GE       TokenType = ">="
	QUESTION TokenType = "?"

	// Delimiters
	SEMICOLON TokenType = ";"
	COMMA     TokenType = ","
	DOT       TokenType = "."
	LPAREN    TokenType = "("
	RPAREN    TokenType = ")"
	LBRACKET  TokenType = "["
	RBRACKET  TokenType = "]"
	PIPE      TokenType = "|"
)

// Token is a classified, positioned unit of lexical input. Line and Col are
// 1-indexed. Literal keeps the original spelling even for keywords, which are
// matched case-insensitively.
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Col     int
}

// keywords maps the lowercased spelling of every keyword to its token type.
// BSL keywords can be written in any case: Перем, перем, ПЕРЕМ, ПеРеМ.
var keywords = map[string]TokenType{
	"процедура":         PROCEDURE,
	"функция":           FUNCTION,
	"конецпроцедуры":    END_PROCEDURE,
	"конецфункции":      END_FUNCTION,
	"если":              IF,
	"тогда":             THEN,
	"иначеесли":         ELSIF,
	"иначе":             ELSE,
	"конецесли":         END_IF,
	"для":               FOR,
	"каждого":           EACH,
	"из":                IN,
	"по":                TO,
	"цикл":              DO,
	"конеццикла":        END_DO,
	"пока":              WHILE,
	"попытка":           TRY,
	"исключение":        EXCEPT,
	"конецпопытки":      END_TRY,
	"прервать":          BREAK,
	"продолжить":        CONTINUE,
	"вызватьисключение": RAISE,
	"перем":             VAR,
	"знач":              VAL,
	"новый":             NEW,
	"возврат":           RETURN,
	"экспорт":           EXPORT,
	"асинх":             ASYNC,
	"ждать":             AWAIT,
	"и":                 AND,
	"или":               OR,
	"не":                NOT,
	"истина":            TRUE,
	"ложь":              FALSE,
	"неопределено":      UNDEFINED,
}

// operators maps operator spellings to token types. Two-character operators
// are preferred greedily over their one-character prefixes.
var operators = map[string]TokenType{
	"+":  PLUS,
	"-":  MINUS,
	"*":  ASTERISK,
	"/":  SLASH,
	"%":  PERCENT,
	"=":  ASSIGN,
	"<>": NOT_EQ,
	"<":  LT,
	">":  GT,
	"<=": LE,
	">=": GE,
	"?":  QUESTION,
}

var delimiters = map[rune]TokenType{
	';': SEMICOLON,
	',': COMMA,
	'.': DOT,
	'(': LPAREN,
	')': RPAREN,
	'[': LBRACKET,
	']': RBRACKET,
	'|': PIPE,
}

var keywordTypes = func() map[TokenType]bool {
	m := make(map[TokenType]bool, len(keywords))
	for _, tt := range keywords {
		m[tt] = true
	}
	return m
}()

// IsKeyword reports whether the token is a keyword of any group.
func (t Token) IsKeyword() bool {
	return keywordTypes[t.Type]
}

func (t Token) String() string {
	return string(t.Type) + "(" + t.Literal + ")"
}
