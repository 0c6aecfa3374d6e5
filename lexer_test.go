package bslcheck

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

// lexOne returns the first token of the filtered stream.
func lexOne(t *testing.T, src string) Token {
	t.Helper()
	tokens, err := NewLexer(src).TokenizeFiltered()
	be.Err(t, err, nil)
	be.True(t, len(tokens) >= 1)
	return tokens[0]
}

func lexAll(t *testing.T, src string) []Token {
	t.Helper()
	tokens, err := NewLexer(src).TokenizeFiltered()
	be.Err(t, err, nil)
	return tokens
}

func TestKeywordsAreCaseInsensitive(t *testing.T) {
	for _, spelling := range []string{"Процедура", "процедура", "ПРОЦЕДУРА", "ПрОцЕдУрА"} {
		tok := lexOne(t, spelling)
		be.Equal(t, tok.Type, PROCEDURE)
		// The original spelling is preserved in the literal.
		be.Equal(t, tok.Literal, spelling)
	}
}

func TestKeywords(t *testing.T) {
	tests := []struct {
		input string
		typ   TokenType
	}{
		{"Функция", FUNCTION},
		{"КонецФункции", END_FUNCTION},
		{"КонецПроцедуры", END_PROCEDURE},
		{"Если", IF},
		{"Тогда", THEN},
		{"ИначеЕсли", ELSIF},
		{"Иначе", ELSE},
		{"КонецЕсли", END_IF},
		{"Для", FOR},
		{"Каждого", EACH},
		{"Из", IN},
		{"По", TO},
		{"Цикл", DO},
		{"КонецЦикла", END_DO},
		{"Пока", WHILE},
		{"Попытка", TRY},
		{"Исключение", EXCEPT},
		{"КонецПопытки", END_TRY},
		{"Прервать", BREAK},
		{"Продолжить", CONTINUE},
		{"ВызватьИсключение", RAISE},
		{"Перем", VAR},
		{"Знач", VAL},
		{"Новый", NEW},
		{"Возврат", RETURN},
		{"Экспорт", EXPORT},
		{"Асинх", ASYNC},
		{"Ждать", AWAIT},
		{"И", AND},
		{"ИЛИ", OR},
		{"НЕ", NOT},
		{"Истина", TRUE},
		{"Ложь", FALSE},
		{"Неопределено", UNDEFINED},
	}

	for _, tt := range tests {
		be.Equal(t, lexOne(t, tt.input).Type, tt.typ)
	}
}

func TestOperators(t *testing.T) {
	tests := []struct {
		input string
		typ   TokenType
	}{
		{"+", PLUS},
		{"-", MINUS},
		{"*", ASTERISK},
		{"/", SLASH},
		{"%", PERCENT},
		{"=", ASSIGN},
		{"<>", NOT_EQ},
		{"<", LT},
		{">", GT},
		{"<=", LE},
		{">=", GE},
		{"?", QUESTION},
	}

	for _, tt := range tests {
		tok := lexOne(t, tt.input)
		be.Equal(t, tok.Type, tt.typ)
		be.Equal(t, tok.Literal, tt.input)
	}
}

func TestDelimiters(t *testing.T) {
	tests := []struct {
		input string
		typ   TokenType
	}{
		{";", SEMICOLON},
		{",", COMMA},
		{".", DOT},
		{"(", LPAREN},
		{")", RPAREN},
		{"[", LBRACKET},
		{"]", RBRACKET},
		{"|", PIPE},
	}

	for _, tt := range tests {
		be.Equal(t, lexOne(t, tt.input).Type, tt.typ)
	}
}

func TestIdentifierWithMixedScripts(t *testing.T) {
	tok := lexOne(t, "Таблица_1с")
	be.Equal(t, tok.Type, IDENT)
	be.Equal(t, tok.Literal, "Таблица_1с")
}

func TestStringLiteral(t *testing.T) {
	tok := lexOne(t, `"привет"`)
	be.Equal(t, tok.Type, STRING)
	be.Equal(t, tok.Literal, "привет")
}

func TestStringLiteralEscapedQuote(t *testing.T) {
	tok := lexOne(t, `"а""б"`)
	be.Equal(t, tok.Type, STRING)
	be.Equal(t, tok.Literal, `а"б`)
}

func TestStringLiteralMultiline(t *testing.T) {
	tok := lexOne(t, "\"первая\nвторая\"")
	be.Equal(t, tok.Type, STRING)
	be.Equal(t, tok.Literal, "первая\nвторая")
}

func TestUnterminatedStringReportsOpeningQuote(t *testing.T) {
	_, err := NewLexer("а = \"привет").TokenizeFiltered()
	be.Err(t, err)

	lexErr, ok := err.(*LexError)
	be.True(t, ok)
	be.Equal(t, lexErr.Msg, "unterminated string literal")
	be.Equal(t, lexErr.Line, 1)
	be.Equal(t, lexErr.Col, 5)
}

func TestDateLiteral(t *testing.T) {
	tok := lexOne(t, "'20240115'")
	be.Equal(t, tok.Type, DATE)
	be.Equal(t, tok.Literal, "20240115")
}

func TestDateLiteralRejectsLetters(t *testing.T) {
	_, err := NewLexer("'2024ab'").TokenizeFiltered()
	be.Err(t, err)
	be.True(t, strings.Contains(err.Error(), "invalid date literal"))
}

func TestNumberLiterals(t *testing.T) {
	be.Equal(t, lexOne(t, "42").Literal, "42")
	be.Equal(t, lexOne(t, "3.14").Literal, "3.14")
}

// A dot not followed by a digit belongs to the next token, so method calls on
// number literals lex cleanly.
func TestNumberDotRule(t *testing.T) {
	tokens := lexAll(t, "1.ВСтроку")
	be.Equal(t, tokens[0].Type, NUMBER)
	be.Equal(t, tokens[0].Literal, "1")
	be.Equal(t, tokens[1].Type, DOT)
	be.Equal(t, tokens[2].Type, IDENT)
}

func TestCommentRetainedUnfiltered(t *testing.T) {
	tokens, err := NewLexer("а = 1; // пояснение").Tokenize()
	be.Err(t, err, nil)

	var comment *Token
	for i := range tokens {
		if tokens[i].Type == COMMENT {
			comment = &tokens[i]
		}
	}
	be.True(t, comment != nil)
	be.Equal(t, comment.Literal, "пояснение")
}

func TestFilteredDropsNewlinesAndComments(t *testing.T) {
	tokens := lexAll(t, "а = 1; // пояснение\nб = 2;")
	for _, tok := range tokens {
		be.True(t, tok.Type != NEWLINE)
		be.True(t, tok.Type != COMMENT)
	}
}

func TestAnnotation(t *testing.T) {
	tok := lexOne(t, "&НаСервере")
	be.Equal(t, tok.Type, ANNOTATION)
	be.Equal(t, tok.Literal, "&НаСервере")
}

func TestAnnotationStopsAtUnderscore(t *testing.T) {
	tokens := lexAll(t, "&Анн_отация")
	be.Equal(t, tokens[0].Type, ANNOTATION)
	be.Equal(t, tokens[0].Literal, "&Анн")
	be.Equal(t, tokens[1].Type, IDENT)
	be.Equal(t, tokens[1].Literal, "_отация")
}

func TestPreprocessorClassification(t *testing.T) {
	tests := []struct {
		input string
		typ   TokenType
	}{
		{"#Если Сервер Тогда", PP_IF},
		{"#Область Служебные", PP_IF},
		{"#Иначе", PP_ELSE},
		{"#КонецЕсли", PP_ENDIF},
		{"#КонецОбласти", PP_ENDIF},
	}

	for _, tt := range tests {
		tok := lexOne(t, tt.input)
		be.Equal(t, tok.Type, tt.typ)
		be.Equal(t, tok.Literal, tt.input)
	}
}

func TestByteOrderMarkStripped(t *testing.T) {
	tok := lexOne(t, "\uFEFFПерем А;")
	be.Equal(t, tok.Type, VAR)
	be.Equal(t, tok.Line, 1)
	be.Equal(t, tok.Col, 1)
}

func TestPositionsAreRuneBased(t *testing.T) {
	tokens := lexAll(t, "первая = вторая;")
	be.Equal(t, tokens[0].Col, 1)
	be.Equal(t, tokens[1].Col, 8)  // =
	be.Equal(t, tokens[2].Col, 10) // вторая
}

func TestUnexpectedCharacter(t *testing.T) {
	_, err := NewLexer("а = 1 $ 2;").TokenizeFiltered()
	be.Err(t, err)

	lexErr, ok := err.(*LexError)
	be.True(t, ok)
	be.True(t, strings.Contains(lexErr.Msg, "unexpected character"))
	be.Equal(t, lexErr.Col, 7)
}

func TestEOFTokenAlwaysLast(t *testing.T) {
	tokens := lexAll(t, "")
	be.Equal(t, len(tokens), 1)
	be.Equal(t, tokens[0].Type, EOF)

	tokens = lexAll(t, "а = 1;")
	be.Equal(t, tokens[len(tokens)-1].Type, EOF)
}
