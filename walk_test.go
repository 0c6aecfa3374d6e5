package bslcheck

import (
	"fmt"
	"testing"

	"github.com/nalgeon/be"
)

func TestWalkVisitsEveryNodeKind(t *testing.T) {
	module := parseSource(t, `
Перем А;
Функция Ф(п = 1)
    Возврат ?(п > 0, -п, Неопределено);
КонецФункции
Асинх Процедура П()
    Ждать Ф(1);
КонецПроцедуры
Для и = 1 По 2 Цикл
    Прервать;
КонецЦикла;
Для Каждого эл Из Новый Массив Цикл
    Продолжить;
КонецЦикла;
Пока Истина Цикл
КонецЦикла;
Попытка
    Если А Тогда
    ИначеЕсли А Тогда
    Иначе
        А = объект.поле[0];
    КонецЕсли;
Исключение
    ВызватьИсключение "ошибка";
КонецПопытки;
Ф(1) + 2;
`)

	seen := map[string]bool{}
	Walk(module, func(n Node) bool {
		seen[fmt.Sprintf("%T", n)] = true
		return true
	})

	for _, want := range []string{
		"*bslcheck.Module", "*bslcheck.VarDecl", "*bslcheck.Function",
		"*bslcheck.Procedure", "*bslcheck.Param", "*bslcheck.Return",
		"*bslcheck.Ternary", "*bslcheck.Unary", "*bslcheck.Binary",
		"*bslcheck.Await", "*bslcheck.Call", "*bslcheck.For",
		"*bslcheck.ForEach", "*bslcheck.New", "*bslcheck.While",
		"*bslcheck.Try", "*bslcheck.If", "*bslcheck.Assign",
		"*bslcheck.Member", "*bslcheck.Index", "*bslcheck.Raise",
		"*bslcheck.Break", "*bslcheck.Continue", "*bslcheck.ExprStmt",
		"*bslcheck.Ident", "*bslcheck.Literal",
	} {
		be.True(t, seen[want])
	}
}

func TestWalkPruning(t *testing.T) {
	module := parseSource(t, `
Функция Ф()
    Возврат 1;
КонецФункции
а = 2;
`)

	var literals int
	Walk(module, func(n Node) bool {
		if _, ok := n.(*Function); ok {
			return false // skip the function subtree
		}
		if _, ok := n.(*Literal); ok {
			literals++
		}
		return true
	})
	be.Equal(t, literals, 1)
}

func TestWalkNilSafe(t *testing.T) {
	Walk(nil, func(n Node) bool { return true })
	Walk(&Return{}, func(n Node) bool { return true })
}
