// Package format re-indents scripted-language documents.
//
// Назначение: канонические отступы по структуре блоков и нормализация пробелов
// вокруг запятых. Не делает: переноса строк и изменения содержимого строк.
// Зависимости: internal/lexer.
package format
