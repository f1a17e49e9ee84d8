// Package fuzztests houses Go fuzz harnesses for the read path
// (source -> parser -> unparse). They guard against panics and hangs on
// arbitrary input and check that regenerated source parses back to the
// same tree.
//
// Назначение: прогонять произвольные байты через FileSet, парсер и принтер.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.

package fuzztests
