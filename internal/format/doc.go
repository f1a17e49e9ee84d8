// Package format regenerates Python source text from a pyast tree.
//
// Назначение: unparse после переписывания дерева. Вывод перечитывается
// парсером в структурно равное дерево, но не обязан совпадать с исходником
// побайтно: комментарии и исходное форматирование не сохраняются.
// Не делает: IO.
// Зависимости: internal/pyast.
package format
