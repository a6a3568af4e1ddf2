package links

import (
	"net/url"
	"strings"
)

// QueryEscape кодирует пробел как '+' и экранирует !'()*, а encodeURIComponent нет.
var componentReplacer = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeComponent кодирует строку так же, как encodeURIComponent в браузере:
// без изменений остаются только A-Z a-z 0-9 - _ . ! ~ * ' ( ).
func EncodeComponent(s string) string {
	return componentReplacer.Replace(url.QueryEscape(s))
}
