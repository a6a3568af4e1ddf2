// Package links разбирает вставленные пользователем ссылки и строит для них прокси-варианты.
package links

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Totarae/MultiLinkProxy/internal/model"
)

// DLMarker сегмент пути, после которого в обёрнутой ссылке идёт base64-полезная нагрузка.
const DLMarker = "/dl/"

// ErrInputEmpty возвращается, когда во входных данных нет ни одной непустой строки.
var ErrInputEmpty = errors.New("no valid links found")

var (
	errEmptyPayload = errors.New("empty payload")
	errNoURLField   = errors.New("url field is missing or empty")
)

// Normalize разбивает текст на строки и для каждой строки получает пригодный URL.
// Строка, которую не удалось декодировать, возвращается без изменений.
func Normalize(raw string) (model.NormalizeResult, error) {
	lines := SplitLines(raw)
	if len(lines) == 0 {
		return model.NormalizeResult{}, ErrInputEmpty
	}

	result := model.NormalizeResult{Links: make([]string, 0, len(lines))}
	for _, line := range lines {
		resolved, decoded := ResolveLine(line)
		if decoded {
			result.DecodedCount++
		}
		result.Links = append(result.Links, resolved)
	}
	return result, nil
}

// SplitLines возвращает непустые строки текста без окружающих пробелов.
func SplitLines(raw string) []string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// ResolveLine разбирает одну строку. Второе значение true только если ссылку удалось раскодировать.
func ResolveLine(line string) (string, bool) {
	switch {
	case strings.Contains(line, DLMarker):
		_, payload, _ := strings.Cut(line, DLMarker)
		target, err := DecodeWrapped(payload)
		if err != nil {
			return line, false
		}
		return target, true
	case strings.HasPrefix(line, "http"):
		return line, false
	default:
		target, err := DecodeWrapped(line)
		if err != nil {
			return line, false
		}
		return target, true
	}
}

// DecodeWrapped раскодирует base64 → UTF-8 → JSON-объект и возвращает поле url.
func DecodeWrapped(payload string) (string, error) {
	if payload == "" {
		return "", errEmptyPayload
	}

	data, err := decodeBase64(payload)
	if err != nil {
		return "", fmt.Errorf("base64 decode: %w", err)
	}
	if !utf8.Valid(data) {
		return "", errors.New("payload is not valid UTF-8")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return "", fmt.Errorf("json decode: %w", err)
	}

	rawURL, ok := fields["url"]
	if !ok {
		return "", errNoURLField
	}
	var target string
	if err := json.Unmarshal(rawURL, &target); err != nil || target == "" {
		return "", errNoURLField
	}
	return target, nil
}

// decodeBase64 ведёт себя как atob в браузере: пробелы игнорируются, паддинг необязателен.
func decodeBase64(s string) ([]byte, error) {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\f', '\r':
			return -1
		}
		return r
	}, s)

	if len(s)%4 == 0 {
		s = strings.TrimSuffix(s, "=")
		s = strings.TrimSuffix(s, "=")
	}
	if s == "" {
		return nil, errEmptyPayload
	}
	return base64.RawStdEncoding.DecodeString(s)
}
