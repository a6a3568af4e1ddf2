package model

import "fmt"

// Theme тема оформления интерфейса.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemePaper Theme = "paper"
)

// DefaultTheme используется, пока пользователь не переключал тему.
const DefaultTheme = ThemeDark

// Toggle возвращает противоположную тему.
func (t Theme) Toggle() Theme {
	if t == ThemePaper {
		return ThemeDark
	}
	return ThemePaper
}

// ParseTheme разбирает сохранённое значение темы.
func ParseTheme(s string) (Theme, error) {
	switch Theme(s) {
	case ThemeDark, ThemePaper:
		return Theme(s), nil
	case "":
		return DefaultTheme, nil
	}
	return "", fmt.Errorf("unknown theme %q", s)
}

// PreferenceEntry запись темы сессии в файле хранилища
type PreferenceEntry struct {
	SessionID string `json:"session_id"`
	Theme     Theme  `json:"theme"`
}
