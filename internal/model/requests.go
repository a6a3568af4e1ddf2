package model

// DecodeRequest представляет структуру JSON-запроса на декодирование ссылок.
type DecodeRequest struct {
	Text string `json:"text"`
}

// GenerateRequest представляет структуру запроса на генерацию прокси-ссылок.
// Если Links пуст, используются ранее декодированные ссылки сессии, затем Text.
type GenerateRequest struct {
	Links []string `json:"links,omitempty"`
	Text  string   `json:"text,omitempty"`
}

// TabLink одна запись в ответе для выбранной вкладки.
type TabLink struct {
	ProcessedLink
	Index int    `json:"index"`
	URL   string `json:"url"`
}

// TabResponse ответ GET /api/links
type TabResponse struct {
	Tab   string    `json:"tab"`
	Items []TabLink `json:"items"`
}

// ThemeResponse ответ с текущей темой оформления.
type ThemeResponse struct {
	Theme string `json:"theme"`
}
