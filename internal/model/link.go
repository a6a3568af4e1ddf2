package model

// ProcessedLink представляет готовую к отображению ссылку с именем файла и прокси-вариантами.
type ProcessedLink struct {
	Original      string `json:"original"`
	Filename      string `json:"filename"`
	CDNURL        string `json:"cdn_url"`
	CloudflareURL string `json:"cloudflare_url"`
}

// NormalizeResult результат разбора вставленного текста.
type NormalizeResult struct {
	Links        []string `json:"links"`
	DecodedCount int      `json:"decoded_count"`
}
