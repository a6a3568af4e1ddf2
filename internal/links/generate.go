package links

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/Totarae/MultiLinkProxy/internal/model"
)

// Шаблоны прокси-сервисов, закодированная ссылка дописывается в конец.
const (
	CDNProxyPrefix        = "https://cdn.ir/proxy/"
	CloudflareProxyPrefix = "https://cloudflare-proxy.com/v1/"
)

// UnknownFilename подставляется, когда имя файла не удалось извлечь.
const UnknownFilename = "unknown-file"

// Generate строит по ссылкам записи с именем файла и прокси-ссылками в исходном порядке.
func Generate(resolved []string) ([]model.ProcessedLink, error) {
	if len(resolved) == 0 {
		return nil, ErrInputEmpty
	}

	processed := make([]model.ProcessedLink, 0, len(resolved))
	for i, link := range resolved {
		processed = append(processed, model.ProcessedLink{
			Original:      link,
			Filename:      Filename(link, i),
			CDNURL:        CDNURL(link),
			CloudflareURL: CloudflareURL(link),
		})
	}
	return processed, nil
}

// CDNURL возвращает ссылку через CDN-прокси.
func CDNURL(link string) string {
	return CDNProxyPrefix + EncodeComponent(link)
}

// CloudflareURL возвращает ссылку через Cloudflare-прокси.
func CloudflareURL(link string) string {
	return CloudflareProxyPrefix + EncodeComponent(link)
}

// Filename извлекает имя файла из ссылки.
// Порядок: последний сегмент пути разобранного URL (в закодированном виде, как pathname
// в браузере), последний сегмент строки, unknown-file.
// Позиционное file-{i+1} используется только для пустой ссылки.
func Filename(link string, index int) string {
	link = strings.TrimSpace(link)
	if link == "" {
		return fmt.Sprintf("file-%d", index+1)
	}

	if u, err := url.Parse(link); err == nil && u.IsAbs() {
		if name := lastSegment(u.EscapedPath()); name != "" {
			return name
		}
	}

	if name := lastSegment(link); name != "" {
		return name
	}
	return UnknownFilename
}

func lastSegment(s string) string {
	parts := strings.Split(s, "/")
	for i := len(parts) - 1; i >= 0; i-- {
		if parts[i] != "" {
			return parts[i]
		}
	}
	return ""
}
