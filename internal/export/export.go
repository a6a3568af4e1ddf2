// Package export формирует текст для копирования и выгрузки результатов по вкладкам.
package export

import (
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/Totarae/MultiLinkProxy/internal/model"
)

// Tab вкладка результатов, определяет какая ссылка показывается.
type Tab string

const (
	TabCDN        Tab = "cdn"
	TabCloudflare Tab = "cloudflare"
	TabOriginal   Tab = "original"
)

// ErrUnknownTab неизвестное имя вкладки.
var ErrUnknownTab = errors.New("unknown tab")

// ParseTab проверяет имя вкладки. Пустое значение означает cdn.
func ParseTab(s string) (Tab, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return TabCDN, nil
	}
	err := validation.Validate(s, validation.In(string(TabCDN), string(TabCloudflare), string(TabOriginal)))
	if err != nil {
		return "", fmt.Errorf("%w %q: %v", ErrUnknownTab, s, err)
	}
	return Tab(s), nil
}

// Pick возвращает ссылку, соответствующую вкладке.
func (t Tab) Pick(link model.ProcessedLink) string {
	switch t {
	case TabCloudflare:
		return link.CloudflareURL
	case TabOriginal:
		return link.Original
	default:
		return link.CDNURL
	}
}

// LinksOnly одна ссылка на строку.
func LinksOnly(links []model.ProcessedLink, tab Tab) string {
	parts := make([]string, 0, len(links))
	for _, l := range links {
		parts = append(parts, tab.Pick(l))
	}
	return strings.Join(parts, "\n")
}

// WithFilenames блоки "имя файла\nссылка", разделённые пустой строкой.
func WithFilenames(links []model.ProcessedLink, tab Tab) string {
	parts := make([]string, 0, len(links))
	for _, l := range links {
		parts = append(parts, Single(l, tab, true))
	}
	return strings.Join(parts, "\n\n")
}

// Format выбирает нужный вид выгрузки.
func Format(links []model.ProcessedLink, tab Tab, withFilenames bool) string {
	if withFilenames {
		return WithFilenames(links, tab)
	}
	return LinksOnly(links, tab)
}

// Single текст для копирования одной записи.
func Single(link model.ProcessedLink, tab Tab, withFilename bool) string {
	if withFilename {
		return link.Filename + "\n" + tab.Pick(link)
	}
	return tab.Pick(link)
}

// FileName имя предлагаемого для скачивания txt-файла.
func FileName(tab Tab, withFilenames bool) string {
	if withFilenames {
		return fmt.Sprintf("multi-link-proxy-%s-with-filenames.txt", tab)
	}
	return fmt.Sprintf("multi-link-proxy-%s-links-only.txt", tab)
}
