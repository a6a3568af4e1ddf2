package links_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/Totarae/MultiLinkProxy/internal/links"
)

func benchmarkInput(n int) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			sb.WriteString("https://dl.example.com/dl/eyJ1cmwiOiJodHRwczovL2EuY29tL2ZpbGUuemlwIn0=\n")
			continue
		}
		fmt.Fprintf(&sb, "https://a.com/files/%d/archive.tar.gz\n", i)
	}
	return sb.String()
}

func BenchmarkNormalize(b *testing.B) {
	raw := benchmarkInput(500)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := links.Normalize(raw); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkGenerate(b *testing.B) {
	res, err := links.Normalize(benchmarkInput(500))
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := links.Generate(res.Links); err != nil {
			b.Fatal(err)
		}
	}
}
