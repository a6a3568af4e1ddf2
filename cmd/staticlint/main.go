// Package main запускает multichecker для проекта.
//
// Состав:
//   - анализаторы go/analysis/passes: shadow, structtag, nilness, printf, errorsas, unusedresult
//   - все SA-анализаторы staticcheck
//   - S1000 из simple и U1000 (unused)
//   - публичный анализатор bodyclose
//   - собственный анализатор noexit (os.Exit и log.Fatal в main.main)
//
// Запуск:
//
//	go run ./cmd/staticlint ./...
package main

import (
	"strings"

	"github.com/timakin/bodyclose/passes/bodyclose"
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/multichecker"
	"golang.org/x/tools/go/analysis/passes/errorsas"
	"golang.org/x/tools/go/analysis/passes/nilness"
	"golang.org/x/tools/go/analysis/passes/printf"
	"golang.org/x/tools/go/analysis/passes/shadow"
	"golang.org/x/tools/go/analysis/passes/structtag"
	"golang.org/x/tools/go/analysis/passes/unusedresult"
	"honnef.co/go/tools/analysis/lint"
	"honnef.co/go/tools/simple"
	"honnef.co/go/tools/staticcheck"
	"honnef.co/go/tools/unused"

	"github.com/Totarae/MultiLinkProxy/cmd/staticlint/noexit"
)

func main() {
	multichecker.Main(analyzers()...)
}

func analyzers() []*analysis.Analyzer {
	result := []*analysis.Analyzer{
		shadow.Analyzer,
		structtag.Analyzer,
		nilness.Analyzer,
		printf.Analyzer,
		errorsas.Analyzer,
		unusedresult.Analyzer,
	}

	result = append(result, byPrefix(staticcheck.Analyzers, "SA")...)
	if a := byName(simple.Analyzers, "S1000"); a != nil {
		result = append(result, a) // select с одним case
	}
	result = append(result, unused.Analyzer.Analyzer)

	result = append(result, bodyclose.Analyzer, noexit.NewAnalyzer())
	return result
}

func byPrefix(set []*lint.Analyzer, prefix string) []*analysis.Analyzer {
	var out []*analysis.Analyzer
	for _, a := range set {
		if strings.HasPrefix(a.Analyzer.Name, prefix) {
			out = append(out, a.Analyzer)
		}
	}
	return out
}

func byName(set []*lint.Analyzer, name string) *analysis.Analyzer {
	for _, a := range set {
		if a.Analyzer.Name == name {
			return a.Analyzer
		}
	}
	return nil
}
