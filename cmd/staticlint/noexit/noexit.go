// Package noexit запрещает завершать процесс прямо из main.main:
// os.Exit и log.Fatal* не выполняют отложенные вызовы, поэтому логгер
// не сбрасывается, а хранилища не закрываются.
package noexit

import (
	"go/ast"
	"go/types"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
	"golang.org/x/tools/go/types/typeutil"
)

// forbidden полные имена запрещённых функций.
var forbidden = map[string]bool{
	"os.Exit":     true,
	"log.Fatal":   true,
	"log.Fatalf":  true,
	"log.Fatalln": true,
}

// Analyzer сообщает о вызовах os.Exit и log.Fatal* в функции main пакета main.
var Analyzer = &analysis.Analyzer{
	Name:     "noexit",
	Doc:      "reports os.Exit and log.Fatal calls in main.main",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

// NewAnalyzer возвращает анализатор noexit.
func NewAnalyzer() *analysis.Analyzer {
	return Analyzer
}

func run(pass *analysis.Pass) (any, error) {
	if pass.Pkg.Name() != "main" {
		return nil, nil
	}

	insp := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)
	insp.Preorder([]ast.Node{(*ast.FuncDecl)(nil)}, func(n ast.Node) {
		fn := n.(*ast.FuncDecl)
		if fn.Recv != nil || fn.Name.Name != "main" || fn.Body == nil {
			return
		}

		ast.Inspect(fn.Body, func(n ast.Node) bool {
			// замыкания внутри main выполняются позже и не считаются
			if _, ok := n.(*ast.FuncLit); ok {
				return false
			}
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}
			callee, ok := typeutil.Callee(pass.TypesInfo, call).(*types.Func)
			if ok && forbidden[callee.FullName()] {
				pass.Reportf(call.Pos(), "%s called in main.main, return an error from run instead", callee.FullName())
			}
			return true
		})
	})
	return nil, nil
}
