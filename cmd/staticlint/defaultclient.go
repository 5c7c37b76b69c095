package main

import (
	"go/ast"
	"strings"

	"golang.org/x/tools/go/analysis"
)

// DefaultClientAnalyzer reports requests sent through the net/http package
// level client (http.Get, http.Post, http.Head, http.PostForm,
// http.DefaultClient), which has no timeout. API calls go through a
// configured *http.Client instead.
var DefaultClientAnalyzer = &analysis.Analyzer{
	Name: "defaultclient",
	Doc:  "check for requests sent through the net/http default client",
	Run:  run,
}

// defaultClientUses are the net/http identifiers backed by http.DefaultClient.
var defaultClientUses = map[string]bool{
	"Get":           true,
	"Post":          true,
	"Head":          true,
	"PostForm":      true,
	"DefaultClient": true,
}

// run implements DefaultClientAnalyzer. Test files are skipped.
func run(pass *analysis.Pass) (interface{}, error) {
	for _, file := range pass.Files {
		if strings.HasSuffix(pass.Fset.Position(file.Package).Filename, "_test.go") {
			continue
		}

		ast.Inspect(file, func(node ast.Node) bool {
			sel, ok := node.(*ast.SelectorExpr)
			if !ok || !defaultClientUses[sel.Sel.Name] {
				return true
			}

			obj := pass.TypesInfo.Uses[sel.Sel]
			if obj == nil || obj.Pkg() == nil || obj.Pkg().Path() != "net/http" {
				return true
			}
			// package level only; methods and fields have no parent scope
			if obj.Parent() == obj.Pkg().Scope() {
				pass.Reportf(sel.Pos(), "defaultclient http.%s uses the default client without a timeout", sel.Sel.Name)
			}
			return true
		})
	}
	return nil, nil
}
