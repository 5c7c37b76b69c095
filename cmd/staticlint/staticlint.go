// Command staticlint runs the linters the dashboard is checked with:
// a selection of golang.org/x/tools passes, every staticcheck SA check plus
// the checks listed in config.json, bodyclose, errcheck, go-critic and the
// defaultclient analyzer.
//
//	go build -o cmd/staticlint/staticlint ./cmd/staticlint
//	cmd/staticlint/staticlint ./...
package main

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-critic/go-critic/checkers/analyzer"
	"github.com/kisielk/errcheck/errcheck"
	"github.com/timakin/bodyclose/passes/bodyclose"
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/multichecker"
	"golang.org/x/tools/go/analysis/passes/appends"
	"golang.org/x/tools/go/analysis/passes/assign"
	"golang.org/x/tools/go/analysis/passes/atomic"
	"golang.org/x/tools/go/analysis/passes/bools"
	"golang.org/x/tools/go/analysis/passes/composite"
	"golang.org/x/tools/go/analysis/passes/copylock"
	"golang.org/x/tools/go/analysis/passes/deepequalerrors"
	"golang.org/x/tools/go/analysis/passes/defers"
	"golang.org/x/tools/go/analysis/passes/errorsas"
	"golang.org/x/tools/go/analysis/passes/httpresponse"
	"golang.org/x/tools/go/analysis/passes/loopclosure"
	"golang.org/x/tools/go/analysis/passes/lostcancel"
	"golang.org/x/tools/go/analysis/passes/nilfunc"
	"golang.org/x/tools/go/analysis/passes/printf"
	"golang.org/x/tools/go/analysis/passes/shadow"
	"golang.org/x/tools/go/analysis/passes/sigchanyzer"
	"golang.org/x/tools/go/analysis/passes/stdmethods"
	"golang.org/x/tools/go/analysis/passes/structtag"
	"golang.org/x/tools/go/analysis/passes/testinggoroutine"
	"golang.org/x/tools/go/analysis/passes/tests"
	"golang.org/x/tools/go/analysis/passes/timeformat"
	"golang.org/x/tools/go/analysis/passes/unmarshal"
	"golang.org/x/tools/go/analysis/passes/unreachable"
	"golang.org/x/tools/go/analysis/passes/unusedresult"
	"golang.org/x/tools/go/analysis/passes/waitgroup"
	"honnef.co/go/tools/analysis/lint"
	"honnef.co/go/tools/quickfix"
	"honnef.co/go/tools/simple"
	"honnef.co/go/tools/staticcheck"
	"honnef.co/go/tools/stylecheck"
)

// Config is the file, next to the executable, listing the non-SA
// staticcheck checks to enable.
const Config = `config.json`

// ConfigData is the content of Config.
type ConfigData struct {
	Staticcheck []string
}

// passes are the x/tools analyzers relevant to a concurrent HTTP service
// with JSON payloads and table-driven tests.
var passes = []*analysis.Analyzer{
	// concurrency
	atomic.Analyzer,
	copylock.Analyzer,
	loopclosure.Analyzer,
	lostcancel.Analyzer,
	sigchanyzer.Analyzer,
	testinggoroutine.Analyzer,
	waitgroup.Analyzer,

	// http and json
	httpresponse.Analyzer,
	structtag.Analyzer,
	unmarshal.Analyzer,

	// errors and formatting
	errorsas.Analyzer,
	deepequalerrors.Analyzer,
	printf.Analyzer,
	timeformat.Analyzer,

	// general correctness
	appends.Analyzer,
	assign.Analyzer,
	bools.Analyzer,
	composite.Analyzer,
	defers.Analyzer,
	nilfunc.Analyzer,
	shadow.Analyzer,
	stdmethods.Analyzer,
	tests.Analyzer,
	unreachable.Analyzer,
	unusedresult.Analyzer,
}

// selectStaticcheck returns every SA analyzer of set and those listed in enabled.
func selectStaticcheck(set []*lint.Analyzer, enabled map[string]bool) []*analysis.Analyzer {
	var out []*analysis.Analyzer
	for _, v := range set {
		if strings.HasPrefix(v.Analyzer.Name, "SA") || enabled[v.Analyzer.Name] {
			out = append(out, v.Analyzer)
		}
	}
	return out
}

// checks assembles the full analyzer list.
func checks(enabled map[string]bool) []*analysis.Analyzer {
	all := append([]*analysis.Analyzer{}, passes...)
	for _, set := range [][]*lint.Analyzer{staticcheck.Analyzers, stylecheck.Analyzers, simple.Analyzers, quickfix.Analyzers} {
		all = append(all, selectStaticcheck(set, enabled)...)
	}
	all = append(all, bodyclose.Analyzer, errcheck.Analyzer, analyzer.Analyzer)
	return append(all, DefaultClientAnalyzer)
}

// loadChecks reads the enabled checks from Config. A missing or broken file
// leaves only the SA checks on.
func loadChecks() map[string]bool {
	enabled := make(map[string]bool)

	appfile, err := os.Executable()
	if err != nil {
		log.Printf("staticlint: %v", err)
		return enabled
	}
	data, err := os.ReadFile(filepath.Join(filepath.Dir(appfile), Config))
	if err != nil {
		log.Printf("staticlint: %v, only SA checks enabled", err)
		return enabled
	}

	var cfg ConfigData
	if err = json.Unmarshal(data, &cfg); err != nil {
		log.Printf("staticlint: parse %s: %v", Config, err)
		return enabled
	}
	for _, v := range cfg.Staticcheck {
		enabled[v] = true
	}
	return enabled
}

func main() {
	multichecker.Main(checks(loadChecks())...)
}
