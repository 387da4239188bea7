// Command equalvet checks equal directives without generating code.
package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"github.com/cmmoran/equalgen/internal/analyzer"
)

func main() {
	singlechecker.Main(analyzer.Analyzer)
}
