package engine

import (
	"strings"

	"github.com/cmmoran/equalgen/internal/model"
)

// IsolationArg is the generate argument selecting the isolation mode.
const IsolationArg = "isolation"

// ResolveIsolation selects the isolation mode from the generate arguments.
// Missing or unrecognised values fall back to NonIsolated. The main member
// only exists when supported is true.
func ResolveIsolation(args []model.Arg, supported bool) model.Isolation {
	if mode, ok := lookupIsolation(args, supported); ok {
		return mode
	}
	return model.NonIsolated
}

func lookupIsolation(args []model.Arg, supported bool) (model.Isolation, bool) {
	for _, a := range args {
		if a.Key != IsolationArg {
			continue
		}
		switch strings.TrimPrefix(a.Value, ".") {
		case "nonisolated":
			return model.NonIsolated, true
		case "isolated":
			return model.ContextIsolated, true
		case "main":
			if supported {
				return model.MainContext, true
			}
		}
		return 0, false
	}
	return 0, false
}
