package main

import (
	"fmt"
	"strings"

	"go.starlark.net/starlark"
)

// ---------------------------------------------------------------------------
// Frame filtering: substring match or a Starlark predicate
// ---------------------------------------------------------------------------

// matchesMethod reports whether the frame's method contains pattern.
// Pass-through frames match on their raw text.
func matchesMethod(f frame, pattern string) bool {
	if f.method != "" {
		return strings.Contains(f.method, pattern)
	}
	return strings.Contains(f.raw, pattern)
}

func filterMethod(frames []frame, pattern string) []frame {
	var kept []frame
	for _, f := range frames {
		if matchesMethod(f, pattern) {
			kept = append(kept, f)
		}
	}
	return kept
}

// frameEnv binds one frame's fields for a --where expression.
func frameEnv(f frame) starlark.StringDict {
	return starlark.StringDict{
		"method":   starlark.String(f.method),
		"location": starlark.String(f.location),
		"internal": starlark.Bool(f.internal),
		"raw":      starlark.String(f.raw),
	}
}

// filterWhere keeps the frames for which expr evaluates truthy.
func filterWhere(frames []frame, expr string) ([]frame, error) {
	thread := &starlark.Thread{Name: "filter"}
	var kept []frame
	for _, f := range frames {
		v, err := starlark.Eval(thread, "--where", expr, frameEnv(f))
		if err != nil {
			return nil, fmt.Errorf("eval %q: %w", expr, err)
		}
		if v.Truth() {
			kept = append(kept, f)
		}
	}
	return kept, nil
}
