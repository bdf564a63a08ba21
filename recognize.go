package main

import (
	"regexp"
	"strings"
)

// ---------------------------------------------------------------------------
// Frame model
// ---------------------------------------------------------------------------

// frame is one logical entry in a stack trace. method and location are empty
// when no grammar matched; raw always holds the trimmed source line.
type frame struct {
	raw      string
	method   string
	location string
	internal bool
	grammar  string // "vm", "js", "js-annot", "" for pass-through
}

// render produces the canonical one-line form of a frame.
func (f frame) render() string {
	if f.method == "" {
		return f.raw
	}
	return f.method + " " + f.location
}

// ---------------------------------------------------------------------------
// Line grammars
// ---------------------------------------------------------------------------

// Tried in order, first match wins. Each captures (method, location).
// Adding a fourth format is a pure append.
type grammar struct {
	name string
	re   *regexp.Regexp
}

var grammars = []grammar{
	// "#1      main.<anonymous closure> (chrome-extension://abcd1234/test/foo.dart:35:9)"
	{"vm", regexp.MustCompile(`^#\d+\s+(.+?)\s+\((\S+)\)$`)},
	// "at Object.wrap_call$0 (chrome-extension://abcd1234/foo.dart.js:18:15)"
	{"js", regexp.MustCompile(`^at (\S+) \((\S+)\)$`)},
	// "at Object.wrap_call$0 [as call$0] (chrome-extension://abcd1234/foo.dart.js:18:15)"
	{"js-annot", regexp.MustCompile(`^at (\S+) \[[^\]]*\] \((\S+)\)$`)},
}

const (
	anonMarker = "<anonymous closure>"
	anonShort  = "<anon>"
)

// originPrefixRe matches an extension/package origin URI such as
// "chrome-extension://abcd1234/"; only the path after it is meaningful.
var originPrefixRe = regexp.MustCompile(`^[a-z][a-z0-9+.-]*://[^/]+/`)

// defaultInternalMarkers classify a location as runtime/library code.
var defaultInternalMarkers = []string{"dart:", "package:"}

// ---------------------------------------------------------------------------
// Recognizer
// ---------------------------------------------------------------------------

type recognizer struct {
	markers []string
}

func newRecognizer(extraMarkers []string) *recognizer {
	markers := make([]string, 0, len(defaultInternalMarkers)+len(extraMarkers))
	markers = append(markers, defaultInternalMarkers...)
	markers = append(markers, extraMarkers...)
	return &recognizer{markers: markers}
}

// recognize parses one trimmed, non-empty trace line. It never fails: a line
// matching no grammar comes back as a pass-through frame.
func (r *recognizer) recognize(line string) frame {
	for _, g := range grammars {
		m := g.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		location := originPrefixRe.ReplaceAllString(m[2], "")
		return frame{
			raw:      line,
			method:   strings.ReplaceAll(m[1], anonMarker, anonShort),
			location: location,
			internal: r.isInternal(location),
			grammar:  g.name,
		}
	}
	return frame{raw: line}
}

func (r *recognizer) isInternal(location string) bool {
	for _, marker := range r.markers {
		if strings.HasPrefix(location, marker) {
			return true
		}
	}
	return false
}
