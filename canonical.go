package main

import "strings"

// ---------------------------------------------------------------------------
// Trace canonicalization
// ---------------------------------------------------------------------------

type canonicalizer struct {
	rec             *recognizer
	keepInternalRun bool
}

func newCanonicalizer(cfg *config) *canonicalizer {
	return &canonicalizer{
		rec:             newRecognizer(cfg.InternalMarkers),
		keepInternalRun: cfg.KeepInternalRun,
	}
}

// parseTrace splits a raw trace into recognized frames, dropping blank lines.
// Input order is preserved.
func (c *canonicalizer) parseTrace(trace string) []frame {
	var frames []frame
	for _, line := range strings.Split(trace, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		frames = append(frames, c.rec.recognize(line))
	}
	return frames
}

// trimInternalRun drops all but the last frame of a leading run of
// runtime/library frames. The survivor keeps the context of how application
// code was entered. A trace that is internal throughout is left alone.
func trimInternalRun(frames []frame) []frame {
	k := 0
	for k < len(frames) && frames[k].internal {
		k++
	}
	if k == 0 || k == len(frames) {
		return frames
	}
	return frames[k-1:]
}

// canonicalize reduces a raw multi-line trace to its compact form. An absent
// trace yields an empty string; unrecognized lines pass through verbatim.
func (c *canonicalizer) canonicalize(trace string) string {
	frames := c.parseTrace(trace)
	if !c.keepInternalRun {
		frames = trimInternalRun(frames)
	}
	rendered := make([]string, len(frames))
	for i, f := range frames {
		rendered[i] = f.render()
	}
	return strings.Join(rendered, "\n")
}
