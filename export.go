package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/pprof/profile"
)

// ---------------------------------------------------------------------------
// pprof export
// ---------------------------------------------------------------------------

// splitLocation separates "test/foo.dart:35:9" into a file path and a line
// number. Up to two trailing :N suffixes (line, column) are peeled off; the
// column is discarded.
func splitLocation(location string) (string, int64) {
	file := location
	var nums []int64
	for i := 0; i < 2; i++ {
		idx := strings.LastIndex(file, ":")
		if idx < 0 {
			break
		}
		n, err := strconv.ParseInt(file[idx+1:], 10, 64)
		if err != nil {
			break
		}
		nums = append(nums, n)
		file = file[:idx]
	}
	if len(nums) == 0 {
		return location, 0
	}
	return file, nums[len(nums)-1]
}

// buildProfile encodes canonical frames as a single-sample pprof profile.
// Frame 0 of a trace is the innermost call, which matches pprof's leaf-first
// location order.
func buildProfile(frames []frame) *profile.Profile {
	p := &profile.Profile{
		SampleType: []*profile.ValueType{{Type: "frames", Unit: "count"}},
	}
	if len(frames) == 0 {
		return p
	}
	locs := make([]*profile.Location, 0, len(frames))
	for i, f := range frames {
		name := f.method
		file, line := "", int64(0)
		if name == "" {
			name = f.raw
		} else {
			file, line = splitLocation(f.location)
		}
		fn := &profile.Function{
			ID:       uint64(i + 1),
			Name:     name,
			Filename: file,
		}
		loc := &profile.Location{
			ID:   uint64(i + 1),
			Line: []profile.Line{{Function: fn, Line: line}},
		}
		p.Function = append(p.Function, fn)
		p.Location = append(p.Location, loc)
		locs = append(locs, loc)
	}
	p.Sample = []*profile.Sample{{Location: locs, Value: []int64{1}}}
	return p
}

// writeProfile validates and writes the gzip-compressed profile proto.
func writeProfile(frames []frame, w io.Writer) error {
	p := buildProfile(frames)
	if err := p.CheckValid(); err != nil {
		return fmt.Errorf("profile: %w", err)
	}
	return p.Write(w)
}
