// Package stacktrace trims goroutine dumps down to this module's frames so
// panic logs stay readable.
package stacktrace

import "strings"

const marker = "/internal/"

// InternalPaths returns the "internal/...go:line" locations found in a
// debug.Stack dump, innermost first.
func InternalPaths(stack []byte) []string {
	var paths []string

	for line := range strings.SplitSeq(string(stack), "\n") {
		line = strings.TrimSpace(line)

		idx := strings.Index(line, marker)
		if idx == -1 || !strings.Contains(line, ".go:") {
			continue
		}

		loc := line[idx+1:]
		if sp := strings.IndexByte(loc, ' '); sp != -1 {
			loc = loc[:sp] // drop the " +0x1d" pc offset
		}
		paths = append(paths, loc)
	}

	return paths
}
