// Package debug provides env-gated tracing for the diff internals.
// Gates are read once at startup from DOCDIFF_DEBUG_* variables.
package debug

import (
	"fmt"
	"os"
	"strconv"
)

type debug struct {
	Diff    bool
	Align   bool
	Archive bool
}

var d *debug

func init() {
	d = &debug{}
	d.Diff = boolEnv("DOCDIFF_DEBUG_DIFF")
	d.Align = boolEnv("DOCDIFF_DEBUG_ALIGN")
	d.Archive = boolEnv("DOCDIFF_DEBUG_ARCHIVE")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Diff() bool {
	return d.Diff
}

func Align() bool {
	return d.Align
}

func Archive() bool {
	return d.Archive
}

func Logf(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, msg, args...)
}
