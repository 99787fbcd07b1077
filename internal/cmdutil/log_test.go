package cmdutil

import (
	"bytes"
	"testing"
)

func TestLogPrefixesAndQuiet(t *testing.T) {
	var b bytes.Buffer
	Infof(&b, false, "read %s sequences", Count(1234567))
	Warnf(&b, false, "skipped %d", 2)
	Infof(&b, true, "hidden")
	Warnf(&b, true, "hidden")
	want := "INFO: read 1,234,567 sequences\nWARN: skipped 2\n"
	if b.String() != want {
		t.Fatalf("got %q want %q", b.String(), want)
	}
}
