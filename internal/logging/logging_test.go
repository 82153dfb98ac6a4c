package logging

import (
	"bytes"
	"log"
	"os"
	"strings"
	"testing"
)

func TestDebugfRespectsSwitch(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)
	t.Cleanup(func() { SetDebug(false) })

	Debugf("hidden %d", 1)
	if buf.Len() != 0 {
		t.Fatalf("logged while disabled: %q", buf.String())
	}
	SetDebug(true)
	Debugf("shown %d", 2)
	if !strings.Contains(buf.String(), "DEBUG: shown 2") {
		t.Fatalf("missing debug line: %q", buf.String())
	}
}
