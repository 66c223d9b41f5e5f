package logger

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// capture redirects diagnostics into a buffer for the test's duration.
func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestVerboseToggle(t *testing.T) {
	capture(t)

	assert.False(t, IsVerbose(), "diagnostics are off by default")
	SetVerbose(true)
	assert.True(t, IsVerbose())
	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestLevels_PrefixEachLine(t *testing.T) {
	cases := []struct {
		name   string
		log    func(string, ...any)
		prefix string
	}{
		{"debug", Debug, "[DEBUG] "},
		{"info", Info, "[INFO] "},
		{"warn", Warn, "[WARN] "},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			buf := capture(t)
			SetVerbose(true)

			tc.log("indexed %d chunks from %q", 4, "manual.txt")

			assert.Equal(t, tc.prefix+`indexed 4 chunks from "manual.txt"`+"\n", buf.String())
		})
	}
}

func TestSection_SeparatesStages(t *testing.T) {
	buf := capture(t)
	SetVerbose(true)

	Section("Decision")
	Info("aggregate verdict: allow")

	assert.Equal(t, "\n=== Decision ===\n[INFO] aggregate verdict: allow\n", buf.String())
}

func TestSilentWhenDisabled(t *testing.T) {
	buf := capture(t)
	SetVerbose(false)

	Debug("hidden")
	Info("hidden")
	Warn("hidden")
	Section("hidden")

	assert.Zero(t, buf.Len(), "nothing may reach the writer while verbose is off")
}

func TestSetOutput_Redirects(t *testing.T) {
	old := capture(t)
	SetVerbose(true)

	var next bytes.Buffer
	SetOutput(&next)
	Warn("rerouted")

	assert.Zero(t, old.Len())
	assert.Contains(t, next.String(), "[WARN] rerouted")
}

func TestConcurrentLogging(t *testing.T) {
	buf := capture(t)
	SetVerbose(true)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			Debug("worker %d", n)
			IsVerbose()
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 20, "interleaved writes must stay line-atomic")
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, "[DEBUG] worker "), fmt.Sprintf("unexpected line %q", line))
	}
}
