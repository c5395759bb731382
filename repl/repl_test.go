// Copyright © 2026 The apexls authors

package repl

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/luthersystems/apexls/completion"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const calcSource = `public class Calc {
    public Integer total;
    public Integer add(Integer a, Integer b) {
        return a + b;
    }
    public void run() {
        Calc c = new Calc();
    }
}
`

func testSession(name, text string) (*session, *bytes.Buffer) {
	var out bytes.Buffer
	cfg := newConfig(WithStdout(&out), WithSource(name, text), WithHistoryFile(""))
	return newSession(cfg), &out
}

func runReplWithString(t *testing.T, input string, opts ...Option) string {
	t.Helper()
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()

	go func() {
		defer inW.Close() //nolint:errcheck // test cleanup
		_, _ = io.WriteString(inW, input)
	}()

	go func() {
		opts = append(opts, WithStdin(inR), WithStdout(outW), WithHistoryFile(""))
		err := Run(context.Background(), opts...)
		assert.NoError(t, err)
		inR.Close()  //nolint:errcheck,gosec // test cleanup
		outW.Close() //nolint:errcheck,gosec // test cleanup
	}()

	var output bytes.Buffer
	_, _ = io.Copy(&output, outR)
	outR.Close() //nolint:errcheck,gosec // test cleanup
	return output.String()
}

func TestInsertionPoint(t *testing.T) {
	at := insertionPoint(calcSource)
	assert.Equal(t, "}\n}\n", calcSource[at:])
	assert.Equal(t, 0, insertionPoint(""))
	assert.Equal(t, len("class A { }"), insertionPoint("class A { }"))
}

func TestSession_Describe(t *testing.T) {
	s, _ := testSession("Calc.cls", calcSource)
	assert.Equal(t, "Calc.cls loaded, inserting at line 8; :help lists commands", s.describe())

	empty, _ := testSession("", "")
	assert.Equal(t, "empty buffer; :help lists commands", empty.describe())
}

func TestSession_Handle(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		line     string
		contains []string
		absent   []string
	}{
		{
			name:     "member completions",
			source:   calcSource,
			line:     "c.",
			contains: []string{"total", "Integer add(Integer a, Integer b)", "method", "void run()"},
		},
		{
			name:     "prefix filters",
			source:   calcSource,
			line:     "c.ad",
			contains: []string{"add"},
			absent:   []string{"total"},
		},
		{
			name:     "unsupported position",
			line:     "'abc'.",
			contains: []string{"no completions here"},
		},
		{
			name:     "no match",
			source:   calcSource,
			line:     "c.zzz",
			contains: []string{"no completions"},
		},
		{
			name:     "hover",
			source:   calcSource,
			line:     ":hover c.add",
			contains: []string{"method Integer add(Integer a, Integer b)\n  declared in class Calc\n"},
		},
		{
			name:     "hover nothing",
			source:   calcSource,
			line:     ":hover 42",
			contains: []string{"nothing to describe"},
		},
		{
			name:     "move insertion point",
			source:   calcSource,
			line:     ":at 2",
			contains: []string{"inserting at line 2"},
		},
		{
			name:     "bad line",
			line:     ":at zero",
			contains: []string{"usage: :at LINE"},
		},
		{
			name:     "check clean buffer",
			source:   calcSource,
			line:     ":check",
			contains: []string{"no syntax errors"},
		},
		{
			name:     "check broken buffer",
			source:   "class A {\n    Integer x\n}",
			line:     ":check",
			contains: []string{"error: ", "--> A.cls:", " | "},
		},
		{
			name:     "help",
			line:     ":help",
			contains: []string{"Commands:", ":hover CODE"},
		},
		{
			name:     "unknown command",
			line:     ":frob",
			contains: []string{"unknown command :frob"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name := ""
			if tt.source != "" {
				name = "A.cls"
			}
			s, out := testSession(name, tt.source)
			assert.False(t, s.handle(context.Background(), tt.line))
			for _, want := range tt.contains {
				assert.Contains(t, out.String(), want)
			}
			for _, unwanted := range tt.absent {
				assert.NotContains(t, out.String(), unwanted)
			}
		})
	}
}

func TestSession_Quit(t *testing.T) {
	s, _ := testSession("", "")
	assert.True(t, s.handle(context.Background(), ":quit"))
	assert.True(t, s.handle(context.Background(), ":q"))
}

func TestSession_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Calc.cls")
	require.NoError(t, os.WriteFile(path, []byte(calcSource), 0o600))

	s, out := testSession("", "")
	s.handle(context.Background(), ":load "+path)
	assert.Contains(t, out.String(), "Calc.cls loaded, inserting at line 8")
	assert.Equal(t, calcSource, s.text)

	s.handle(context.Background(), ":load "+path+".missing")
	assert.Contains(t, out.String(), "no such file")
}

func TestSession_Limit(t *testing.T) {
	var out bytes.Buffer
	cfg := newConfig(
		WithStdout(&out),
		WithSource("A.cls", calcSource),
		WithEngine(completion.New(completion.WithLimit(1))),
		WithHistoryFile(""),
	)
	s := newSession(cfg)
	s.handle(context.Background(), "c.")
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "total"))
	assert.Equal(t, "...", lines[1])
}

func TestCompleter(t *testing.T) {
	s, _ := testSession("Calc.cls", calcSource)
	c := &completer{ctx: context.Background(), s: s}

	candidates, length := c.Do([]rune("c.ad"), 4)
	assert.Equal(t, 2, length)
	assert.Equal(t, [][]rune{[]rune("d")}, candidates)

	candidates, length = c.Do([]rune(":hover c.to"), 11)
	assert.Equal(t, 2, length)
	assert.Equal(t, [][]rune{[]rune("tal")}, candidates)

	candidates, _ = c.Do([]rune(":at 3"), 5)
	assert.Empty(t, candidates)

	candidates, _ = c.Do([]rune("c.zzz"), 5)
	assert.Empty(t, candidates)
}

func TestEnsureHistoryFilePermissions_CreatesWithRestrictedMode(t *testing.T) {
	histFile := filepath.Join(t.TempDir(), ".apexls_history")

	ensureHistoryFilePermissions(histFile)

	info, err := os.Stat(histFile)
	require.NoError(t, err, "history file should be created")
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestEnsureHistoryFilePermissions_RestrictsExistingFile(t *testing.T) {
	histFile := filepath.Join(t.TempDir(), ".apexls_history")
	require.NoError(t, os.WriteFile(histFile, []byte("c.add"), 0o644)) //nolint:gosec // testing permissive mode

	ensureHistoryFilePermissions(histFile)

	info, err := os.Stat(histFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	data, err := os.ReadFile(histFile)
	require.NoError(t, err)
	assert.Equal(t, "c.add", string(data))
}

func TestEnsureHistoryFilePermissions_EmptyPathNoOp(t *testing.T) {
	ensureHistoryFilePermissions("")
}

func TestRun(t *testing.T) {
	got := runReplWithString(t, "c.\n:hover c.add\n:quit\nc.\n", WithSource("Calc.cls", calcSource))
	assert.Contains(t, got, "Calc.cls loaded")
	assert.Contains(t, got, "Integer total")
	assert.Contains(t, got, "declared in class Calc")
	// Input after :quit is not evaluated.
	assert.Equal(t, 1, strings.Count(got, "Integer total"))
}
