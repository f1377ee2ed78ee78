package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	atomicfile "github.com/natefinch/atomic"
	"github.com/peterh/liner"
)

// REPL is the interactive shell loop: a liner-backed prompt, a
// persisted history file, Ctrl-C aborting the current line instead of
// killing the process, and tab completion over the command table.
type REPL struct {
	App    *App
	Prompt string

	ln *liner.State
}

// NewREPL builds a REPL bound to app. prompt defaults to "splinter> "
// when empty.
func NewREPL(app *App, prompt string) *REPL {
	if prompt == "" {
		prompt = "splinter> "
	}
	return &REPL{App: app, Prompt: prompt}
}

// Run drives the prompt loop until the user exits, EOF is reached, or
// a command handler signals shutdown.
func (r *REPL) Run() int {
	r.ln = liner.NewLiner()
	defer r.ln.Close()
	r.ln.SetCtrlCAborts(true)
	r.ln.SetCompleter(r.completer)

	r.loadHistory()
	defer r.saveHistory()

	for {
		line, err := r.ln.Prompt(r.Prompt)
		if err != nil {
			if err == liner.ErrPromptAborted {
				continue
			}
			if err == io.EOF {
				fmt.Fprintln(r.App.Out)
				return ExitOK
			}
			fmt.Fprintf(r.App.ErrOut, "error: reading input: %v\n", err)
			return ExitIOError
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		r.ln.AppendHistory(trimmed)

		code := r.App.DispatchLine(trimmed)
		if code == -1 {
			return ExitOK
		}
	}
}

func (r *REPL) completer(line string) []string {
	names := make([]string, 0, len(commands)+2)
	for name := range commands {
		names = append(names, name)
	}
	names = append(names, "help", "exit", "quit")
	sort.Strings(names)

	var out []string
	for _, n := range names {
		if strings.HasPrefix(n, line) {
			out = append(out, n)
		}
	}
	return out
}

func (r *REPL) historyPath() string {
	return r.App.Cfg.HistoryFile
}

func (r *REPL) loadHistory() {
	path := r.historyPath()
	if path == "" {
		return
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return
	}
	lines := tailLines(strings.Split(string(b), "\n"), r.App.Cfg.HistoryLen)
	r.ln.ReadHistory(strings.NewReader(strings.Join(lines, "\n")))
}

// saveHistory persists history with an atomic rename so a crash or a
// concurrent reader never observes a partially written file, truncated
// to Cfg.HistoryLen entries (SPLINTER_HISTORY_LEN, default 500).
func (r *REPL) saveHistory() {
	path := r.historyPath()
	if path == "" {
		return
	}
	var buf bytes.Buffer
	if _, err := r.ln.WriteHistory(&buf); err != nil {
		return
	}
	lines := tailLines(strings.Split(buf.String(), "\n"), r.App.Cfg.HistoryLen)
	out := strings.NewReader(strings.Join(lines, "\n"))
	_ = atomicfile.WriteFile(path, out)
}

// tailLines returns the last n non-empty lines of lines, in order. n<=0
// means no limit.
func tailLines(lines []string, n int) []string {
	trimmed := lines[:0:0]
	for _, l := range lines {
		if l != "" {
			trimmed = append(trimmed, l)
		}
	}
	if n <= 0 || len(trimmed) <= n {
		return trimmed
	}
	return trimmed[len(trimmed)-n:]
}
