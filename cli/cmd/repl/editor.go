package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/moye/lang"
	"github.com/ardnew/moye/log"
	"github.com/ardnew/moye/pkg"
)

const defaultEditor = "vi"

// editScriptCommand implements [tea.ExecCommand] for the edit-check-retry
// loop. It writes the definitions of the root scope to a temp file, opens the
// user's editor, and parses the result. On parse error the user is prompted
// to re-edit; declining exits the program.
//
// The command only checks the edited script. Evaluation happens back in the
// Bubble Tea update loop, where the results can be printed.
type editScriptCommand struct {
	session *lang.Session
	ctxFunc func() context.Context
	logger  log.Logger
	source  string // edited script, empty if the edit was cancelled
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editScriptCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editScriptCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editScriptCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit-check-retry loop. If the user declines to re-edit
// after a parse error, it returns [ErrEditDeclined].
func (c *editScriptCommand) Run() error {
	ctx := c.ctxFunc()

	content := dumpScope(c.session.Env())

	f, err := os.CreateTemp(os.TempDir(), pkg.Name+"-repl-*"+pkg.Extension)
	if err != nil {
		return err
	}

	tmpPath := f.Name()

	defer os.Remove(tmpPath)

	if err := f.Chmod(0o600); err != nil {
		f.Close()

		return err
	}

	f.Close()

	for {
		if err := os.WriteFile(tmpPath, []byte(content), 0o600); err != nil {
			return err
		}

		data, err := runEditor(ctx, c.stdin, c.stdout, c.stderr, tmpPath)
		if err != nil {
			return err
		}

		content = string(data)

		// A cleared file cancels the edit.
		if strings.TrimSpace(content) == "" {
			return nil
		}

		checkErr := c.session.Check(ctx, content)
		c.logger.TraceContext(
			ctx,
			"editor parse attempt",
			slog.Int("content_length", len(data)),
			slog.Bool("success", checkErr == nil),
		)

		if checkErr == nil {
			c.source = content

			return nil
		}

		fmt.Fprintf(c.stderr, "\n%s\n", checkErr)
		fmt.Fprintf(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		response := strings.TrimSpace(strings.ToLower(scanner.Text()))
		if response == "n" || response == "no" {
			return ErrEditDeclined
		}
	}
}

// dumpScope renders every entry visible from env as a script that recreates
// it, one definition per line.
func dumpScope(env *lang.Env) string {
	var b strings.Builder

	for ent := range env.Entries() {
		if stmt := ent.Definition(); stmt != nil {
			b.WriteString(stmt.String())
			b.WriteString("\n")
		}
	}

	return b.String()
}

// runEditor launches the user's editor on the given file path and returns
// the edited file content.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) ([]byte, error) {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		return nil, err
	}

	return os.ReadFile(path)
}
