package cli

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool
	failOn   string

	calls []string
	args  map[string][]string
}

func (f *fakeExec) isLoggedIn(context.Context) bool { return f.loggedIn }

func (f *fakeExec) record(name string, args []string) error {
	f.calls = append(f.calls, name)
	if f.args == nil {
		f.args = map[string][]string{}
	}
	f.args[name] = args
	if name == f.failOn {
		return errors.New("boom")
	}
	return nil
}

func (f *fakeExec) Login(_ context.Context, a []string) error {
	f.loggedIn = true
	return f.record("login", a)
}
func (f *fakeExec) Verify(_ context.Context, a []string) error { return f.record("verify", a) }
func (f *fakeExec) Status(_ context.Context, a []string) error { return f.record("status", a) }
func (f *fakeExec) Logout(_ context.Context, a []string) error {
	f.loggedIn = false
	return f.record("logout", a)
}
func (f *fakeExec) Generate(_ context.Context, a []string) error { return f.record("generate", a) }
func (f *fakeExec) Quickfill(_ context.Context, a []string) error {
	return f.record("quickfill", a)
}
func (f *fakeExec) List(_ context.Context, a []string) error     { return f.record("list", a) }
func (f *fakeExec) Notes(_ context.Context, a []string) error    { return f.record("notes", a) }
func (f *fakeExec) Delete(_ context.Context, a []string) error   { return f.record("delete", a) }
func (f *fakeExec) Clear(_ context.Context, a []string) error    { return f.record("clear", a) }
func (f *fakeExec) Export(_ context.Context, a []string) error   { return f.record("export", a) }
func (f *fakeExec) Import(_ context.Context, a []string) error   { return f.record("import", a) }
func (f *fakeExec) Backup(_ context.Context, a []string) error   { return f.record("backup", a) }
func (f *fakeExec) Backups(_ context.Context, a []string) error  { return f.record("backups", a) }
func (f *fakeExec) Restore(_ context.Context, a []string) error  { return f.record("restore", a) }
func (f *fakeExec) Accounts(_ context.Context, a []string) error { return f.record("accounts", a) }
func (f *fakeExec) Switch(_ context.Context, a []string) error   { return f.record("switch", a) }
func (f *fakeExec) Remove(_ context.Context, a []string) error   { return f.record("remove", a) }
func (f *fakeExec) Autofill(_ context.Context, a []string) error { return f.record("autofill", a) }

func capturePrint(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		parts := make([]string, len(a))
		for i, v := range a {
			parts[i] = toString(v)
		}
		lines = append(lines, strings.Join(parts, " "))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func TestRunREPL_DispatchesWithArgs(t *testing.T) {
	capturePrint(t)

	input := strings.Join([]string{
		"help",
		"login alice",
		"generate shopping site",
		"l",
		"quickfill",
		"notes xk29f@duck.com newsletter",
		"export csv out.csv",
		"switch bob",
		"autofill on",
		"",
		"logout",
		"exit",
		"list",
	}, "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, rdr(input))

	require.Equal(t, []string{"login", "generate", "list", "quickfill", "notes", "export", "switch", "autofill", "logout"}, exec.calls)
	require.Equal(t, []string{"alice"}, exec.args["login"])
	require.Equal(t, []string{"shopping", "site"}, exec.args["generate"])
	require.Equal(t, []string{"xk29f@duck.com", "newsletter"}, exec.args["notes"])
	require.Equal(t, []string{"csv", "out.csv"}, exec.args["export"])
}

func TestRunREPL_HelpDependsOnLogin(t *testing.T) {
	lines := capturePrint(t)

	runREPL(context.Background(), &fakeExec{}, func() string { return "s" }, rdr("help\nquit\n"))
	require.Contains(t, *lines, helpSignedOut)

	*lines = nil
	runREPL(context.Background(), &fakeExec{loggedIn: true}, func() string { return "s" }, rdr("help\nquit\n"))
	require.Contains(t, *lines, helpSignedIn)
}

func TestRunREPL_UnknownAndErrors(t *testing.T) {
	lines := capturePrint(t)

	exec := &fakeExec{failOn: "import"}
	runREPL(context.Background(), exec, func() string { return "s" }, rdr("foobar\nimport x.json\nbackup"))

	require.Equal(t, []string{"import", "backup"}, exec.calls)
	require.Contains(t, *lines, "Unknown command: foobar")
	require.Contains(t, *lines, "Error: boom")
}

func TestRunREPL_StopsOnEOF(t *testing.T) {
	capturePrint(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "s" }, rdr(""))
	require.Empty(t, exec.calls)
}
