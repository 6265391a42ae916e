package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool

	ticks int
	calls []string
	args  map[string][]string
}

func (f *fakeExec) record(name string, args []string) error {
	f.calls = append(f.calls, name)
	if f.args == nil {
		f.args = map[string][]string{}
	}
	f.args[name] = args
	return nil
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Tick(context.Context) { f.ticks++ }
func (f *fakeExec) Add(context.Context) error { return f.record("add", nil) }
func (f *fakeExec) List(context.Context) error { return f.record("list", nil) }
func (f *fakeExec) Stats(context.Context) error { return f.record("stats", nil) }
func (f *fakeExec) Analyze(context.Context) error { return f.record("analyze", nil) }
func (f *fakeExec) Sync(context.Context) error { return f.record("sync", nil) }
func (f *fakeExec) Status(context.Context) error { return f.record("status", nil) }
func (f *fakeExec) Day(_ context.Context, a []string) error {
	return f.record("day", a)
}
func (f *fakeExec) Calendar(_ context.Context, a []string) error {
	return f.record("cal", a)
}
func (f *fakeExec) SafeList(_ context.Context, a []string) error {
	return f.record("safe", a)
}
func (f *fakeExec) Delete(_ context.Context, a []string) error {
	return f.record("delete", a)
}
func (f *fakeExec) Login(context.Context) error {
	f.loggedIn = true
	return f.record("login", nil)
}
func (f *fakeExec) Logout(context.Context) error {
	f.loggedIn = false
	return f.record("logout", nil)
}

func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var out []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		out = append(out, fmt.Sprint(a...))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &out
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	out := captureOutput(t)

	input := strings.Join([]string{
		"help",
		"login",
		"help",
		"add",
		"",
		"l",
		"day 2024-03-01",
		"cal 2024-03",
		"stats",
		"safe add soy sauce",
		"analyze",
		"delete abc",
		"sync",
		"status",
		"logout",
		"foobar",
		"exit",
		"list",
	}, "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "(status)" }, bufio.NewScanner(strings.NewReader(input)))

	assert.Equal(t, []string{
		"login", "add", "list", "day", "cal", "stats", "safe", "analyze", "delete", "sync", "status", "logout",
	}, exec.calls)
	assert.Equal(t, []string{"2024-03-01"}, exec.args["day"])
	assert.Equal(t, []string{"2024-03"}, exec.args["cal"])
	assert.Equal(t, []string{"add", "soy", "sauce"}, exec.args["safe"])
	assert.Equal(t, []string{"abc"}, exec.args["delete"])

	assert.Contains(t, *out, helpSignedOut)
	assert.Contains(t, *out, helpLoggedIn)
	assert.Contains(t, *out, "Unknown command:foobar")
	assert.Contains(t, *out, "Bye!")
	assert.Contains(t, *out, "gastrolog (status)> ")
	assert.Equal(t, 17, exec.ticks)
}

func TestRunREPL_EOF(t *testing.T) {
	captureOutput(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewScanner(strings.NewReader("list")))

	assert.Equal(t, []string{"list"}, exec.calls)
	assert.Equal(t, 2, exec.ticks)
}
