//go:build unix

package main

import (
	"bytes"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"testing"
	"time"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	pidPath    string
}

func setupCLITestEnv(t *testing.T) cliTestEnv {
	t.Helper()

	base := t.TempDir()
	pidPath := filepath.Join(base, "burrow.pid")
	content := fmt.Sprintf(`[paths]
pid_file = %q
work_dir = %q
log_dir = %q

[logging]
format = "json"
`, pidPath, base, filepath.Join(base, "logs"))

	configPath := filepath.Join(base, "burrow.toml")
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write test config: %v", err)
	}
	return cliTestEnv{baseDir: base, configPath: configPath, pidPath: pidPath}
}

func runCLI(t *testing.T, env cliTestEnv, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--config", env.configPath))
	err := cmd.Execute()
	return out.String(), err
}

func requireContains(t *testing.T, output, want string) {
	t.Helper()
	if !strings.Contains(output, want) {
		t.Fatalf("output missing %q:\n%s", want, output)
	}
}

func writeLivePidFile(t *testing.T, env cliTestEnv) {
	t.Helper()
	if err := os.WriteFile(env.pidPath, fmt.Appendf(nil, "%d\n", os.Getpid()), 0o644); err != nil {
		t.Fatalf("write pid file: %v", err)
	}
}

func TestStatusNotRunning(t *testing.T) {
	env := setupCLITestEnv(t)
	out, err := runCLI(t, env, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "Not running")
	requireContains(t, out, env.pidPath)
}

func TestStatusRunning(t *testing.T) {
	env := setupCLITestEnv(t)
	writeLivePidFile(t, env)

	out, err := runCLI(t, env, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "Running")
	requireContains(t, out, strconv.Itoa(os.Getpid()))
}

func TestPingNotRunning(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, err := runCLI(t, env, "ping"); err == nil {
		t.Fatal("ping succeeded with no daemon")
	}
}

func TestPingRunning(t *testing.T) {
	env := setupCLITestEnv(t)
	writeLivePidFile(t, env)

	out, err := runCLI(t, env, "ping")
	if err != nil {
		t.Fatalf("ping: %v", err)
	}
	requireContains(t, out, "alive")
}

func TestStopNotRunning(t *testing.T) {
	env := setupCLITestEnv(t)
	out, err := runCLI(t, env, "stop")
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	requireContains(t, out, "Daemon is not running")
}

func TestSendDeliversSignal(t *testing.T) {
	env := setupCLITestEnv(t)
	writeLivePidFile(t, env)

	received := make(chan os.Signal, 1)
	signal.Notify(received, syscall.SIGUSR1)
	defer signal.Stop(received)

	out, err := runCLI(t, env, "send", "USR1")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	requireContains(t, out, "Sent USR1")

	select {
	case <-received:
	case <-time.After(5 * time.Second):
		t.Fatal("signal never arrived")
	}
}

func TestSendRejectsUnknownSignal(t *testing.T) {
	env := setupCLITestEnv(t)
	writeLivePidFile(t, env)
	if _, err := runCLI(t, env, "send", "NOPE"); err == nil {
		t.Fatal("send accepted an unknown signal name")
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)
	target := filepath.Join(env.baseDir, "generated.toml")

	out, err := runCLI(t, env, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")

	if _, err := runCLI(t, env, "config", "init", "--path", target); err == nil {
		t.Fatal("config init overwrote without --overwrite")
	}

	out, err = runCLI(t, env, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
}

func TestConfigShow(t *testing.T) {
	env := setupCLITestEnv(t)
	out, err := runCLI(t, env, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "paths.pid_file")
	requireContains(t, out, env.pidPath)
	requireContains(t, out, "process.umask")
}

func TestParseSignal(t *testing.T) {
	cases := []struct {
		spec string
		want syscall.Signal
	}{
		{"TERM", syscall.SIGTERM},
		{"sigterm", syscall.SIGTERM},
		{"HUP", syscall.SIGHUP},
		{"9", syscall.SIGKILL},
	}
	for _, tc := range cases {
		got, err := parseSignal(tc.spec)
		if err != nil {
			t.Fatalf("parseSignal(%q): %v", tc.spec, err)
		}
		if got != tc.want {
			t.Fatalf("parseSignal(%q) = %v, want %v", tc.spec, got, tc.want)
		}
	}
	for _, bad := range []string{"", "-3", "0", "SIGNOPE"} {
		if _, err := parseSignal(bad); err == nil {
			t.Fatalf("parseSignal(%q) accepted invalid input", bad)
		}
	}
}
