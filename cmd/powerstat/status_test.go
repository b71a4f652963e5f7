package main

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/powerstat/powerstat/pkg/client"
	"github.com/powerstat/powerstat/pkg/config"
	"github.com/powerstat/powerstat/pkg/daemon"
	"github.com/powerstat/powerstat/pkg/powersupply/powersupplytest"
	"github.com/powerstat/powerstat/pkg/report"
	"github.com/powerstat/powerstat/pkg/version"
)

const runtimeLine = "Estimated runtime (all batteries): 2h48m\n"

// socketPath returns a short path; unix socket paths are length limited.
func socketPath(t *testing.T) string {
	t.Helper()

	dir, err := os.MkdirTemp("", "ps")
	if err != nil {
		t.Fatalf("mkdir temp: %v", err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	return filepath.Join(dir, "d.sock")
}

// startDaemon serves root on a fresh socket and returns its path.
func startDaemon(t *testing.T, root string) string {
	t.Helper()

	sock := socketPath(t)

	conf := config.NewFileFromConfig(nil, "")
	conf.SetPowerSupplyRoot(root)

	l, err := net.Listen("unix", sock)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	srv := &http.Server{Handler: daemon.NewRouter(conf)}
	go func() { _ = srv.Serve(l) }()
	t.Cleanup(func() { _ = srv.Close() })

	return sock
}

func TestStatusCommand_Parts(t *testing.T) {
	root := powersupplytest.TwoBatteries(t)
	sock := startDaemon(t, root)
	batteryLines := strings.TrimSuffix(powersupplytest.Expected, runtimeLine)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "runtime", args: []string{"--runtime"}, want: runtimeLine},
		{name: "batteries", args: []string{"--batteries"}, want: batteryLines},
		{name: "remote report", args: []string{"--remote"}, want: powersupplytest.Expected},
		{name: "remote runtime", args: []string{"--remote", "--runtime"}, want: runtimeLine},
		{name: "remote batteries", args: []string{"--remote", "--batteries"}, want: batteryLines},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// The local root is left empty for remote runs so only the daemon can answer.
			local := root
			if tt.args[0] == "--remote" {
				local = t.TempDir()
			}
			args := append([]string{"status", "--root", local, "--daemon-socket", sock}, tt.args...)
			got, err := run(t, context.Background(), args...)
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if got != tt.want {
				t.Fatalf("output =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestStatusCommand_PartsJSON(t *testing.T) {
	root := powersupplytest.TwoBatteries(t)

	got, err := run(t, context.Background(), "status", "--root", root, "--runtime", "--json")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	var rt report.Runtime
	if err := json.Unmarshal([]byte(got), &rt); err != nil {
		t.Fatalf("unmarshal runtime: %v, output = %s", err, got)
	}
	if !rt.Known || rt.Formatted != "2h48m" {
		t.Fatalf("runtime = %+v", rt)
	}

	got, err = run(t, context.Background(), "status", "--root", root, "--batteries", "--json")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	var bats []report.Battery
	if err := json.Unmarshal([]byte(got), &bats); err != nil {
		t.Fatalf("unmarshal batteries: %v, output = %s", err, got)
	}
	if len(bats) != 2 || bats[0].Name != "BAT0" || bats[1].CapacityPercent != 80 {
		t.Fatalf("batteries = %+v", bats)
	}
}

func TestStatusCommand_RuntimeAndBatteriesExclusive(t *testing.T) {
	root := powersupplytest.TwoBatteries(t)
	if _, err := run(t, context.Background(), "status", "--root", root, "--runtime", "--batteries"); err == nil {
		t.Fatal("Execute() error = nil, want mutually exclusive flags error")
	}
}

func TestVersionCommand_Remote(t *testing.T) {
	sock := startDaemon(t, t.TempDir())

	got, err := run(t, context.Background(), "version", "--remote", "--daemon-socket", sock)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.HasSuffix(got, "daemon: "+version.Version+"\n") {
		t.Fatalf("output = %q, want daemon version %q", got, version.Version)
	}
}

func TestVersionCommand_RemoteNotRunning(t *testing.T) {
	sock := socketPath(t)

	_, err := run(t, context.Background(), "version", "--remote", "--daemon-socket", sock)
	if !errors.Is(err, client.ErrDaemonNotRunning) {
		t.Fatalf("Execute() error = %v, want ErrDaemonNotRunning", err)
	}
}
