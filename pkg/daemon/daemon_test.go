package daemon

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/powerstat/powerstat/pkg/config"
	"github.com/powerstat/powerstat/pkg/powersupply/powersupplytest"
	"github.com/powerstat/powerstat/pkg/report"
	"github.com/powerstat/powerstat/pkg/version"
)

func newTestConfig(root string) config.Config {
	conf := config.NewFileFromConfig(nil, "")
	conf.SetPowerSupplyRoot(root)
	return conf
}

func get(t *testing.T, conf config.Config, path string) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	NewRouter(conf).ServeHTTP(w, req)
	return w
}

func TestGetReport(t *testing.T) {
	conf := newTestConfig(powersupplytest.TwoBatteries(t))

	w := get(t, conf, "/report")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /report status = %d, body = %s", w.Code, w.Body.String())
	}

	r, err := report.DecodeJSON(w.Body.Bytes())
	if err != nil {
		t.Fatalf("DecodeJSON() error = %v", err)
	}
	if len(r.Batteries) != 2 {
		t.Fatalf("len(Batteries) = %d, want 2", len(r.Batteries))
	}
	if r.Runtime.Formatted != "2h48m" {
		t.Fatalf("Runtime.Formatted = %q, want 2h48m", r.Runtime.Formatted)
	}
}

func TestGetBatteriesAndRuntime(t *testing.T) {
	conf := newTestConfig(powersupplytest.TwoBatteries(t))

	w := get(t, conf, "/batteries")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /batteries status = %d", w.Code)
	}
	var bats []report.Battery
	if err := json.Unmarshal(w.Body.Bytes(), &bats); err != nil {
		t.Fatalf("unmarshal batteries: %v", err)
	}
	if len(bats) != 2 || bats[0].Name != "BAT0" || bats[1].CapacityPercent != 80 {
		t.Fatalf("batteries = %+v", bats)
	}

	w = get(t, conf, "/runtime")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /runtime status = %d", w.Code)
	}
	var rt report.Runtime
	if err := json.Unmarshal(w.Body.Bytes(), &rt); err != nil {
		t.Fatalf("unmarshal runtime: %v", err)
	}
	if !rt.Known || rt.TotalPowerUW != 25000000 {
		t.Fatalf("runtime = %+v", rt)
	}
}

func TestGetReport_ReadsFresh(t *testing.T) {
	root := powersupplytest.TwoBatteries(t)
	conf := newTestConfig(root)

	if w := get(t, conf, "/runtime"); !strings.Contains(w.Body.String(), "2h48m") {
		t.Fatalf("first GET /runtime = %s", w.Body.String())
	}

	powersupplytest.WriteFile(t, filepath.Join(root, "BAT1", "power_now"), "0\n")
	powersupplytest.WriteFile(t, filepath.Join(root, "BAT0", "power_now"), "0\n")

	if w := get(t, conf, "/runtime"); !strings.Contains(w.Body.String(), `"unknown"`) {
		t.Fatalf("second GET /runtime = %s, want unknown", w.Body.String())
	}
}

func TestGetReport_CollectError(t *testing.T) {
	root := powersupplytest.TwoBatteries(t)
	if err := os.Remove(filepath.Join(root, "BAT0", "status")); err != nil {
		t.Fatalf("remove: %v", err)
	}
	conf := newTestConfig(root)

	w := get(t, conf, "/report")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("GET /report status = %d, want 500", w.Code)
	}
	if !strings.Contains(w.Body.String(), "status") {
		t.Fatalf("GET /report body = %s, want the failing attribute", w.Body.String())
	}
}

func TestGetReport_NonFiniteReading(t *testing.T) {
	root := powersupplytest.TwoBatteries(t)
	powersupplytest.WriteFile(t, filepath.Join(root, "BAT0", "energy_now"), "NaN\n")
	conf := newTestConfig(root)

	for _, path := range []string{"/report", "/batteries", "/runtime"} {
		w := get(t, conf, path)
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("GET %s status = %d, want 500", path, w.Code)
		}
		var msg string
		if err := json.Unmarshal(w.Body.Bytes(), &msg); err != nil {
			t.Fatalf("GET %s body = %s, want a JSON error string: %v", path, w.Body.String(), err)
		}
		if !strings.Contains(msg, "energy_now") {
			t.Fatalf("GET %s error = %q, want the failing attribute", path, msg)
		}
	}
}

func TestGetVersion(t *testing.T) {
	w := get(t, newTestConfig(t.TempDir()), "/version")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /version status = %d", w.Code)
	}
	var v string
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("unmarshal version: %v", err)
	}
	if v != version.Version {
		t.Fatalf("version = %q, want %q", v, version.Version)
	}
}

func TestReloadOnHangup(t *testing.T) {
	conf := newTestConfig(t.TempDir())
	hupc := make(chan os.Signal, 1)
	done := make(chan struct{})
	reloaded := make(chan struct{}, 2)

	calls := 0
	reload := func() error {
		calls++
		reloaded <- struct{}{}
		if calls == 1 {
			return errors.New("bad config")
		}
		return nil
	}

	exited := make(chan struct{})
	go func() {
		reloadOnHangup(done, hupc, conf, reload)
		close(exited)
	}()

	for i := 0; i < 2; i++ {
		hupc <- syscall.SIGHUP
		select {
		case <-reloaded:
		case <-time.After(time.Second):
			t.Fatalf("reload %d was not called", i+1)
		}
	}

	close(done)
	select {
	case <-exited:
	case <-time.After(time.Second):
		t.Fatal("reload loop did not exit after done was closed")
	}
}
