package cli

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/five82/wpreport/internal/app"
	"github.com/five82/wpreport/internal/config"
	"github.com/five82/wpreport/internal/errorlog"
	"github.com/five82/wpreport/internal/server"
)

// testConfig writes a config file for a WordPress install under a temp dir
// and returns the config path plus the install's debug.log path.
func testConfig(t *testing.T) (string, string) {
	t.Helper()
	for _, key := range []string{config.EnvABSPath, config.EnvContentDir, config.EnvDebugLog, config.EnvPHPErrorLog, config.EnvTimezone} {
		t.Setenv(key, "")
	}
	root := t.TempDir()
	abspath := filepath.Join(root, "public")
	content := filepath.Join(abspath, "wp-content")
	if err := os.MkdirAll(content, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	body := fmt.Sprintf(`[wordpress]
abspath = %q

[logs]
timezone = "UTC"

[export]
dir = %q

[logging]
file = %q
`, abspath, filepath.Join(root, "exports"), filepath.Join(root, "wpreport.log"))

	path := filepath.Join(root, "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path, filepath.Join(content, "debug.log")
}

func writeDebugLog(t *testing.T, path string, n int) {
	t.Helper()
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "[01-Jan-2024 10:%02d:00 UTC] PHP Warning:  warning %d in /tmp/x.php on line 1\n", i, i)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestErrorsJSON(t *testing.T) {
	cfgPath, debugLog := testConfig(t)
	writeDebugLog(t, debugLog, 5)

	out, err := execute(t, "--config", cfgPath, "errors", "--type", "wordpress", "--format", "json", "--limit", "3")
	if err != nil {
		t.Fatalf("errors: %v", err)
	}

	var records []errorlog.Record
	if err := json.Unmarshal([]byte(out), &records); err != nil {
		t.Fatalf("Unmarshal: %v\n%s", err, out)
	}
	if len(records) != 3 {
		t.Fatalf("len(records) = %d, want 3", len(records))
	}
	if records[0].Message != "warning 4" {
		t.Fatalf("records[0].Message = %q, want newest first", records[0].Message)
	}
	if records[0].LogType != errorlog.WordPress {
		t.Fatalf("records[0].LogType = %q", records[0].LogType)
	}
}

func TestErrorsCSVAndTable(t *testing.T) {
	cfgPath, debugLog := testConfig(t)
	writeDebugLog(t, debugLog, 2)

	out, err := execute(t, "--config", cfgPath, "errors", "-t", "wp", "-f", "csv")
	if err != nil {
		t.Fatalf("errors csv: %v", err)
	}
	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want header + 2", len(rows))
	}

	out, err = execute(t, "--config", cfgPath, "errors", "-t", "wordpress", "--width", "140")
	if err != nil {
		t.Fatalf("errors table: %v", err)
	}
	if !strings.Contains(out, "warning 1") {
		t.Fatalf("table output missing record:\n%s", out)
	}
}

func TestErrorsRejectsBadInput(t *testing.T) {
	cfgPath, _ := testConfig(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"type", []string{"errors", "--type", "mysql"}, "mysql"},
		{"format", []string{"errors", "-t", "wordpress", "--format", "xml"}, "unknown format"},
		{"limit", []string{"errors", "--limit", "-1"}, "--limit"},
		{"log level", []string{"--log-level", "loud", "errors"}, "loud"},
		{"args", []string{"errors", "extra"}, "unknown command"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, append([]string{"--config", cfgPath}, tt.args...)...)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error = %q, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestExportCSVDefaultName(t *testing.T) {
	cfgPath, debugLog := testConfig(t)
	writeDebugLog(t, debugLog, 4)

	out, err := execute(t, "--config", cfgPath, "export", "csv", "--type", "wordpress")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	path := strings.TrimSpace(out)
	base := filepath.Base(path)
	if !strings.HasPrefix(base, "wp-reporter-errors-") || !strings.HasSuffix(base, ".csv") {
		t.Fatalf("export name = %q", base)
	}
	if filepath.Base(filepath.Dir(path)) != "exports" {
		t.Fatalf("export dir = %q, want the configured export dir", filepath.Dir(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got := strings.Count(string(data), "warning"); got != 4 {
		t.Fatalf("exported %d warnings, want 4", got)
	}
}

func TestExportPDFToPath(t *testing.T) {
	cfgPath, debugLog := testConfig(t)
	writeDebugLog(t, debugLog, 2)

	dest := filepath.Join(t.TempDir(), "nested", "errors.pdf")
	out, err := execute(t, "--config", cfgPath, "export", "pdf", "-t", "wordpress", "-o", dest)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if strings.TrimSpace(out) != dest {
		t.Fatalf("printed %q, want %q", out, dest)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("output is not a PDF")
	}
}

func TestExportRejectsUnknownKind(t *testing.T) {
	cfgPath, _ := testConfig(t)
	if _, err := execute(t, "--config", cfgPath, "export", "xlsx"); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
	if _, err := execute(t, "--config", cfgPath, "export"); err == nil {
		t.Fatalf("expected error for missing kind")
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	cfgPath, _ := testConfig(t)

	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--config", cfgPath, "serve", "--bind", "127.0.0.1:17491"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := cmd.ExecuteContext(ctx); err != nil {
		t.Fatalf("serve: %v", err)
	}
}

func TestServeRejectsBadBind(t *testing.T) {
	cfgPath, _ := testConfig(t)
	if _, err := execute(t, "--config", cfgPath, "serve", "--bind", "not an address"); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestTerminalWidth(t *testing.T) {
	t.Setenv("COLUMNS", "")
	if got := terminalWidth(0); got != defaultTermWidth {
		t.Fatalf("terminalWidth(0) = %d, want %d", got, defaultTermWidth)
	}
	t.Setenv("COLUMNS", "200")
	if got := terminalWidth(0); got != 200 {
		t.Fatalf("terminalWidth with COLUMNS = %d, want 200", got)
	}
	if got := terminalWidth(90); got != 90 {
		t.Fatalf("terminalWidth(90) = %d, want 90", got)
	}
}

func TestErrorsFromRemote(t *testing.T) {
	cfgPath, debugLog := testConfig(t)
	writeDebugLog(t, debugLog, 3)

	// A local serve engine stands in for the remote host.
	api := newRemote(t, cfgPath, "tok")

	out, err := execute(t, "--config", cfgPath, "errors", "--remote", api.URL, "--token", "tok", "-t", "wordpress", "-f", "json")
	if err != nil {
		t.Fatalf("errors --remote: %v", err)
	}
	var records []errorlog.Record
	if err := json.Unmarshal([]byte(out), &records); err != nil {
		t.Fatalf("Unmarshal: %v\n%s", err, out)
	}
	if len(records) != 3 || records[0].Message != "warning 2" {
		t.Fatalf("records = %+v, want 3 newest first", records)
	}

	if _, err := execute(t, "--config", cfgPath, "errors", "--remote", api.URL, "--token", "wrong"); err == nil {
		t.Fatalf("expected 401 with a bad token")
	}
}

func TestExportFromRemote(t *testing.T) {
	cfgPath, debugLog := testConfig(t)
	writeDebugLog(t, debugLog, 2)
	api := newRemote(t, cfgPath, "")

	dir := t.TempDir()
	dest := filepath.Join(dir, "remote.csv")
	out, err := execute(t, "--config", cfgPath, "export", "csv", "-t", "wordpress", "--remote", api.URL, "-o", dest)
	if err != nil {
		t.Fatalf("export --remote: %v", err)
	}
	if strings.TrimSpace(out) != dest {
		t.Fatalf("printed %q, want %q", out, dest)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got := strings.Count(string(data), "warning"); got != 2 {
		t.Fatalf("exported %d warnings, want 2", got)
	}
}

func newRemote(t *testing.T, cfgPath, token string) *httptest.Server {
	t.Helper()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	gin.SetMode(gin.TestMode)
	engine := server.New(server.Options{
		Source:       app.NewService(cfg, zerolog.Nop()),
		DefaultLimit: cfg.Logs.MaxResults,
		Token:        token,
		Logger:       zerolog.Nop(),
	})
	api := httptest.NewServer(engine)
	t.Cleanup(api.Close)
	return api
}
