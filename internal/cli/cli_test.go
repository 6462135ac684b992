package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	pterm.DisableStyling()
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGenerateCommand(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"report":"IMPRESSION: normal"}`))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "findings.txt")
	require.NoError(t, os.WriteFile(path, []byte("small effusion\n"), 0o600))

	out, err := run(t, "generate", "--server", srv.URL, "--findings-file", path, "-t", "chest-ct", "--plain")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"findings": "small effusion", "template": "chest-ct"}, got)
	assert.Contains(t, out, "IMPRESSION: normal\n")
}

func TestGenerateCommandFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Request must be JSON"}`))
	}))
	defer srv.Close()

	out, err := run(t, "generate", "--server", srv.URL, "--plain")
	require.Error(t, err)
	assert.Contains(t, out, "Failed to generate report: Request must be JSON")
}

func TestGenerateCommandExclusiveFlags(t *testing.T) {
	_, err := run(t, "generate", "--findings", "a", "--findings-file", "b")
	assert.EqualError(t, err, "--findings and --findings-file are mutually exclusive")
}

func TestTemplatesCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"templates":[{"name":"chest-ct","title":"CT Chest","source":"builtin"}]}`))
	}))
	defer srv.Close()

	out, err := run(t, "templates", "--server", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "chest-ct")
	assert.Contains(t, out, "CT Chest")
}

func TestGenerateFailureIsReported(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := run(t, "generate", "--server", srv.URL, "--plain")
	var reported reportedError
	assert.ErrorAs(t, err, &reported)
}
