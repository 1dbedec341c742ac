package app

import (
	"bytes"
	"context"
	stdjson "encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olusolaa/flow-drift-detector/internal/errors"
)

const sourceExport = `{"value": [
  {"workflowid": "s1", "name": "Invoice", "clientdata": "{\"properties\":{\"definition\":{\"actions\":{\"Send\":{\"inputs\":{\"uri\":\"https://dev.crm.dynamics.com/a\"},\"runAfter\":{}}}}}}"},
  {"workflowid": "s2", "name": "Payroll", "clientdata": "{\"properties\":{\"definition\":{\"actions\":{}}}}"},
  {"workflowid": "s3", "name": "Approvals", "clientdata": "{\"properties\":{\"definition\":{\"actions\":{\"Wait\":{\"type\":\"Wait\"}}},\"lastModified\":\"yesterday\"}}"}
]}`

const targetExport = `[
  {"workflowid": "t1", "name": "Invoice", "clientdata": "{\"properties\":{\"definition\":{\"actions\":{\"Send\":{\"inputs\":{\"uri\":\"https://prod.crm.dynamics.com/b\"},\"runAfter\":{}}}}}}"},
  {"workflowid": "t3", "name": "Approvals", "clientdata": "{\"properties\":{\"definition\":{\"actions\":{\"Wait\":{\"type\":\"Wait\"}}},\"lastModified\":\"today\"}}"}
]`

func writeExport(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func fileViper(t *testing.T) *viper.Viper {
	t.Helper()
	dir := t.TempDir()
	v := viper.New()
	v.Set("fetch.type", "file")
	v.Set("source.url", "https://dev.crm.dynamics.com")
	v.Set("source.file", writeExport(t, dir, "dev.json", sourceExport))
	v.Set("target.url", "https://prod.crm.dynamics.com")
	v.Set("target.file", writeExport(t, dir, "prod.json", targetExport))
	v.Set("settings.reporter", "json")
	v.Set("settings.reporter_config.json.pretty", false)
	return v
}

func runAndDecode(t *testing.T, v *viper.Viper) map[string]any {
	t.Helper()
	var stdout, logs bytes.Buffer
	application, err := BuildApplicationFromViper(context.Background(), v, WithStdout(&stdout), WithLogOutput(&logs))
	require.NoError(t, err)
	require.NoError(t, application.Run(context.Background()), logs.String())

	var doc map[string]any
	require.NoError(t, stdjson.Unmarshal(stdout.Bytes(), &doc), stdout.String())
	return doc
}

func TestBuildApplication_FileSourceEndToEnd(t *testing.T) {
	doc := runAndDecode(t, fileViper(t))

	assert.Equal(t, []any{"Approvals"}, doc["identical_flows"])
	assert.Equal(t, []any{"Invoice"}, doc["different_flows"])
	assert.Equal(t, []any{"Payroll"}, doc["missing_in_target"])

	comparisons := doc["comparisons"].([]any)
	require.Len(t, comparisons, 3)
	invoice := comparisons[1].(map[string]any)
	assert.Equal(t, "Invoice", invoice["name"])
	actions := invoice["action_differences"].([]any)
	require.Len(t, actions, 1)
	send := actions[0].(map[string]any)
	assert.Equal(t, "Send", send["action_name"])
	assert.Equal(t, "changed", send["status"])
	change := send["changed_properties"].([]any)[0].(map[string]any)
	assert.Equal(t, "$.inputs.uri", change["path"])
	assert.Equal(t, "https://<ENV_HOST>/a", change["source_value"])
	assert.Equal(t, "https://<ENV_HOST>/b", change["target_value"])
}

func TestBuildApplication_CLIOverrides(t *testing.T) {
	v := fileViper(t)
	v.Set(KeyNoDiff, true)
	// "uri" is stripped everywhere, so Invoice now matches.
	v.Set(KeyIgnoreKeysOverride, " uri, ,runAfter")

	doc := runAndDecode(t, v)

	assert.Equal(t, []any{"Approvals", "Invoice"}, doc["identical_flows"])
	for _, c := range doc["comparisons"].([]any) {
		assert.NotContains(t, c.(map[string]any), "diff")
	}
}

func TestBuildApplication_NameFilter(t *testing.T) {
	v := fileViper(t)
	v.Set("flows.name", "Payroll")

	doc := runAndDecode(t, v)
	assert.Equal(t, []any{"Payroll"}, doc["missing_in_target"])
	assert.Len(t, doc["comparisons"], 1)
}

func TestBuildApplication_DataverseSource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer static-tok", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"value":[{"workflowid":"w1","name":"Invoice","clientdata":"{\"properties\":{\"definition\":{}}}"}]}`)
	}))
	defer server.Close()

	v := viper.New()
	v.Set("source.url", server.URL)
	v.Set("target.url", server.URL)
	v.Set("auth.type", "static_token")
	v.Set("auth.token", "static-tok")
	v.Set("settings.reporter", "yaml")

	var stdout, logs bytes.Buffer
	application, err := BuildApplicationFromViper(context.Background(), v,
		WithStdout(&stdout), WithLogOutput(&logs), WithHTTPClient(server.Client()))
	require.NoError(t, err)
	require.NoError(t, application.Run(context.Background()), logs.String())

	assert.Regexp(t, `identical_flows:\n\s+- Invoice`, stdout.String())
}

func TestBuildApplication_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(v *viper.Viper)
		message string
	}{
		{"missing target url", func(v *viper.Viper) { v.Set("target.url", "") }, "Target.URL"},
		{"unknown reporter", func(v *viper.Viper) { v.Set("settings.reporter", "excel") }, "ReporterType"},
		{"bad concurrency", func(v *viper.Viper) { v.Set("settings.concurrency", 0) }, "Concurrency"},
		{"file fetch without files", func(v *viper.Viper) { v.Set("source.file", "") }, "source.file"},
		{"client credentials without secret", func(v *viper.Viper) {
			v.Set("fetch.type", "dataverse")
			v.Set("auth.tenant_id", "t")
			v.Set("auth.client_id", "c")
		}, "ClientSecret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := fileViper(t)
			tt.mutate(v)
			_, err := BuildApplicationFromViper(context.Background(), v, WithLogOutput(&bytes.Buffer{}))
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigValidation, errors.GetCode(err))
			msg, _, ok := errors.GetUserFacingMessage(err)
			assert.True(t, ok)
			assert.Contains(t, msg, tt.message)
		})
	}
}

func TestBuildApplication_DurationFromString(t *testing.T) {
	v := fileViper(t)
	v.Set("fetch.dataverse.timeout", "90s")
	v.Set("flows.ignore_keys", "foo,bar")

	application, err := BuildApplicationFromViper(context.Background(), v, WithLogOutput(&bytes.Buffer{}))
	require.NoError(t, err)
	assert.Equal(t, "1m30s", application.Config.Fetch.Dataverse.Timeout.String())
	assert.Equal(t, []string{"foo", "bar"}, application.Config.Flows.IgnoreKeys)
}

func TestParseIgnoreKeysOverride(t *testing.T) {
	assert.Nil(t, parseIgnoreKeysOverride(""))
	assert.Nil(t, parseIgnoreKeysOverride(" , "))
	assert.Equal(t, []string{"a", "b"}, parseIgnoreKeysOverride("a, b,"))
	assert.Equal(t, []string{"a", "b", "c"}, mergeKeys([]string{"a", "b"}, []string{"b", "c"}))
}
