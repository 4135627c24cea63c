package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swiftype/app-search-go/internal/apitest"
)

// execute runs rootCmd with args and returns stdout. Flag variables are
// reset afterwards since they live at package level. Subcommands keep the
// first context they were run with, so it is cleared before every run.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	clearContexts(rootCmd)
	out := new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		configPath, accountKey, apiKey, baseURL = "", "", "", ""
		logLevel, logFormat, timeoutSecs = "", "", 0
		documentsFile, searchOptions = "-", ""
	}()

	err := rootCmd.ExecuteContext(t.Context())
	return out.String(), err
}

func clearContexts(cmd *cobra.Command) {
	cmd.SetContext(nil) //nolint:staticcheck // cobra only fills a nil context
	for _, sub := range cmd.Commands() {
		clearContexts(sub)
	}
}

func startServer(t *testing.T) (*apitest.Server, []string) {
	t.Helper()
	t.Setenv("APPSEARCH_ACCOUNT_HOST_KEY", "")
	t.Setenv("APPSEARCH_API_KEY", "")
	t.Setenv("APPSEARCH_BASE_URL", "")

	srv := apitest.NewServer("secret")
	t.Cleanup(srv.Close)
	return srv, []string{"--account", "host-test", "--api-key", "secret", "--base-url", srv.BaseURL()}
}

func TestEnginesCommands(t *testing.T) {
	_, flags := startServer(t)

	out, err := execute(t, "", append([]string{"engines", "create", "books"}, flags...)...)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"books","type":"default","language":null}`, out)

	out, err = execute(t, "", append([]string{"engines", "list"}, flags...)...)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"books","type":"default","language":null}]`, out)

	out, err = execute(t, "", append([]string{"engines", "get", "books"}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, `"books"`)

	out, err = execute(t, "", append([]string{"engines", "destroy", "books"}, flags...)...)
	require.NoError(t, err)
	assert.JSONEq(t, `{"deleted":true}`, out)

	_, err = execute(t, "", append([]string{"engines", "get", "books"}, flags...)...)
	assert.Error(t, err)
}

func TestDocumentsCommands(t *testing.T) {
	srv, flags := startServer(t)
	srv.AddEngine("books")

	input := `[{"id":"1","title":"Dune"},{"id":"2","title":"Hyperion"}]`
	out, err := execute(t, input, append([]string{"documents", "index", "books"}, flags...)...)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"1","errors":[]},{"id":"2","errors":[]}]`, out)

	out, err = execute(t, "", append([]string{"docs", "get", "books", "1", "3"}, flags...)...)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"1","title":"Dune"},null]`, out)

	out, err = execute(t, "", append([]string{"search", "books", "hyper"}, flags...)...)
	require.NoError(t, err)
	var res map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Len(t, res["results"], 1)

	out, err = execute(t, "", append([]string{"documents", "destroy", "books", "1"}, flags...)...)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"1","result":true}]`, out)
}

func TestDocumentsIndex_SingleFromFile(t *testing.T) {
	srv, flags := startServer(t)
	srv.AddEngine("books")
	srv.SetIndexErrors("bad", "some processing error")

	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"id":"bad"}`), 0o600))

	_, err := execute(t, "", append([]string{"documents", "index", "books", "--file", path}, flags...)...)
	assert.EqualError(t, err, "some processing error")
}

func TestDocumentsIndex_MissingIDSendsNothing(t *testing.T) {
	srv, flags := startServer(t)
	srv.AddEngine("books")

	_, err := execute(t, `[{"title":"no id"}]`, append([]string{"documents", "index", "books"}, flags...)...)
	assert.EqualError(t, err, "Missing required fields: id")
	assert.Empty(t, srv.Requests())
}

func TestSearch_InvalidOptions(t *testing.T) {
	_, flags := startServer(t)

	_, err := execute(t, "", append([]string{"search", "books", "q", "--options", "{"}, flags...)...)
	assert.ErrorContains(t, err, "invalid --options")
}

func TestSearch_RequiresTwoArgs(t *testing.T) {
	_, err := execute(t, "", "search", "books")
	assert.ErrorContains(t, err, "accepts 2 arg(s)")
}

func TestMissingCredentials(t *testing.T) {
	t.Setenv("APPSEARCH_ACCOUNT_HOST_KEY", "")
	t.Setenv("APPSEARCH_API_KEY", "")

	_, err := execute(t, "", "engines", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api_key is required")
}

func TestConfigFile(t *testing.T) {
	srv, _ := startServer(t)
	srv.AddEngine("books")

	t.Setenv("TEST_CLI_API_KEY", "secret")
	path := filepath.Join(t.TempDir(), "appsearch.yaml")
	cfg := "account_host_key: host-test\napi_key: ${TEST_CLI_API_KEY}\nbase_url: " + srv.BaseURL() + "\n"
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))

	out, err := execute(t, "", "engines", "list", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"books"`)
}

func TestCommandsRunAgainAfterEarlierContextEnds(t *testing.T) {
	srv, flags := startServer(t)
	srv.AddEngine("books")

	for _, name := range []string{"first", "second"} {
		t.Run(name, func(t *testing.T) {
			out, err := execute(t, "", append([]string{"engines", "list"}, flags...)...)
			require.NoError(t, err)
			assert.Contains(t, out, `"books"`)
		})
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "appsearch dev"))
}

func TestParseDocuments(t *testing.T) {
	single, docs, err := parseDocuments([]byte(` {"id":"1"} `))
	require.NoError(t, err)
	assert.True(t, single)
	require.Len(t, docs, 1)

	single, docs, err = parseDocuments([]byte(`[{"id":"1"},{"id":"2"}]`))
	require.NoError(t, err)
	assert.False(t, single)
	assert.Len(t, docs, 2)

	for _, bad := range []string{"", "[]", "nope", `{"id":`} {
		_, _, err := parseDocuments([]byte(bad))
		assert.Error(t, err, "input %q", bad)
	}
}
