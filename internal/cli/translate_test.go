package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTemplate = `{
  "case1": {
    "env": {},
    "logs": [],
    "out": "",
    "post": {},
    "postStateRoot": "",
    "pre": {},
    "transaction": {
      "data": "hex:aa",
      "gasLimit": "100",
      "gasPrice": "1",
      "nonce": "0",
      "secretKey": "1111111111111111111111111111111111111111111111111111111111111111",
      "to": "2222222222222222222222222222222222222222",
      "value": "0"
    }
  }
}`

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if stdin != "" {
		cmd.SetIn(strings.NewReader(stdin))
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestTranslateStdinToStdout(t *testing.T) {
	stdout, _, err := execute(t, sampleTemplate, "translate")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))

	tx := doc["case1"].(map[string]any)["transaction"].(map[string]any)
	assert.Equal(t, "0xaa", tx["data"])
}

func TestTranslateFileArgument(t *testing.T) {
	path := writeFile(t, "suite.json", sampleTemplate)

	stdout, _, err := execute(t, "", "translate", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, `"data": "0xaa"`)
}

func TestTranslateOutputSorted(t *testing.T) {
	stdout, _, err := execute(t, sampleTemplate, "translate")
	require.NoError(t, err)

	// Keys are serialized in sorted order for reproducibility.
	assert.Less(t, strings.Index(stdout, `"data"`), strings.Index(stdout, `"gasLimit"`))
	assert.Less(t, strings.Index(stdout, `"env"`), strings.Index(stdout, `"transaction"`))
}

func TestTranslateOutputFlag(t *testing.T) {
	in := writeFile(t, "suite.json", sampleTemplate)
	out := filepath.Join(t.TempDir(), "out.json")

	stdout, _, err := execute(t, "", "translate", in, "-o", out)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"data": "0xaa"`)
}

func TestTranslateOutputFlagNeedsOneArgument(t *testing.T) {
	a := writeFile(t, "a.json", sampleTemplate)
	b := writeFile(t, "b.json", sampleTemplate)

	_, _, err := execute(t, "", "translate", a, b, "-o", "out.json")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTranslateSchemaViolationExitsOne(t *testing.T) {
	bad := strings.Replace(sampleTemplate, `"2222222222222222222222222222222222222222"`,
		`"222222222222222222222222222222222222222"`, 1) // 39 chars
	path := writeFile(t, "bad.json", bad)

	_, stderr, err := execute(t, "", "translate", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stderr, "transaction.to")
}

func TestTranslateNullStdinRejected(t *testing.T) {
	stdout, _, err := execute(t, "null", "translate")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Empty(t, stdout, "no document may be emitted for a null template")
}

func TestTranslateNullTemplateFileRejected(t *testing.T) {
	path := writeFile(t, "null.json", `null`)

	stdout, _, err := execute(t, "", "translate", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Empty(t, stdout)
}

func TestTranslateMissingTemplateExitsTwo(t *testing.T) {
	_, _, err := execute(t, "", "translate", filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTranslateJSONFormatEnvelope(t *testing.T) {
	stdout, _, err := execute(t, sampleTemplate, "translate", "--format", "json")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.NotNil(t, resp.Data)
}

func TestTranslateJSONFormatSchemaError(t *testing.T) {
	bad := `{"case1": {"env": {}}}`

	stdout, _, err := execute(t, bad, "translate", "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E101", resp.Error.Code)
}

func TestTranslateYAMLTemplate(t *testing.T) {
	yamlTemplate := `case1:
  env: {}
  logs: []
  out: ""
  post: {}
  postStateRoot: ""
  pre: {}
  transaction:
    data: "hex:aa"
    gasLimit: "100"
    gasPrice: "1"
    nonce: "0"
    secretKey: "1111111111111111111111111111111111111111111111111111111111111111"
    to: "2222222222222222222222222222222222222222"
    value: "0"
`
	path := writeFile(t, "suite.yaml", yamlTemplate)

	stdout, _, err := execute(t, "", "translate", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, `"data": "0xaa"`)
}
