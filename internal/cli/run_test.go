package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunPipesSuiteToRunner(t *testing.T) {
	path := writeFile(t, "suite.json", sampleTemplate)

	// cat echoes the handoff document back, so the normalized suite shows
	// up on stdout followed by the summary line.
	stdout, _, err := execute(t, "", "run", path, "--runner", "cat")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"data": "0xaa"`)
	assert.Contains(t, stdout, "1 test case(s) passed")
}

func TestRunFailingRunnerExitsOne(t *testing.T) {
	path := writeFile(t, "suite.json", sampleTemplate)

	_, _, err := execute(t, "", "run", path, "--runner", "false")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestRunMissingRunnerProgramExitsTwo(t *testing.T) {
	path := writeFile(t, "suite.json", sampleTemplate)

	_, _, err := execute(t, "", "run", path, "--runner", "ethstm-no-such-runner")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRunRequiresRunnerFlag(t *testing.T) {
	path := writeFile(t, "suite.json", sampleTemplate)

	_, _, err := execute(t, "", "run", path)
	require.Error(t, err)
}

func TestRunSchemaViolationExitsOne(t *testing.T) {
	path := writeFile(t, "bad.json", `{"case1": {"env": {}}}`)

	_, _, err := execute(t, "", "run", path, "--runner", "cat")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}
