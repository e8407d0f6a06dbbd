package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ethstm/ethstm/internal/canon"
	"github.com/ethstm/ethstm/internal/runner"
	"github.com/ethstm/ethstm/internal/translator"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Runner string
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <template>",
		Short: "Translate a template and execute it with a state-test runner",
		Long: `Translate a suite template and feed the normalized document to an
external state-test runner on its standard input. The runner's exit status
is the final success or failure signal of the pipeline.

Example:
  ethstm run suite.json --runner ethtest`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Runner, "runner", "", "state-test runner program (required)")
	_ = cmd.MarkFlagRequired("runner")

	return cmd
}

func runRun(opts *RunOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	doc, err := LoadTemplate(path)
	if err != nil {
		return handleLoadError(formatter, err)
	}

	trans := translator.New()
	out, err := trans.Translate(doc)
	if err != nil {
		return handleSchemaError(formatter, err)
	}

	data, err := canon.Marshal(out)
	if err != nil {
		return outputTranslateError(formatter, ErrCodeGeneric, err.Error())
	}
	data = append(data, '\n')

	formatter.VerboseLog("Handing %d test case(s) to %s", len(out), opts.Runner)

	r := runner.New(opts.Runner)
	r.Stdout = cmd.OutOrStdout()
	r.Stderr = cmd.ErrOrStderr()
	if err := r.Run(data); err != nil {
		var exitErr *runner.ExitError
		if errors.As(err, &exitErr) {
			return &ExitError{
				Code:    ExitFailure,
				Message: fmt.Sprintf("state tests failed: %v", exitErr),
				Err:     exitErr,
			}
		}
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return &ExitError{Code: ExitCommandError, Message: err.Error(), Err: err}
	}

	if formatter.Format != "json" {
		fmt.Fprintf(formatter.Writer, "✓ %d test case(s) passed\n", len(out))
		return nil
	}
	return jsonEncoder(formatter).Encode(CLIResponse{
		Status: "ok",
		Data:   map[string]any{"cases": len(out)},
	})
}
