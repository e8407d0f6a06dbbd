package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ethstm/ethstm/internal/canon"
	"github.com/ethstm/ethstm/internal/schema"
	"github.com/ethstm/ethstm/internal/translator"
)

// TranslateOptions holds flags for the translate command.
type TranslateOptions struct {
	*RootOptions
	Output string // output file path
}

// NewTranslateCommand creates the translate command.
func NewTranslateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TranslateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "translate [template...]",
		Short: "Translate suite templates to normalized state tests",
		Long: `Translate suite templates to normalized state test documents.

Each template is validated against the suite schema and its transaction
data shorthand (hex:, compile:) expanded to literal 0x-prefixed hex. With
no arguments the template is read as JSON from stdin and the normalized
document written to stdout. Each file is translated with a fresh compile
cache, so compilation is never shared across independent templates.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path (single template only)")

	return cmd
}

func runTranslate(opts *TranslateOptions, args []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if opts.Output != "" && len(args) != 1 {
		return outputTranslateError(formatter, ErrCodeGeneric,
			"--output requires exactly one template argument")
	}

	// Stdin mode: behave as a plain filter.
	if len(args) == 0 {
		doc, err := ReadTemplate(cmd.InOrStdin())
		if err != nil {
			return handleLoadError(formatter, err)
		}
		out, err := translateDoc(formatter, doc)
		if err != nil {
			return err
		}
		return emit(formatter, out, opts.Output)
	}

	for _, path := range args {
		formatter.VerboseLog("Translating %s", path)
		doc, err := LoadTemplate(path)
		if err != nil {
			return handleLoadError(formatter, err)
		}
		out, err := translateDoc(formatter, doc)
		if err != nil {
			return err
		}
		if err := emit(formatter, out, opts.Output); err != nil {
			return err
		}
	}
	return nil
}

// translateDoc runs one document through a fresh translator.
func translateDoc(formatter *OutputFormatter, doc map[string]any) (map[string]any, error) {
	trans := translator.New()
	out, err := trans.Translate(doc)
	if err != nil {
		return nil, handleSchemaError(formatter, err)
	}
	return out, nil
}

// emit serializes a normalized document deterministically and writes it to
// the output file, or to stdout when no file is given.
func emit(formatter *OutputFormatter, doc map[string]any, outputPath string) error {
	if formatter.Format == "json" {
		return emitJSONEnvelope(formatter, doc, outputPath)
	}

	data, err := canon.Marshal(doc)
	if err != nil {
		return outputTranslateError(formatter, ErrCodeGeneric, err.Error())
	}
	data = append(data, '\n')

	if outputPath != "" {
		if err := os.WriteFile(outputPath, data, 0o644); err != nil {
			return outputTranslateError(formatter, ErrCodeWriteFailed,
				fmt.Sprintf("writing output file: %v", err))
		}
		return nil
	}
	_, err = formatter.Writer.Write(data)
	return err
}

func emitJSONEnvelope(formatter *OutputFormatter, doc map[string]any, outputPath string) error {
	if outputPath != "" {
		data, err := canon.Marshal(doc)
		if err != nil {
			return outputTranslateError(formatter, ErrCodeGeneric, err.Error())
		}
		if err := os.WriteFile(outputPath, append(data, '\n'), 0o644); err != nil {
			return outputTranslateError(formatter, ErrCodeWriteFailed,
				fmt.Sprintf("writing output file: %v", err))
		}
	}
	enc := jsonEncoder(formatter)
	return enc.Encode(CLIResponse{Status: "ok", Data: doc})
}

// handleSchemaError reports a schema violation and maps it to exit code 1.
func handleSchemaError(formatter *OutputFormatter, err error) error {
	var se *schema.Error
	if errors.As(err, &se) {
		_ = formatter.Error(se.Code, se.Error(), se)
		return &ExitError{Code: ExitFailure, Message: se.Error(), Err: se}
	}
	_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
	return &ExitError{Code: ExitFailure, Message: err.Error(), Err: err}
}

// handleLoadError reports a template load failure and maps it to exit code 2.
func handleLoadError(formatter *OutputFormatter, err error) error {
	var le *LoadError
	if errors.As(err, &le) {
		_ = formatter.Error(le.Code, le.Error(), nil)
		return &ExitError{Code: ExitCommandError, Message: le.Error(), Err: le}
	}
	_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
	return &ExitError{Code: ExitCommandError, Message: err.Error(), Err: err}
}

func outputTranslateError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}
