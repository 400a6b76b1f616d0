package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
}

// CheckSummary holds summary statistics for a validated catalog.
type CheckSummary struct {
	Files     int `json:"files"`
	Types     int `json:"types"`
	Concepts  int `json:"concepts"`
	Functions int `json:"functions"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <catalog-dir>",
		Short: "Validate a CUE catalog",
		Long: `Validate CUE catalog definitions without writing anything.

All definition errors are collected and reported together.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args[0], cmd)
		},
	}

	return cmd
}

func runCheck(opts *CheckOptions, dir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	result, loadErrors := LoadCatalog(dir, LoadModeCollectAll)
	if result == nil && len(loadErrors) > 0 {
		return outputLoadError(formatter, loadErrors[0])
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", result.FileCount, dir)

	if len(loadErrors) > 0 {
		return outputCatalogErrors(formatter, loadErrors)
	}

	summary := CheckSummary{
		Files:     result.FileCount,
		Types:     len(result.Schema.Types()),
		Concepts:  len(result.Schema.Concepts()),
		Functions: len(result.Schema.Functions()),
	}
	if formatter.Format == "json" {
		return formatter.Success(summary)
	}
	fmt.Fprintf(formatter.Writer, "✓ Catalog valid: %d type(s), %d concept(s), %d function(s)\n",
		summary.Types, summary.Concepts, summary.Functions)
	return nil
}

// outputLoadError outputs a single loader error as a command error.
func outputLoadError(formatter *OutputFormatter, err error) error {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		_ = formatter.Error(loadErr.Code, loadErr.Message, nil)
		return WrapExitError(ExitCommandError, loadErr.Error(), nil)
	}
	_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
	return WrapExitError(ExitCommandError, err.Error(), nil)
}

// outputCatalogErrors outputs every catalog definition error.
func outputCatalogErrors(formatter *OutputFormatter, errs []error) error {
	if formatter.Format == "json" {
		cliErrors := make([]CLIError, len(errs))
		for i, err := range errs {
			code, message := parseLoadError(err)
			cliErrors[i] = CLIError{Code: code, Message: message}
		}
		response := CLIResponse{
			Status: "error",
			Error:  &cliErrors[0],
			Data:   cliErrors, // Include all errors in data
		}
		if err := jsonEncodeIndent(formatter, response); err != nil {
			return err
		}
		return NewExitError(ExitCommandError, fmt.Sprintf("catalog failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Catalog invalid")
	fmt.Fprintln(formatter.Writer)
	for _, err := range errs {
		code, message := parseLoadError(err)
		fmt.Fprintf(formatter.Writer, "  %s: %s\n", code, message)
	}
	return NewExitError(ExitCommandError, fmt.Sprintf("catalog failed with %d error(s)", len(errs)))
}

// parseLoadError extracts error code and message from an error.
func parseLoadError(err error) (string, string) {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code, loadErr.Message
	}
	return ErrCodeGeneric, err.Error()
}
