package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/quernlang/quern/internal/harness"
	"github.com/quernlang/quern/internal/schema"
	"github.com/quernlang/quern/internal/sema"
	"github.com/quernlang/quern/internal/store"
)

// AnalyzeOptions holds flags for the analyze command.
type AnalyzeOptions struct {
	*RootOptions
	Catalog  string // CUE catalog directory
	Database string // catalog database path
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AnalyzeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "analyze <fixture.yaml>",
		Short: "Run semantic analysis over an expression fixture",
		Long: `Run type inference, parameter inference, and path analysis over a
YAML expression fixture and print the analysis report.

The schema comes from either a CUE catalog directory (--catalog) or a
catalog database built beforehand (--db).`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Catalog, "catalog", "", "CUE catalog directory")
	cmd.Flags().StringVar(&opts.Database, "db", "", "catalog database path")

	return cmd
}

func runAnalyze(opts *AnalyzeOptions, fixturePath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cat, err := analysisSchema(opts, cmd)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	runID := uuid.Must(uuid.NewV7()).String()
	formatter.VerboseLog("Analysis run %s", runID)

	fixture, err := harness.LoadFixture(fixturePath)
	if err != nil {
		_ = formatter.Error(ErrCodeNotFound, err.Error(), nil)
		return WrapExitError(ExitCommandError, "loading fixture", err)
	}

	expr, err := harness.NewDecoder(cat).Decode(fixture)
	if err != nil {
		_ = formatter.Error(ErrCodeAnalysis, err.Error(), nil)
		return WrapExitError(ExitFailure, "decoding fixture", err)
	}

	if len(fixture.Params) > 0 {
		sema.InlineConstants(expr, fixture.Params)
		formatter.VerboseLog("Inlined %d parameter value(s)", len(fixture.Params))
	}

	report := harness.Analyze(fixture.Name, expr, cat)

	if formatter.Format == "json" {
		return jsonEncodeIndent(formatter, CLIResponse{
			Status: "ok",
			Data:   report,
			RunID:  runID,
		})
	}
	fmt.Fprint(formatter.Writer, report.Render())
	return nil
}

// analysisSchema resolves the schema source for an analysis run. The demo
// catalog backs runs that name no source, so fixtures work out of the box.
func analysisSchema(opts *AnalyzeOptions, cmd *cobra.Command) (*schema.Schema, error) {
	switch {
	case opts.Catalog != "" && opts.Database != "":
		return nil, &LoadError{Code: ErrCodeGeneric, Message: "--catalog and --db are mutually exclusive"}

	case opts.Catalog != "":
		result, errs := LoadCatalog(opts.Catalog, LoadModeFailFast)
		if len(errs) > 0 {
			return nil, errs[0]
		}
		return result.Schema, nil

	case opts.Database != "":
		st, err := store.Open(opts.Database)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeStoreError, Message: fmt.Sprintf("opening catalog database: %v", err)}
		}
		defer st.Close()
		cat, err := st.Load(cmd.Context())
		if err != nil {
			return nil, &LoadError{Code: ErrCodeStoreError, Message: fmt.Sprintf("loading catalog: %v", err)}
		}
		return cat, nil

	default:
		cat, err := harness.DemoCatalog()
		if err != nil {
			return nil, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("building demo catalog: %v", err)}
		}
		return cat, nil
	}
}
