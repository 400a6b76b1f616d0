package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quernlang/quern/internal/store"
)

// BuildOptions holds flags for the build command.
type BuildOptions struct {
	*RootOptions
	Output string // catalog database path
}

// BuildResult summarizes what was written to the catalog store.
type BuildResult struct {
	Database  string `json:"database"`
	Types     int    `json:"types"`
	Concepts  int    `json:"concepts"`
	Functions int    `json:"functions"`
}

// NewBuildCommand creates the build command.
func NewBuildCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BuildOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "build <catalog-dir>",
		Short: "Compile a CUE catalog into a catalog database",
		Long: `Compile CUE catalog definitions into a SQLite catalog database.

The catalog is validated first; any definition error aborts the build.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "catalog.db", "catalog database path")

	return cmd
}

func runBuild(opts *BuildOptions, dir string, cmd *cobra.Command) error {
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

	st, err := store.Open(opts.Output)
	if err != nil {
		_ = formatter.Error(ErrCodeStoreError, fmt.Sprintf("opening catalog database: %v", err), nil)
		return WrapExitError(ExitCommandError, "opening catalog database", err)
	}
	defer st.Close()

	if err := st.Save(cmd.Context(), result.Schema); err != nil {
		_ = formatter.Error(ErrCodeStoreError, fmt.Sprintf("writing catalog: %v", err), nil)
		return WrapExitError(ExitCommandError, "writing catalog", err)
	}

	build := BuildResult{
		Database:  opts.Output,
		Types:     len(result.Schema.Types()),
		Concepts:  len(result.Schema.Concepts()),
		Functions: len(result.Schema.Functions()),
	}
	if formatter.Format == "json" {
		return formatter.Success(build)
	}
	fmt.Fprintf(formatter.Writer, "✓ Wrote %d type(s), %d concept(s), %d function(s) to %s\n",
		build.Types, build.Concepts, build.Functions, build.Database)
	return nil
}
