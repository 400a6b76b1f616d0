package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/quernlang/quern/internal/schema"
	"github.com/quernlang/quern/internal/store"
)

// CatalogOptions holds flags for the catalog command.
type CatalogOptions struct {
	*RootOptions
	Database string
}

// CatalogListing describes the contents of a catalog database.
type CatalogListing struct {
	Concepts  []ConceptListing  `json:"concepts"`
	Functions []FunctionListing `json:"functions"`
}

// ConceptListing is one concept with its resolvable pointers.
type ConceptListing struct {
	Name     string   `json:"name"`
	Bases    []string `json:"bases,omitempty"`
	Pointers []string `json:"pointers,omitempty"`
}

// FunctionListing is one registered function.
type FunctionListing struct {
	Name    string `json:"name"`
	Returns string `json:"returns"`
}

// NewCatalogCommand creates the catalog command.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CatalogOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "catalog",
		Short:         "List the contents of a catalog database",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalog(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "catalog.db", "catalog database path")

	return cmd
}

func runCatalog(opts *CatalogOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		_ = formatter.Error(ErrCodeStoreError, fmt.Sprintf("opening catalog database: %v", err), nil)
		return WrapExitError(ExitCommandError, "opening catalog database", err)
	}
	defer st.Close()

	cat, err := st.Load(cmd.Context())
	if err != nil {
		_ = formatter.Error(ErrCodeStoreError, fmt.Sprintf("loading catalog: %v", err), nil)
		return WrapExitError(ExitCommandError, "loading catalog", err)
	}

	listing := buildListing(cat)
	if formatter.Format == "json" {
		return formatter.Success(listing)
	}

	fmt.Fprintf(formatter.Writer, "Catalog %s\n\n", opts.Database)
	if len(listing.Concepts) > 0 {
		fmt.Fprintln(formatter.Writer, "Concepts:")
		for _, c := range listing.Concepts {
			fmt.Fprintf(formatter.Writer, "  %s", c.Name)
			if len(c.Bases) > 0 {
				fmt.Fprintf(formatter.Writer, " extends %v", c.Bases)
			}
			fmt.Fprintln(formatter.Writer)
			for _, p := range c.Pointers {
				fmt.Fprintf(formatter.Writer, "    %s\n", p)
			}
		}
		fmt.Fprintln(formatter.Writer)
	}
	if len(listing.Functions) > 0 {
		fmt.Fprintln(formatter.Writer, "Functions:")
		for _, f := range listing.Functions {
			fmt.Fprintf(formatter.Writer, "  %s -> %s\n", f.Name, f.Returns)
		}
	}
	return nil
}

func buildListing(cat *schema.Schema) CatalogListing {
	var listing CatalogListing
	for _, c := range cat.Concepts() {
		entry := ConceptListing{Name: string(c.TypeName())}
		for _, base := range c.Bases {
			entry.Bases = append(entry.Bases, string(base.TypeName()))
		}
		for name, ptr := range c.Pointers {
			target := "?"
			if ptr.Target != nil {
				target = string(ptr.Target.TypeName())
			}
			entry.Pointers = append(entry.Pointers, fmt.Sprintf("%s: %s", name, target))
		}
		sort.Strings(entry.Pointers)
		listing.Concepts = append(listing.Concepts, entry)
	}
	for _, f := range cat.Functions() {
		returns := "?"
		if f.ReturnType != nil {
			returns = string(f.ReturnType.TypeName())
		}
		listing.Functions = append(listing.Functions, FunctionListing{
			Name:    string(f.FunctionName()),
			Returns: returns,
		})
	}
	return listing
}
