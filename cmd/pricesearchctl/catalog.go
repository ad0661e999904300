package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pricewise/pricesearch"
)

func newCatalogCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Validate and load catalog documents",
	}
	cmd.AddCommand(newCatalogLoadCmd(root), newCatalogCheckCmd(root))
	return cmd
}

func newCatalogLoadCmd(root *rootOptions) *cobra.Command {
	var src sourceOptions

	cmd := &cobra.Command{
		Use:   "load <file>",
		Short: "Validate a catalog document and store it for a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read catalog file: %w", err)
			}

			ctx, cancel := root.context(cmd)
			defer cancel()

			client, err := root.open(ctx, cmd, src)
			if err != nil {
				return err
			}
			defer client.Close()

			report, err := client.LoadCatalog(ctx, root.category, doc)
			if err != nil {
				return err //nolint:wrapcheck // already wrapped by the SDK
			}
			fmt.Fprintf(cmd.OutOrStdout(), "stored catalog %s\n", report.Category)
			printReport(cmd.OutOrStdout(), report)
			return nil
		},
	}

	cmd.Flags().StringVar(&src.redis, "redis", "", "Redis address (host:port)")
	cmd.Flags().StringVar(&src.valkey, "valkey", "", "Valkey address (host:port)")
	cmd.MarkFlagsMutuallyExclusive("redis", "valkey")
	cmd.MarkFlagsOneRequired("redis", "valkey")
	return cmd
}

var errCatalogIssues = errors.New("catalog has issues")

func newCatalogCheckCmd(root *rootOptions) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Decode a catalog document and print the records that would be skipped",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read catalog file: %w", err)
			}

			report, err := pricesearch.CheckCatalog(root.category, doc)
			if err != nil {
				return err //nolint:wrapcheck // already wrapped by the SDK
			}
			printReport(cmd.OutOrStdout(), report)
			if strict && len(report.Issues) > 0 {
				return fmt.Errorf("%w: %d skipped records", errCatalogIssues, len(report.Issues))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "fail when any record would be skipped")
	return cmd
}

func printReport(w io.Writer, r pricesearch.CatalogReport) {
	fmt.Fprintf(w, "%d brands, %d models, %d issues\n", r.Brands, r.Models, len(r.Issues))
	for _, is := range r.Issues {
		fmt.Fprintf(w, "  %s\n", is)
	}
}
