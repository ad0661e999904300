package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pricewise/pricesearch"
)

func newSearchCmd(root *rootOptions) *cobra.Command {
	var (
		src     sourceOptions
		asJSON  bool
		maxRows int
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Rank catalog brands and models for a query",
		Long: `Ranks the brands and models of a category catalog against a free-text query.
Scores are in [0, 1]; ties are ordered by brand and model name.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := root.context(cmd)
			defer cancel()

			client, err := root.open(ctx, cmd, src)
			if err != nil {
				return err
			}
			defer client.Close()

			res, err := client.Search(ctx, root.category, strings.Join(args, " "))
			if err != nil {
				return err //nolint:wrapcheck // already wrapped by the SDK
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), searchOutput(res))
			}
			printSearch(cmd.OutOrStdout(), res, maxRows)
			return nil
		},
	}

	addSourceFlags(cmd, &src)
	cmd.Flags().BoolVar(&asJSON, "json", false, "output results as JSON")
	cmd.Flags().IntVarP(&maxRows, "limit", "n", 10, "maximum number of models to print")
	return cmd
}

func newResolveCmd(root *rootOptions) *cobra.Command {
	var (
		src    sourceOptions
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "resolve <query>",
		Short: "Decide whether a query names one model, one brand or neither",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := root.context(cmd)
			defer cancel()

			client, err := root.open(ctx, cmd, src)
			if err != nil {
				return err
			}
			defer client.Close()

			res, err := client.Resolve(ctx, root.category, strings.Join(args, " "))
			if err != nil {
				return err //nolint:wrapcheck // already wrapped by the SDK
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), resolveOutput{
					Kind:       string(res.Kind),
					Brand:      res.Brand,
					Model:      res.Model,
					ModelImage: res.Image,
					Result:     searchOutput(res.Result),
				})
			}
			printResolution(cmd.OutOrStdout(), res)
			return nil
		},
	}

	addSourceFlags(cmd, &src)
	cmd.Flags().BoolVar(&asJSON, "json", false, "output the resolution as JSON")
	return cmd
}

type brandOutput struct {
	Brand string  `json:"brand"`
	Score float64 `json:"score"`
}

type modelOutput struct {
	Brand      string  `json:"brand"`
	Model      string  `json:"model"`
	ModelImage string  `json:"model_image,omitempty"`
	Score      float64 `json:"score"`
}

type searchJSON struct {
	Brands []brandOutput `json:"brands"`
	Models []modelOutput `json:"models"`
}

type resolveOutput struct {
	Kind       string     `json:"kind"`
	Brand      string     `json:"brand,omitempty"`
	Model      string     `json:"model,omitempty"`
	ModelImage string     `json:"model_image,omitempty"`
	Result     searchJSON `json:"result"`
}

func searchOutput(res pricesearch.SearchResult) searchJSON {
	out := searchJSON{
		Brands: make([]brandOutput, len(res.Brands)),
		Models: make([]modelOutput, len(res.Models)),
	}
	for i, b := range res.Brands {
		out.Brands[i] = brandOutput{Brand: b.Brand, Score: b.Score}
	}
	for i, m := range res.Models {
		out.Models[i] = modelOutput{Brand: m.Brand, Model: m.Model, ModelImage: m.Image, Score: m.Score}
	}
	return out
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

func printSearch(w io.Writer, res pricesearch.SearchResult, maxRows int) {
	if len(res.Brands) == 0 && len(res.Models) == 0 {
		fmt.Fprintln(w, "No matches found.")
		return
	}

	if len(res.Brands) > 0 {
		fmt.Fprintln(w, "Brands:")
		for _, b := range res.Brands {
			fmt.Fprintf(w, "  %s (%.2f)\n", b.Brand, b.Score)
		}
	}
	if len(res.Models) > 0 {
		fmt.Fprintln(w, "Models:")
		for i, m := range res.Models {
			if maxRows > 0 && i >= maxRows {
				fmt.Fprintf(w, "  ... %d more\n", len(res.Models)-maxRows)
				break
			}
			fmt.Fprintf(w, "  [%d] %s %s (%.2f)\n", i+1, m.Brand, m.Model, m.Score)
		}
	}
}

func printResolution(w io.Writer, res pricesearch.Resolution) {
	switch res.Kind {
	case pricesearch.KindModel:
		fmt.Fprintf(w, "model: %s %s\n", res.Brand, res.Model)
		if res.Image != "" {
			fmt.Fprintf(w, "image: %s\n", res.Image)
		}
	case pricesearch.KindBrand:
		fmt.Fprintf(w, "brand: %s\n", res.Brand)
	default:
		fmt.Fprintln(w, "candidates:")
		printSearch(w, res.Result, 5)
	}
}
