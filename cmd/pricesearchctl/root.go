package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pricewise/pricesearch"
	"github.com/pricewise/pricesearch/internal/domain"
)

// rootOptions holds flags shared by all commands.
type rootOptions struct {
	category  string
	keyPrefix string
	password  string
	timeout   time.Duration
	verbose   bool
}

// sourceOptions selects where catalogs are read from.
type sourceOptions struct {
	catalogFile string
	redis       string
	valkey      string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "pricesearchctl",
		Short: "Search product catalogs and manage them",
		Long: `pricesearchctl ranks free-text product queries against brand/model catalogs
stored in Redis or Valkey, or loaded from a local JSON file.`,
		SilenceUsage: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.category, "category", "c", domain.DefaultCategory, "product category")
	pf.StringVar(&opts.keyPrefix, "key-prefix", domain.KeyPrefix, "storage key prefix")
	pf.StringVar(&opts.password, "password", os.Getenv("PRICESEARCH_DB_PASSWORD"), "database password")
	pf.DurationVar(&opts.timeout, "timeout", 30*time.Second, "overall command timeout")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "log SDK operations to stderr")

	cmd.AddCommand(
		newSearchCmd(opts),
		newResolveCmd(opts),
		newCatalogCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

func addSourceFlags(cmd *cobra.Command, src *sourceOptions) {
	cmd.Flags().StringVarP(&src.catalogFile, "catalog-file", "f", "", "read the catalog from a JSON file")
	cmd.Flags().StringVar(&src.redis, "redis", "", "Redis address (host:port)")
	cmd.Flags().StringVar(&src.valkey, "valkey", "", "Valkey address (host:port)")
	cmd.MarkFlagsMutuallyExclusive("catalog-file", "redis", "valkey")
	cmd.MarkFlagsOneRequired("catalog-file", "redis", "valkey")
}

func (o *rootOptions) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), o.timeout)
}

// open creates an SDK client for the selected catalog source.
func (o *rootOptions) open(ctx context.Context, cmd *cobra.Command, src sourceOptions) (*pricesearch.Client, error) {
	opts := []pricesearch.Option{
		pricesearch.WithKeyPrefix(o.keyPrefix),
		pricesearch.WithDefaultCategory(o.category),
	}
	if o.verbose {
		h := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug})
		opts = append(opts, pricesearch.WithLogger(slog.New(h)))
	}

	switch {
	case src.catalogFile != "":
		doc, err := os.ReadFile(src.catalogFile)
		if err != nil {
			return nil, fmt.Errorf("read catalog file: %w", err)
		}
		opts = append(opts, pricesearch.WithStaticCatalog(o.category, doc))
	case src.redis != "":
		opts = append(opts, pricesearch.WithRedis(src.redis, o.password))
	case src.valkey != "":
		opts = append(opts, pricesearch.WithValkey(src.valkey, o.password))
	}

	client, err := pricesearch.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("open client: %w", err)
	}
	return client, nil
}
