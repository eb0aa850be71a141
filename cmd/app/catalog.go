package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wichananm65/smoothie-order-form/internal/catalog"
	"github.com/wichananm65/smoothie-order-form/internal/database"
)

var catalogJSON bool

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the orderable fruits and their lookup keys",
	Args:  cobra.NoArgs,
	RunE:  runCatalog,
}

func init() {
	catalogCmd.Flags().BoolVar(&catalogJSON, "json", false, "Print as JSON")
}

func runCatalog(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	db, err := database.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer db.Close()

	items, err := catalog.NewService(catalog.NewPostgresRepository(db, cfg.Store.CatalogTable), log).ListIngredients(cmd.Context())
	if err != nil {
		log.Error("catalog command failed", zap.Error(err))
		return err
	}

	out := cmd.OutOrStdout()
	if catalogJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FRUIT_NAME\tSEARCH_ON")
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\n", it.Name, it.LookupKey)
	}
	return tw.Flush()
}
