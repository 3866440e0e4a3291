// Command progressctl is the operator tool for the progression engine: it
// validates catalogues before deploy, previews how a participant would see
// the mission map and eligibility targets, and mints eligibility tokens for
// testing partner integrations against dev keys.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

const (
	exitSuccess = 0
	exitError   = 1
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(exitError)
	}
	os.Exit(exitSuccess)
}

type rootOptions struct {
	catalogPath string
	json        bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "progressctl",
		Short:         "Operate the Impulsa progression engine",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&opts.catalogPath, "catalog", os.Getenv("CATALOG_PATH"),
		"catalogue YAML file (defaults to the embedded catalogue)")
	root.PersistentFlags().BoolVar(&opts.json, "json", false, "print machine-readable JSON")

	root.AddCommand(
		newCatalogCmd(opts),
		newMissionsCmd(opts),
		newTokenCmd(opts),
	)
	return root
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
