package main

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"plantlens/internal/repositories"
	"plantlens/internal/services"
)

type catalogOpener func(ctx context.Context) (repositories.Catalog, string, func(), error)

func newSchemaVisualizeCmd(open catalogOpener) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "schema:visualize",
		Short: "Generate a visual representation of the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			catalog, schema, closeFn, err := open(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			var buf bytes.Buffer
			svc := services.NewSchemaService(catalog)
			if err := svc.Render(ctx, &buf, schema, services.FormatForPath(output)); err != nil {
				return err
			}

			if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Schema visualization saved to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVar(&output, "output", "schema.svg", "Output file path (.mmd writes a Mermaid diagram)")
	return cmd
}
