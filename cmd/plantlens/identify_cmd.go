package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"plantlens/internal/client"
	"plantlens/internal/models"
)

func newIdentifyCmd(a *app) *cobra.Command {
	var serverURL string

	cmd := &cobra.Command{
		Use:   "identify <image>",
		Short: "Upload an image to a plantlens server and print what it found",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			image, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			c := client.New(serverURL, nil, a.log)
			display, err := c.Identify(cmd.Context(), filepath.Base(args[0]), image)
			if err != nil {
				return err
			}

			printDisplay(cmd.OutOrStdout(), display)
			return nil
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", "http://localhost:8080", "Base URL of the plantlens API")
	return cmd
}

func printDisplay(w io.Writer, d *models.PlantDisplay) {
	fields := []struct {
		label string
		value string
	}{
		{"Name", d.Name},
		{"Scientific Name", d.ScientificName},
		{"Family", d.Family},
		{"Description", d.Descript},
		{"Sunlight", d.Sunlight},
		{"Watering", d.Watering},
		{"Care Instructions", d.CareInstructions.Other},
		{"Plant Health", d.PlantHealth},
		{"Additional Information", d.AdditionalInfo},
	}
	for _, f := range fields {
		fmt.Fprintf(w, "%s:\n%s\n\n", f.label, f.value)
	}
}
