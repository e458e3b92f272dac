// ABOUTME: Document management subcommands: list, upload, ingest, delete
// ABOUTME: The listing is the backend's source-keyed map flattened into rows

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/llm-se/sentinel-cli/internal/api"
)

var documentsCmd = &cobra.Command{
	Use:     "documents",
	Aliases: []string{"docs"},
	Short:   "Manage ingested documents",
}

var documentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := theApp.docs.Refresh(cmd.Context()); err != nil {
			return err
		}
		printDocuments(theApp.docs.List())
		return nil
	},
}

var documentsUploadCmd = &cobra.Command{
	Use:   "upload <file.pdf>",
	Short: "Upload a PDF for later ingestion",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening file: %w", err)
		}
		defer f.Close()

		if err := theApp.docs.Upload(cmd.Context(), filepath.Base(args[0]), f); err != nil {
			return err
		}
		color.Green("Uploaded %s", filepath.Base(args[0]))
		return nil
	},
}

var (
	ingestDepartment string
	ingestRole       int
	ingestClearance  int
)

var documentsIngestCmd = &cobra.Command{
	Use:   "ingest <file.pdf>",
	Short: "Chunk and embed an uploaded PDF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		err := theApp.docs.Ingest(cmd.Context(), api.PdfIngest{
			PdfFilename: args[0],
			Metadata: api.DocumentMeta{
				OwnerDepartment:   ingestDepartment,
				MinRoleLevel:      ingestRole,
				MinClearanceLevel: ingestClearance,
			},
		})
		if err != nil {
			return err
		}
		color.Green("Ingested %s", args[0])
		printDocuments(theApp.docs.List())
		return nil
	},
}

var documentsDeleteCmd = &cobra.Command{
	Use:   "delete <source>",
	Short: "Delete all chunks of a document by source filename",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := theApp.docs.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		color.Green("Deleted %s", args[0])
		printDocuments(theApp.docs.List())
		return nil
	},
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if !confirm(fmt.Sprintf("Delete all chunks of %q?", args[0])) {
			return fmt.Errorf("aborted")
		}
		return nil
	},
}

func printDocuments(rows []api.DocumentRow) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SOURCE\tDEPARTMENT\tMIN ROLE\tMIN CLEARANCE\tCHUNKS")
	for _, d := range rows {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\n", d.Source, d.OwnerDepartment, d.MinRoleLevel, d.MinClearanceLevel, d.Chunks)
	}
	w.Flush()
}

func init() {
	documentsIngestCmd.Flags().StringVar(&ingestDepartment, "department", "", "Owner department (required)")
	documentsIngestCmd.Flags().IntVar(&ingestRole, "min-role", 1, "Minimum role level")
	documentsIngestCmd.Flags().IntVar(&ingestClearance, "min-clearance", 1, "Minimum clearance level")

	documentsCmd.AddCommand(documentsListCmd)
	documentsCmd.AddCommand(documentsUploadCmd)
	documentsCmd.AddCommand(documentsIngestCmd)
	documentsCmd.AddCommand(documentsDeleteCmd)
}
