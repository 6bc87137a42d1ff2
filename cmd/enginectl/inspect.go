package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/WessleyAI/wessley-engines/engine/content"
	"github.com/WessleyAI/wessley-engines/engine/jsonld"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List brands and engine pages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := a.open()
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(a.out)
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Brand", "Code", "Title", "Models", "Issues", "FAQs", "Modified"})
			for _, brand := range cat.Brands() {
				for _, code := range cat.Codes(brand) {
					page, err := cat.Lookup(brand, code)
					if err != nil {
						return err
					}
					t.AppendRow(table.Row{
						brand,
						code,
						page.Metadata.Title,
						len(page.CompatibleModels.Models),
						len(page.Reliability.Issues),
						len(page.FAQs),
						page.Metadata.Modified,
					})
				}
			}
			t.AppendFooter(table.Row{"", "", "Total", cat.Len()})
			t.Render()
			return nil
		},
	}
}

func (a *app) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <brand> <code>",
		Short: "Print one engine page as JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := a.lookup(args[0], args[1])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(a.out)
			enc.SetIndent("", "  ")
			return enc.Encode(page)
		},
	}
}

func (a *app) schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema <brand> <code>",
		Short: "Print the JSON-LD document of one engine page",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := a.lookup(args[0], args[1])
			if err != nil {
				return err
			}
			body, err := jsonld.Marshal(page.Schema)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(a.out, "%s\n", body)
			return err
		},
	}
}

func (a *app) exportCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the whole catalog, schema graphs included, as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := a.open()
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				return cat.WriteJSON(a.out)
			}
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := cat.WriteJSON(f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			a.logger.Info("catalog exported", "file", output, "engines", cat.Len())
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func (a *app) lookup(brand, code string) (content.EnginePageData, error) {
	cat, err := a.open()
	if err != nil {
		return content.EnginePageData{}, err
	}
	return cat.Lookup(brand, code)
}
