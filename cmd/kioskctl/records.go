package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"touristkiosk/internal/model"
	"touristkiosk/internal/service/storage"
)

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Print survey records from the spreadsheet",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		last, _ := cmd.Flags().GetInt("last")

		records, err := storage.NewSurveyStore(cfg.SurveyFile()).Records()
		if err != nil {
			return err
		}
		if last > 0 && len(records) > last {
			records = records[len(records)-last:]
		}

		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if records == nil {
				records = []model.SurveyRecord{}
			}
			return enc.Encode(records)
		}

		fmt.Fprintln(out, strings.Join(model.SurveyColumns, "\t"))
		for _, r := range records {
			fmt.Fprintln(out, strings.Join(r.Row(), "\t"))
		}
		fmt.Fprintf(out, "%d records\n", len(records))
		return nil
	},
}

func init() {
	recordsCmd.Flags().Bool("json", false, "print records as JSON")
	recordsCmd.Flags().Int("last", 0, "only print the last N records")
}
