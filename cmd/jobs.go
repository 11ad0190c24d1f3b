/*
Copyright © 2025 Vitalii Lytvyn <vitln.dev@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vitln/modlate/internal/store"
)

var jobsLimit int

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List past translation job runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.New(viper.GetString("db"))
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		runs, err := db.ListJobRuns(context.Background(), jobsLimit)
		if err != nil {
			return fmt.Errorf("failed to list job runs: %w", err)
		}

		if len(runs) == 0 {
			fmt.Println("No job runs recorded.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "WHEN\tARCHIVE\tTARGET\tFILES\tSTRINGS\tCACHED\tNEW\tSTATUS")
		for _, r := range runs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
				r.CreatedAt.Format("2006-01-02 15:04"), r.Archive, r.TargetLang,
				r.FilesProcessed, r.StringsTranslated, r.CacheHits, r.NewTranslations, r.Status)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(jobsCmd)

	jobsCmd.Flags().IntVarP(&jobsLimit, "limit", "n", 20, "Maximum number of runs to show")
}
