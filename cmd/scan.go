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
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vitln/modlate/internal/collector"
	"github.com/vitln/modlate/internal/jarfile"
	"github.com/vitln/modlate/internal/pipeline"
	"github.com/vitln/modlate/internal/scanner"
)

var (
	scanTarget       string
	scanSourceLocale string
)

var scanCmd = &cobra.Command{
	Use:   "scan <archive>...",
	Short: "List localization units and translatable string counts",
	Long: `Dry-run inspection: list the lang files and patchouli book files found
in each archive, how many strings each holds, and how many of those pass
the eligibility filter. Nothing is translated or written.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if scanTarget == "" {
			scanTarget = viper.GetString("target")
		}
		targetLocale := pipeline.LocaleFor(scanTarget)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ARCHIVE\tUNIT\tTYPE\tSTRINGS\tELIGIBLE")

		for _, path := range args {
			a, err := jarfile.Read(path)
			if err != nil {
				return err
			}

			res := scanner.Scan(a, scanSourceLocale, targetLocale)
			if res.AlreadyTranslated() {
				fmt.Fprintf(w, "%s\t-\t-\t-\talready translated\n", a.Name)
				continue
			}

			for _, unit := range res.LangFiles {
				printUnit(w, a, unit, "lang")
			}
			for _, unit := range res.BookFiles {
				printUnit(w, a, unit, "book")
			}
		}
		return w.Flush()
	},
}

func printUnit(w *tabwriter.Writer, a *jarfile.Archive, unit, kind string) {
	entry := a.Get(unit)
	if entry == nil {
		return
	}
	var root any
	if err := json.Unmarshal(entry.Data, &root); err != nil {
		fmt.Fprintf(w, "%s\t%s\t%s\t-\tunreadable\n", a.Name, unit, kind)
		return
	}

	found := collector.Collect(root)
	eligible := 0
	for _, f := range found {
		if collector.ShouldTranslate(f.Key, f.Text) {
			eligible++
		}
	}
	fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n", a.Name, unit, kind, len(found), eligible)
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVarP(&scanTarget, "target", "t", "", "Target language code (default from config)")
	scanCmd.Flags().StringVar(&scanSourceLocale, "source-locale", "en_us", "Source locale directory code")
}
