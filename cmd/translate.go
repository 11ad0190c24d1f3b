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
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vitln/modlate/internal/batch"
	"github.com/vitln/modlate/internal/cache"
	"github.com/vitln/modlate/internal/logging"
	"github.com/vitln/modlate/internal/pipeline"
	"github.com/vitln/modlate/internal/store"
	"github.com/vitln/modlate/internal/terminology"
	"github.com/vitln/modlate/internal/validator"
)

var (
	inputPath    string
	outputDir    string
	targetLang   string
	serviceName  string
	sourceLocale string
	batchSize    int
	suffixOutput bool
	noCache      bool
	verify       bool
)

var (
	green   = color.New(color.FgGreen).SprintFunc()
	yellow  = color.New(color.FgYellow).SprintFunc()
	redBold = color.New(color.Bold, color.FgRed).SprintFunc()
)

var translateCmd = &cobra.Command{
	Use:   "translate",
	Short: "Translate mod archives into a target language",
	Long: `Translate the localization entries of one mod archive (or every .jar in
a directory) into the target language and write rewritten archives to the
output directory. Already-translated archives are skipped.

Translations are cached on disk, so re-running a job only pays for strings
the cache has not seen.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := logging.New(viper.GetString("environment"), viper.GetString("log_level"))
		if err != nil {
			return err
		}

		archives, err := findArchives(inputPath)
		if err != nil {
			return err
		}
		if len(archives) == 0 {
			return fmt.Errorf("no .jar archives found at %s", inputPath)
		}

		if targetLang == "" {
			targetLang = viper.GetString("target")
		}

		translationCache := cache.New(viper.GetString("cache"))
		if !noCache {
			if err := translationCache.Load(); err != nil {
				logger.Warn().Err(err).Msg("cache unreadable, continuing with empty cache")
			}
		}

		db, err := store.New(viper.GetString("db"))
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		terms, err := db.GetGlossaryTerms(cmd.Context(), targetLang)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to load glossary, continuing without it")
		}
		var glossary *terminology.Replacer
		if len(terms) > 0 {
			glossary = terminology.NewReplacer(terms)
			logger.Info().Int("terms", glossary.Len()).Msg("glossary loaded")
		}

		var val *validator.Validator
		if verify {
			val = validator.New()
		}

		svc, err := buildService(serviceName)
		if err != nil {
			return err
		}

		batcher := batch.New(translationCache, svc, serviceConfig(), glossary, val, logger)

		// Ctrl-C requests cooperative cancellation: the current batch
		// finishes, completed work is kept.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		opts := pipeline.Options{
			TargetLang:   targetLang,
			SourceLocale: sourceLocale,
			OutputDir:    outputDir,
			SuffixOutput: suffixOutput,
			BatchSize:    batchSize,
		}

		progress := func(p pipeline.Progress) {
			if p.State != pipeline.StateTranslating || p.Total == 0 {
				return
			}
			line := fmt.Sprintf("  %s %d/%d", filepath.Base(p.Unit), p.Processed, p.Total)
			if p.Percent != pipeline.PercentNA {
				line = fmt.Sprintf("%3d%% %s", p.Percent, line)
			}
			if p.ErrorClass != "" {
				line += " " + redBold(p.ErrorClass)
			}
			fmt.Fprintln(os.Stderr, line)
		}

		runner := pipeline.New(opts, translationCache, batcher, logger, progress)

		var totalHits, totalNew int
		for _, archive := range archives {
			if ctx.Err() != nil {
				break
			}
			fmt.Printf("Translating %s → %s\n", filepath.Base(archive), targetLang)

			res, err := runner.Run(ctx, archive)
			if err != nil {
				logger.Error().Err(err).Str("archive", archive).Msg("job failed")
				fmt.Printf("%s %s: %v\n", redBold("✗"), filepath.Base(archive), err)
				continue
			}

			status := "completed"
			switch {
			case res.Skipped:
				status = "skipped"
				fmt.Printf("%s %s already translated, copied unchanged\n", yellow("•"), res.Archive)
			case res.Cancelled:
				status = "cancelled"
				fmt.Printf("%s %s cancelled, partial work kept\n", yellow("•"), res.Archive)
			default:
				fmt.Printf("%s %s: %d files, %d strings (%d cached, %d new)\n",
					green("✔"), res.Archive, res.FilesProcessed, res.StringsTranslated,
					res.CacheHits, res.NewTranslations)
			}

			totalHits += res.CacheHits
			totalNew += res.NewTranslations

			run := store.JobRun{
				ID:                res.JobID,
				Archive:           res.Archive,
				TargetLang:        targetLang,
				FilesProcessed:    res.FilesProcessed,
				StringsTranslated: res.StringsTranslated,
				CacheHits:         res.CacheHits,
				NewTranslations:   res.NewTranslations,
				Status:            status,
			}
			if err := db.SaveJobRun(context.Background(), run); err != nil {
				logger.Warn().Err(err).Msg("failed to record job run")
			}
		}

		// Cache is flushed at job end only; a crash mid-job loses at most
		// this job's new entries.
		if !noCache {
			if err := translationCache.Persist(); err != nil {
				logger.Warn().Err(err).Msg("failed to persist cache")
			}
		}

		fmt.Printf("Cache: %d hits, %d new translations (%d entries total)\n",
			totalHits, totalNew, translationCache.Len())
		return nil
	},
}

// findArchives resolves the input path to a list of .jar files.
func findArchives(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input path: %w", err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}
	var archives []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".jar") || strings.EqualFold(filepath.Ext(e.Name()), ".zip") {
			archives = append(archives, filepath.Join(path, e.Name()))
		}
	}
	return archives, nil
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().StringVarP(&inputPath, "input", "i", "", "Mod archive or directory of archives (required)")
	translateCmd.Flags().StringVarP(&outputDir, "output", "o", "output", "Output directory for rewritten archives")
	translateCmd.Flags().StringVarP(&targetLang, "target", "t", "", "Target language code (default from config)")
	translateCmd.Flags().StringVar(&serviceName, "service", "mymemory", "Translation service (google, mymemory, openai)")
	translateCmd.Flags().StringVar(&sourceLocale, "source-locale", "en_us", "Source locale directory code")
	translateCmd.Flags().IntVar(&batchSize, "batch-size", batch.DefaultBatchSize, "Strings per provider request")
	translateCmd.Flags().BoolVar(&suffixOutput, "suffix", false, "Append the target locale to the output file name")
	translateCmd.Flags().BoolVar(&noCache, "no-cache", false, "Disable the persistent translation cache")
	translateCmd.Flags().BoolVar(&verify, "verify", false, "Log translations that fail a target-language check")

	translateCmd.MarkFlagRequired("input")
}
