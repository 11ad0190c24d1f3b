// Package pipeline drives one translation job over one mod archive: scan
// for localization units, collect strings, translate them in batches, and
// repack the archive with the new target-locale entries. The pipeline is
// single-threaded and cooperative: it is meant to run on a background
// worker while the caller consumes progress events, and cancellation is
// polled via the context before each file and each batch, never preemptive.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vitln/modlate/internal/batch"
	"github.com/vitln/modlate/internal/cache"
	"github.com/vitln/modlate/internal/collector"
	"github.com/vitln/modlate/internal/jarfile"
	"github.com/vitln/modlate/internal/rewriter"
	"github.com/vitln/modlate/internal/scanner"
)

// Options configures one translation job.
type Options struct {
	TargetLang   string
	SourceLocale string // default "en_us"
	TargetLocale string // default derived from TargetLang
	OutputDir    string
	SuffixOutput bool // append _<targetLocale> to the output file stem
	BatchSize    int  // default batch.DefaultBatchSize
}

// Result is the outcome of one job. A skipped or cancelled job is a normal
// outcome, not an error; the worst case is an archive left untranslated
// with original content fully preserved.
type Result struct {
	JobID             string
	Archive           string
	OutputPath        string
	Skipped           bool
	Cancelled         bool
	FilesProcessed    int
	StringsTranslated int
	CacheHits         int
	NewTranslations   int
}

// Runner executes translation jobs. It assumes it is the sole mutator of
// the cache during a run; callers must not run two jobs concurrently
// against the same cache without external synchronization.
type Runner struct {
	opts     Options
	cache    *cache.Cache
	batcher  *batch.Translator
	logger   zerolog.Logger
	progress Callback
}

// New creates a Runner. progress may be nil.
func New(opts Options, c *cache.Cache, b *batch.Translator, logger zerolog.Logger, progress Callback) *Runner {
	if opts.SourceLocale == "" {
		opts.SourceLocale = "en_us"
	}
	if opts.TargetLocale == "" {
		opts.TargetLocale = LocaleFor(opts.TargetLang)
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = batch.DefaultBatchSize
	}
	return &Runner{
		opts:     opts,
		cache:    c,
		batcher:  b,
		logger:   logger,
		progress: progress,
	}
}

// LocaleFor derives the Minecraft locale directory code from a language
// code: "ru" → "ru_ru". Codes that already contain a region pass through
// lowercased.
func LocaleFor(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if strings.Contains(lang, "_") {
		return lang
	}
	return lang + "_" + lang
}

// Run translates one archive and writes the output archive. The persisted
// cache is flushed by the caller at job end, never between provider calls.
func (r *Runner) Run(ctx context.Context, archivePath string) (*Result, error) {
	res := &Result{
		JobID:   uuid.New().String(),
		Archive: filepath.Base(archivePath),
	}

	a, err := jarfile.Read(archivePath)
	if err != nil {
		return nil, err
	}

	scan := scanner.Scan(a, r.opts.SourceLocale, r.opts.TargetLocale)
	r.logger.Info().
		Str("archive", res.Archive).
		Int("lang_files", len(scan.LangFiles)).
		Int("book_files", len(scan.BookFiles)).
		Msg("scanned archive")

	if scan.AlreadyTranslated() {
		// Both target-locale counterparts exist: no-op, output is an
		// identical copy.
		res.Skipped = true
		res.OutputPath = r.outputPath(archivePath)
		if err := a.Write(res.OutputPath); err != nil {
			return nil, err
		}
		return res, nil
	}

	langTotal, bookTotal := len(scan.LangFiles), len(scan.BookFiles)

	langDone := 0
	for _, unitPath := range scan.LangFiles {
		if ctx.Err() != nil {
			return r.finishCancelled(res, a, archivePath)
		}
		r.translateUnit(ctx, a, unitPath, false, res, func(processed, total int, st *batch.Stats) {
			r.report(OverallPercent(langDone, langTotal, 0, bookTotal), unitPath, StateTranslating, processed, total, st)
		})
		langDone++
	}

	bookDone := 0
	for _, unitPath := range scan.BookFiles {
		if ctx.Err() != nil {
			return r.finishCancelled(res, a, archivePath)
		}
		r.translateUnit(ctx, a, unitPath, true, res, func(processed, total int, st *batch.Stats) {
			r.report(OverallPercent(langTotal, langTotal, bookDone, bookTotal), unitPath, StateTranslating, processed, total, st)
		})
		bookDone++
	}

	if res.Cancelled {
		return r.finishCancelled(res, a, archivePath)
	}

	res.OutputPath = r.outputPath(archivePath)
	if err := a.Write(res.OutputPath); err != nil {
		return nil, err
	}
	r.report(100, "", StateDone, 0, 0, nil)
	return res, nil
}

// finishCancelled writes the archive with whatever was translated so far —
// completed work is never rolled back and the output is always a valid
// archive — and reports the cancelled outcome.
func (r *Runner) finishCancelled(res *Result, a *jarfile.Archive, archivePath string) (*Result, error) {
	res.Cancelled = true
	res.OutputPath = r.outputPath(archivePath)
	if err := a.Write(res.OutputPath); err != nil {
		return nil, err
	}
	r.report(PercentNA, "", StateCancelled, 0, 0, nil)
	return res, nil
}

// translateUnit processes one localization unit: parse, collect, translate
// in batches, apply, and add the target-locale entry to the archive. A
// structurally broken unit is skipped; the job continues.
func (r *Runner) translateUnit(ctx context.Context, a *jarfile.Archive, unitPath string, isBook bool,
	res *Result, onBatch func(processed, total int, st *batch.Stats)) {

	entry := a.Get(unitPath)
	if entry == nil {
		r.logger.Warn().Str("unit", unitPath).Msg("entry missing, skipping unit")
		return
	}

	var root any
	if err := json.Unmarshal(entry.Data, &root); err != nil {
		r.logger.Warn().Err(err).Str("unit", unitPath).Msg("unreadable localization unit, skipping")
		return
	}

	r.report(PercentNA, unitPath, StateCollecting, 0, 0, nil)
	found := collector.Collect(root)
	if len(found) == 0 {
		r.logger.Debug().Str("unit", unitPath).Msg("no strings to translate")
		res.FilesProcessed++
		return
	}

	items := make([]batch.Item, len(found))
	paths := make([]collector.Path, len(found))
	for i, f := range found {
		items[i] = batch.Item{Key: f.Key, Text: f.Text}
		paths[i] = f.Path
	}

	translated := make([]string, 0, len(items))
	for start := 0; start < len(items); start += r.opts.BatchSize {
		if ctx.Err() != nil {
			res.Cancelled = true
			// Apply what has been translated so far before bailing out.
			translated = append(translated, textsOf(items[len(translated):])...)
			break
		}
		end := start + r.opts.BatchSize
		if end > len(items) {
			end = len(items)
		}

		out, stats := r.batcher.TranslateBatch(ctx, items[start:end], r.opts.TargetLang)
		translated = append(translated, out...)
		res.CacheHits += stats.CacheHits
		res.NewTranslations += stats.NewTranslations
		res.StringsTranslated += len(out)
		onBatch(len(translated), len(items), &stats)
	}

	r.report(PercentNA, unitPath, StateApplying, len(translated), len(items), nil)
	rebuilt := rewriter.Apply(root, paths, translated)

	data, err := json.MarshalIndent(rebuilt, "", "  ")
	if err != nil {
		r.logger.Warn().Err(err).Str("unit", unitPath).Msg("failed to serialize translated unit, skipping")
		return
	}

	var targetPath string
	if isBook {
		targetPath = rewriter.TargetBookPath(unitPath, r.opts.SourceLocale, r.opts.TargetLocale)
	} else {
		targetPath = rewriter.TargetLangPath(unitPath, r.opts.TargetLocale)
	}
	a.Add(targetPath, data)
	res.FilesProcessed++

	state := StateDone
	if res.Cancelled {
		state = StateCancelled
	}
	r.report(PercentNA, unitPath, state, len(translated), len(items), nil)
}

func textsOf(items []batch.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Text
	}
	return out
}

func (r *Runner) report(percent int, unit string, state UnitState, processed, total int, stats *batch.Stats) {
	if r.progress == nil {
		return
	}
	p := Progress{
		Percent:   percent,
		Processed: processed,
		Total:     total,
		Unit:      unit,
		State:     state,
		Stats:     stats,
	}
	if stats != nil {
		p.ErrorClass = stats.ErrorClass
	}
	r.progress(p)
}

// outputPath computes where the rewritten archive is written: same file
// name in the output directory, or the stem suffixed with the target
// locale when sidecar naming is requested.
func (r *Runner) outputPath(archivePath string) string {
	name := filepath.Base(archivePath)
	if r.opts.SuffixOutput {
		ext := filepath.Ext(name)
		stem := strings.TrimSuffix(name, ext)
		name = fmt.Sprintf("%s_%s%s", stem, r.opts.TargetLocale, ext)
	}
	dir := r.opts.OutputDir
	if dir == "" {
		dir = "output"
	}
	return filepath.Join(dir, name)
}
