// Package batch groups collected strings into fixed-size batches and
// resolves each one against the translation cache or the external provider.
// Uncached strings travel in a single joined request using a delimiter
// protocol; a segment-count mismatch triggers the authoritative per-string
// fallback. Provider failures are classified and absorbed — a batch always
// returns a fully populated result, never an error.
package batch

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/vitln/modlate/internal/cache"
	"github.com/vitln/modlate/internal/collector"
	"github.com/vitln/modlate/internal/placeholder"
	"github.com/vitln/modlate/internal/terminology"
	"github.com/vitln/modlate/internal/translator"
	"github.com/vitln/modlate/internal/validator"
)

// Delimiter joins cache-miss strings into one provider request. Chosen for
// low collision probability with real mod text; if the provider reflows it
// the per-string fallback takes over.
const Delimiter = " |SEP| "

// DefaultBatchSize is deliberately small so the progress callback fires
// often enough to keep a UI responsive; request-count efficiency is
// secondary.
const DefaultBatchSize = 5

// Provider-error classifications reported in Stats.
const (
	ErrClassRateLimited = "rate_limited"
	ErrClassBlocked     = "blocked"
	ErrClassNetwork     = "network"
	ErrClassQuota       = "quota"
	ErrClassUnknown     = "unknown"
)

// Item is one input string together with the lookup key it was found under.
type Item struct {
	Key  string
	Text string
}

// Stats is the per-batch outcome accounting. Strings rejected by the
// eligibility filter count toward neither field.
type Stats struct {
	CacheHits       int
	NewTranslations int
	ErrorClass      string
}

// Translator resolves batches of strings. It assumes it is the sole mutator
// of the cache during a run.
type Translator struct {
	cache     *cache.Cache
	service   translator.TranslationService
	cfg       translator.ServiceConfig
	glossary  *terminology.Replacer
	validator *validator.Validator
	logger    zerolog.Logger
}

// New creates a batch translator. glossary and val may be nil.
func New(c *cache.Cache, svc translator.TranslationService, cfg translator.ServiceConfig,
	glossary *terminology.Replacer, val *validator.Validator, logger zerolog.Logger) *Translator {
	return &Translator{
		cache:     c,
		service:   svc,
		cfg:       cfg,
		glossary:  glossary,
		validator: val,
		logger:    logger,
	}
}

// outcome tags for one provider call over the joined request.
type outcomeKind int

const (
	outcomeSuccess outcomeKind = iota
	outcomeCountMismatch
	outcomeFailure
)

type callOutcome struct {
	kind     outcomeKind
	segments []string
	class    string
}

// TranslateBatch resolves items positionally: ineligible strings pass
// through unchanged, cache hits resolve immediately, and the remaining
// misses go to the provider. The returned slice always has len(items).
func (t *Translator) TranslateBatch(ctx context.Context, items []Item, targetLang string) ([]string, Stats) {
	results := make([]string, len(items))
	var stats Stats

	// 1. Partition by the eligibility filter; the batch path uses the
	// coarse variant.
	var missIdx []int
	for i, item := range items {
		results[i] = item.Text
		if !collector.FastShouldTranslate(item.Key, item.Text) {
			continue
		}
		// 2. Cache split.
		if tr, ok := t.cache.Lookup(item.Text, targetLang); ok {
			results[i] = tr
			stats.CacheHits++
			continue
		}
		missIdx = append(missIdx, i)
	}

	if len(missIdx) == 0 {
		return results, stats
	}

	// 3. Protect in-band tokens per string, then try the joined request.
	protected := make([]string, len(missIdx))
	markers := make([][]string, len(missIdx))
	for j, i := range missIdx {
		protected[j], markers[j] = placeholder.Protect(items[i].Text)
	}

	out := t.translateJoined(ctx, protected, targetLang)

	switch out.kind {
	case outcomeSuccess:
		for j, i := range missIdx {
			t.accept(items[i].Text, out.segments[j], markers[j], targetLang, i, results, &stats)
		}
	case outcomeCountMismatch:
		// 4. Authoritative fallback: one provider call per string.
		t.logger.Debug().Int("expected", len(missIdx)).
			Msg("joined response segment count mismatch, retrying per string")
		t.translateEach(ctx, items, missIdx, protected, markers, targetLang, results, &stats)
	case outcomeFailure:
		// 6. Classified provider failure: originals pass through.
		stats.ErrorClass = out.class
		t.logger.Warn().Str("class", out.class).Int("strings", len(missIdx)).
			Msg("provider call failed, returning originals")
	}

	return results, stats
}

// accept finalizes one fresh translation: restore protected tokens,
// normalize quotes, enforce the glossary, cache, and place at index i.
func (t *Translator) accept(source, raw string, marks []string, targetLang string, i int, results []string, stats *Stats) {
	tr := placeholder.Restore(strings.TrimSpace(raw), marks)
	tr = normalizeQuotes(tr)
	tr = t.glossary.Apply(tr)

	if t.validator != nil {
		if ok, err := t.validator.IsValid(tr, targetLang); !ok {
			t.logger.Debug().Err(err).Str("text", source).Msg("translation failed language check")
		}
	}

	// 5. Cache before placement so later occurrences in this run hit.
	t.cache.Store(source, targetLang, tr)
	results[i] = tr
	stats.NewTranslations++
}

// translateJoined submits all miss strings as one delimiter-joined request
// and returns a tagged outcome.
func (t *Translator) translateJoined(ctx context.Context, texts []string, targetLang string) callOutcome {
	if len(texts) == 1 {
		// Nothing to join; a single string cannot mismatch on count.
		res, err := t.service.Translate(ctx, t.cfg, translator.TranslateRequest{
			Text:       texts[0],
			TargetLang: targetLang,
		})
		if err != nil {
			return callOutcome{kind: outcomeFailure, class: classify(err, res)}
		}
		return callOutcome{kind: outcomeSuccess, segments: []string{res.TranslatedText}}
	}

	joined := strings.Join(texts, Delimiter)
	res, err := t.service.Translate(ctx, t.cfg, translator.TranslateRequest{
		Text:       joined,
		TargetLang: targetLang,
	})
	if err != nil {
		return callOutcome{kind: outcomeFailure, class: classify(err, res)}
	}

	segments := splitResponse(res.TranslatedText)
	if len(segments) != len(texts) {
		return callOutcome{kind: outcomeCountMismatch}
	}
	return callOutcome{kind: outcomeSuccess, segments: segments}
}

// translateEach is the per-string fallback. A failing string keeps its
// original text; the first failure's classification is recorded.
func (t *Translator) translateEach(ctx context.Context, items []Item, missIdx []int,
	protected []string, markers [][]string, targetLang string, results []string, stats *Stats) {
	for j, i := range missIdx {
		res, err := t.service.Translate(ctx, t.cfg, translator.TranslateRequest{
			Text:       protected[j],
			TargetLang: targetLang,
		})
		if err != nil {
			if stats.ErrorClass == "" {
				stats.ErrorClass = classify(err, res)
			}
			continue
		}
		t.accept(items[i].Text, res.TranslatedText, markers[j], targetLang, i, results, stats)
	}
}

// splitResponse splits a joined provider response back into segments.
// Providers sometimes reflow whitespace around the delimiter, so the
// token is matched with surrounding spaces trimmed per segment.
func splitResponse(joined string) []string {
	parts := strings.Split(joined, strings.TrimSpace(Delimiter))
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		segments = append(segments, strings.TrimSpace(p))
	}
	return segments
}

// normalizeQuotes replaces double quotes with a paired single-quote
// sequence so translated values cannot break JSON or downstream text
// syntax.
func normalizeQuotes(s string) string {
	return strings.ReplaceAll(s, `"`, "''")
}

// classify maps a provider error onto a coarse class by inspecting its
// text. The provider's error taxonomy is not contractual; substring
// matching is the best available signal.
func classify(err error, res *translator.ServiceResult) string {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	if res != nil && res.Error != "" {
		msg += " " + res.Error
	}
	msg = strings.ToLower(msg)

	switch {
	case strings.Contains(msg, "429"), strings.Contains(msg, "rate"), strings.Contains(msg, "too many requests"):
		return ErrClassRateLimited
	case strings.Contains(msg, "403"), strings.Contains(msg, "forbidden"), strings.Contains(msg, "blocked"), strings.Contains(msg, "banned"):
		return ErrClassBlocked
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "connection"), strings.Contains(msg, "network"), strings.Contains(msg, "dial"), strings.Contains(msg, "eof"):
		return ErrClassNetwork
	case strings.Contains(msg, "quota"), strings.Contains(msg, "limit exceeded"), strings.Contains(msg, "insufficient"):
		return ErrClassQuota
	default:
		return ErrClassUnknown
	}
}
