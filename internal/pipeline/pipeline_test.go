package pipeline

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/vitln/modlate/internal/batch"
	"github.com/vitln/modlate/internal/cache"
	"github.com/vitln/modlate/internal/jarfile"
	"github.com/vitln/modlate/internal/translator"
)

// prefixService translates each delimiter segment by prefixing "ru:".
type prefixService struct{}

func (prefixService) Name() string { return "prefix" }

func (prefixService) Translate(_ context.Context, _ translator.ServiceConfig, req translator.TranslateRequest) (*translator.ServiceResult, error) {
	sep := strings.TrimSpace(batch.Delimiter)
	segments := strings.Split(req.Text, sep)
	out := make([]string, len(segments))
	for i, s := range segments {
		out[i] = "ru:" + strings.TrimSpace(s)
	}
	return &translator.ServiceResult{
		ServiceName:    "prefix",
		TranslatedText: strings.Join(out, batch.Delimiter),
		Latency:        time.Millisecond,
	}, nil
}

func (prefixService) IsAvailable(context.Context) error { return nil }

func (prefixService) SupportedLanguages(context.Context) ([]string, error) {
	return []string{"ru"}, nil
}

func writeTestJar(t *testing.T, dir string, entries map[string]string) string {
	t.Helper()
	a := &jarfile.Archive{Name: "mod.jar"}
	a.Add("META-INF/MANIFEST.MF", []byte("Manifest-Version: 1.0\n"))
	for name, data := range entries {
		a.Add(name, []byte(data))
	}
	path := filepath.Join(dir, "mod.jar")
	if err := a.Write(path); err != nil {
		t.Fatalf("failed to write test jar: %v", err)
	}
	return path
}

func newTestRunner(t *testing.T, opts Options, progress Callback) *Runner {
	t.Helper()
	c := cache.New(filepath.Join(t.TempDir(), "cache.json"))
	bt := batch.New(c, prefixService{}, translator.ServiceConfig{}, nil, nil, zerolog.Nop())
	return New(opts, c, bt, zerolog.Nop(), progress)
}

func TestRun_TranslatesLangAndBookUnits(t *testing.T) {
	dir := t.TempDir()
	jar := writeTestJar(t, dir, map[string]string{
		"assets/thermal/lang/en_us.json": `{
			"block.thermal.machine_furnace": "Redstone Furnace",
			"config.id": "minecraft:stone"
		}`,
		"assets/thermal/patchouli_books/guide/en_us/entries/furnace.json": `{
			"name": "Redstone Furnace",
			"pages": [{"type": "text", "text": "Welcome to the guide."}]
		}`,
	})

	var events []Progress
	r := newTestRunner(t, Options{
		TargetLang: "ru",
		OutputDir:  filepath.Join(dir, "out"),
	}, func(p Progress) { events = append(events, p) })

	res, err := r.Run(context.Background(), jar)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if res.Skipped || res.Cancelled {
		t.Fatalf("unexpected outcome: %+v", res)
	}
	if res.FilesProcessed != 2 {
		t.Errorf("expected 2 files processed, got %d", res.FilesProcessed)
	}
	// "Redstone Furnace" translated in the lang pass hits the cache in the
	// book pass.
	if res.CacheHits != 1 {
		t.Errorf("expected 1 cache hit, got %d", res.CacheHits)
	}
	if res.NewTranslations != 2 {
		t.Errorf("expected 2 new translations, got %d", res.NewTranslations)
	}

	out, err := jarfile.Read(res.OutputPath)
	if err != nil {
		t.Fatalf("failed to read output archive: %v", err)
	}

	// The source entries stay untouched.
	src := out.Get("assets/thermal/lang/en_us.json")
	if src == nil || !strings.Contains(string(src.Data), "Redstone Furnace") {
		t.Error("expected source lang entry preserved")
	}

	langEntry := out.Get("assets/thermal/lang/ru_ru.json")
	if langEntry == nil {
		t.Fatal("expected target lang entry in output archive")
	}
	var lang map[string]any
	if err := json.Unmarshal(langEntry.Data, &lang); err != nil {
		t.Fatalf("failed to parse target lang entry: %v", err)
	}
	if lang["block.thermal.machine_furnace"] != "ru:Redstone Furnace" {
		t.Errorf("unexpected translation: %v", lang["block.thermal.machine_furnace"])
	}
	if lang["config.id"] != "minecraft:stone" {
		t.Errorf("expected technical string to pass through, got %v", lang["config.id"])
	}

	bookEntry := out.Get("assets/thermal/patchouli_books/guide/ru_ru/entries/furnace.json")
	if bookEntry == nil {
		t.Fatal("expected target book entry in output archive")
	}
	var book map[string]any
	if err := json.Unmarshal(bookEntry.Data, &book); err != nil {
		t.Fatalf("failed to parse target book entry: %v", err)
	}
	if book["name"] != "ru:Redstone Furnace" {
		t.Errorf("expected cached translation reused, got %v", book["name"])
	}
	page := book["pages"].([]any)[0].(map[string]any)
	if page["text"] != "ru:Welcome to the guide." {
		t.Errorf("unexpected page translation: %v", page["text"])
	}
	if page["type"] != "text" {
		t.Errorf("expected structural string untouched, got %v", page["type"])
	}

	if len(events) == 0 {
		t.Fatal("expected progress events")
	}
	last := events[len(events)-1]
	if last.Percent != 100 || last.State != StateDone {
		t.Errorf("expected final 100%%/done event, got %+v", last)
	}
}

func TestRun_SkipsAlreadyTranslatedArchive(t *testing.T) {
	dir := t.TempDir()
	jar := writeTestJar(t, dir, map[string]string{
		"assets/thermal/lang/en_us.json":                                  `{"name": "Furnace"}`,
		"assets/thermal/lang/ru_ru.json":                                  `{"name": "Печь"}`,
		"assets/thermal/patchouli_books/guide/en_us/entries/furnace.json": `{"name": "Furnace"}`,
		"assets/thermal/patchouli_books/guide/ru_ru/entries/furnace.json": `{"name": "Печь"}`,
	})

	r := newTestRunner(t, Options{TargetLang: "ru", OutputDir: filepath.Join(dir, "out")}, nil)
	res, err := r.Run(context.Background(), jar)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !res.Skipped {
		t.Fatal("expected archive to be skipped")
	}

	// The output is still written, entry-for-entry identical to the input.
	in, err := jarfile.Read(jar)
	if err != nil {
		t.Fatalf("failed to read input: %v", err)
	}
	out, err := jarfile.Read(res.OutputPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if len(out.Entries) != len(in.Entries) {
		t.Fatalf("expected identical entry count, got %d vs %d", len(out.Entries), len(in.Entries))
	}
	for i := range in.Entries {
		if out.Entries[i].Name != in.Entries[i].Name ||
			string(out.Entries[i].Data) != string(in.Entries[i].Data) {
			t.Errorf("entry %d differs between input and output", i)
		}
	}
}

func TestRun_CancelledJobWritesValidArchive(t *testing.T) {
	dir := t.TempDir()
	jar := writeTestJar(t, dir, map[string]string{
		"assets/thermal/lang/en_us.json": `{"name": "Redstone Furnace"}`,
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var states []UnitState
	r := newTestRunner(t, Options{TargetLang: "ru", OutputDir: filepath.Join(dir, "out")},
		func(p Progress) { states = append(states, p.State) })

	res, err := r.Run(ctx, jar)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !res.Cancelled {
		t.Fatal("expected cancelled outcome")
	}

	// Whatever was written is still a readable archive with the original
	// content intact.
	out, err := jarfile.Read(res.OutputPath)
	if err != nil {
		t.Fatalf("expected valid partial archive: %v", err)
	}
	if !out.Has("assets/thermal/lang/en_us.json") {
		t.Error("expected original entry preserved in partial output")
	}

	if len(states) == 0 || states[len(states)-1] != StateCancelled {
		t.Errorf("expected final cancelled event, got %v", states)
	}
}

func TestRun_SuffixOutputNaming(t *testing.T) {
	dir := t.TempDir()
	jar := writeTestJar(t, dir, map[string]string{
		"assets/thermal/lang/en_us.json": `{"name": "Redstone Furnace"}`,
	})

	r := newTestRunner(t, Options{
		TargetLang:   "ru",
		OutputDir:    filepath.Join(dir, "out"),
		SuffixOutput: true,
	}, nil)

	res, err := r.Run(context.Background(), jar)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if filepath.Base(res.OutputPath) != "mod_ru_ru.jar" {
		t.Errorf("unexpected output name %q", filepath.Base(res.OutputPath))
	}
}

func TestLocaleFor(t *testing.T) {
	tests := []struct {
		lang string
		want string
	}{
		{"ru", "ru_ru"},
		{"uk", "uk_uk"},
		{"RU", "ru_ru"},
		{"pt_br", "pt_br"},
		{"ZH_CN", "zh_cn"},
	}
	for _, tt := range tests {
		if got := LocaleFor(tt.lang); got != tt.want {
			t.Errorf("LocaleFor(%q) = %q, want %q", tt.lang, got, tt.want)
		}
	}
}

func TestOverallPercent(t *testing.T) {
	tests := []struct {
		name                string
		langDone, langTotal int
		bookDone, bookTotal int
		want                int
	}{
		{"nothing done", 0, 4, 0, 2, 0},
		{"half the lang files", 2, 4, 0, 2, 25},
		{"lang phase complete", 4, 4, 0, 2, 50},
		{"one book file in", 4, 4, 1, 2, 75},
		{"everything done", 4, 4, 2, 2, 100},
		{"no book files counts as complete", 2, 4, 0, 0, 75},
		{"no lang files counts as complete", 0, 0, 1, 2, 75},
		{"empty archive", 0, 0, 0, 0, 100},
		{"overshoot is clamped", 9, 4, 0, 0, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OverallPercent(tt.langDone, tt.langTotal, tt.bookDone, tt.bookTotal)
			if got != tt.want {
				t.Errorf("OverallPercent(%d,%d,%d,%d) = %d, want %d",
					tt.langDone, tt.langTotal, tt.bookDone, tt.bookTotal, got, tt.want)
			}
		})
	}
}
