// Package store is the sqlite-backed persistence layer for glossary terms
// and job-run history. The translation cache itself lives in
// internal/cache; the store holds the data that outlives and spans jobs.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	-- glossary stores user-defined terminology enforced on provider output
	CREATE TABLE IF NOT EXISTS glossary (
		id TEXT PRIMARY KEY,
		target_lang TEXT NOT NULL,
		source_term TEXT NOT NULL,
		target_term TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(target_lang, source_term)
	);

	-- job_runs records one row per translation job for history inspection
	CREATE TABLE IF NOT EXISTS job_runs (
		id TEXT PRIMARY KEY,
		archive TEXT NOT NULL,
		target_lang TEXT NOT NULL,
		files_processed INTEGER DEFAULT 0,
		strings_translated INTEGER DEFAULT 0,
		cache_hits INTEGER DEFAULT 0,
		new_translations INTEGER DEFAULT 0,
		status TEXT DEFAULT 'completed',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_glossary_lookup ON glossary(target_lang);
	CREATE INDEX IF NOT EXISTS idx_job_runs_created ON job_runs(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// GlossaryEntry represents a row in the glossary table.
type GlossaryEntry struct {
	ID         string
	TargetLang string
	SourceTerm string
	TargetTerm string
	CreatedAt  time.Time
}

// AddGlossaryTerm inserts or replaces a glossary entry.
func (s *Store) AddGlossaryTerm(ctx context.Context, targetLang, sourceTerm, targetTerm string) error {
	id := fmt.Sprintf("gl_%d", time.Now().UnixNano())
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO glossary (id, target_lang, source_term, target_term)
		 VALUES (?, ?, ?, ?)`,
		id, targetLang, sourceTerm, targetTerm)
	return err
}

// GetGlossaryTerms returns all glossary terms for a target language as a
// source-term → target-term map, ready to feed the terminology replacer.
func (s *Store) GetGlossaryTerms(ctx context.Context, targetLang string) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT source_term, target_term FROM glossary WHERE target_lang = ?`,
		targetLang)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	terms := make(map[string]string)
	for rows.Next() {
		var src, tgt string
		if err := rows.Scan(&src, &tgt); err != nil {
			return nil, err
		}
		terms[src] = tgt
	}
	return terms, rows.Err()
}

// ListGlossaryTerms returns all glossary entries, optionally filtered by
// target language (pass an empty string to return everything).
func (s *Store) ListGlossaryTerms(ctx context.Context, targetLang string) ([]GlossaryEntry, error) {
	query := `SELECT id, target_lang, source_term, target_term, created_at FROM glossary`
	var args []interface{}

	if targetLang != "" {
		query += ` WHERE target_lang = ?`
		args = append(args, targetLang)
	}
	query += ` ORDER BY target_lang, source_term`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []GlossaryEntry
	for rows.Next() {
		var e GlossaryEntry
		if err := rows.Scan(&e.ID, &e.TargetLang, &e.SourceTerm, &e.TargetTerm, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// DeleteGlossaryTerm removes a glossary entry by ID.
func (s *Store) DeleteGlossaryTerm(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM glossary WHERE id = ?`, id)
	return err
}

// JobRun is a row from the job_runs table.
type JobRun struct {
	ID                string
	Archive           string
	TargetLang        string
	FilesProcessed    int
	StringsTranslated int
	CacheHits         int
	NewTranslations   int
	Status            string
	CreatedAt         time.Time
}

// SaveJobRun records the outcome of one translation job.
func (s *Store) SaveJobRun(ctx context.Context, run JobRun) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO job_runs (id, archive, target_lang, files_processed, strings_translated, cache_hits, new_translations, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Archive, run.TargetLang, run.FilesProcessed,
		run.StringsTranslated, run.CacheHits, run.NewTranslations, run.Status)
	return err
}

// ListJobRuns returns job runs, most recent first.
func (s *Store) ListJobRuns(ctx context.Context, limit int) ([]JobRun, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, archive, target_lang, files_processed, strings_translated, cache_hits, new_translations, status, created_at
		 FROM job_runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []JobRun
	for rows.Next() {
		var r JobRun
		if err := rows.Scan(&r.ID, &r.Archive, &r.TargetLang, &r.FilesProcessed,
			&r.StringsTranslated, &r.CacheHits, &r.NewTranslations, &r.Status, &r.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}
