package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/rensou/internal/database"
	"github.com/at-ishikawa/rensou/internal/pdf"
	"github.com/at-ishikawa/rensou/internal/session"
)

// Sink receives a snapshot of the dictionary and reports where it went.
type Sink interface {
	Write(ctx context.Context, dictionary *session.Dictionary) (string, error)
}

var (
	_ Sink = (*FileSink)(nil)
	_ Sink = (*MySQLSink)(nil)
)

type FileOptions struct {
	DictionaryTemplate string
	// FontPath is passed to the PDF renderer for Japanese glyphs.
	FontPath string
}

type FileSink struct {
	format Format
	path   string
	opts   FileOptions
}

// NewFileSink writes format to path, or to the format's default file name in outputDir
// when path is empty.
func NewFileSink(format Format, path, outputDir string, opts FileOptions) (*FileSink, error) {
	if !format.IsFile() {
		return nil, fmt.Errorf("%w: %s is not a file format", ErrUnknownFormat, format)
	}
	if path == "" {
		path = filepath.Join(outputDir, format.DefaultFileName())
	}
	return &FileSink{format: format, path: path, opts: opts}, nil
}

func (s *FileSink) Write(_ context.Context, dictionary *session.Dictionary) (string, error) {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("os.MkdirAll(%s) > %w", dir, err)
		}
	}

	if s.format == FormatPDF {
		content, err := Encode(FormatMarkdown, dictionary, EncodeOptions{DictionaryTemplate: s.opts.DictionaryTemplate})
		if err != nil {
			return "", fmt.Errorf("Encode(markdown) > %w", err)
		}
		if err := pdf.RenderMarkdown(content, s.path, pdf.Options{FontPath: s.opts.FontPath}); err != nil {
			return "", fmt.Errorf("pdf.RenderMarkdown() > %w", err)
		}
		return s.path, nil
	}

	content, err := Encode(s.format, dictionary, EncodeOptions{DictionaryTemplate: s.opts.DictionaryTemplate})
	if err != nil {
		return "", fmt.Errorf("Encode(%s) > %w", s.format, err)
	}
	if err := os.WriteFile(s.path, content, 0644); err != nil {
		return "", fmt.Errorf("os.WriteFile(%s) > %w", s.path, err)
	}
	return s.path, nil
}

// Bytes renders dictionary in any file format, going through a temporary file for PDF.
func Bytes(format Format, dictionary *session.Dictionary, opts FileOptions) ([]byte, error) {
	if format != FormatPDF {
		return Encode(format, dictionary, EncodeOptions{DictionaryTemplate: opts.DictionaryTemplate})
	}

	dir, err := os.MkdirTemp("", "rensou-export-")
	if err != nil {
		return nil, fmt.Errorf("os.MkdirTemp() > %w", err)
	}
	defer func() {
		_ = os.RemoveAll(dir)
	}()

	sink, err := NewFileSink(FormatPDF, "", dir, opts)
	if err != nil {
		return nil, fmt.Errorf("NewFileSink() > %w", err)
	}
	path, err := sink.Write(context.Background(), dictionary)
	if err != nil {
		return nil, fmt.Errorf("sink.Write() > %w", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile(%s) > %w", path, err)
	}
	return content, nil
}

// MySQLSink stores a snapshot of the dictionary in the concept_entries table.
// It runs only when the user asks for an export.
type MySQLSink struct {
	db   *sqlx.DB
	repo database.ConceptEntryRepository
}

func NewMySQLSink(db *sqlx.DB) *MySQLSink {
	return &MySQLSink{
		db:   db,
		repo: database.NewDBConceptEntryRepository(db),
	}
}

func (s *MySQLSink) Write(ctx context.Context, dictionary *session.Dictionary) (string, error) {
	if err := database.Migrate(ctx, s.db); err != nil {
		return "", fmt.Errorf("database.Migrate() > %w", err)
	}

	entries, err := ConceptEntries(dictionary)
	if err != nil {
		return "", fmt.Errorf("ConceptEntries() > %w", err)
	}
	if err := s.repo.Snapshot(ctx, entries); err != nil {
		return "", fmt.Errorf("repo.Snapshot() > %w", err)
	}
	return fmt.Sprintf("mysql table concept_entries (%d words)", len(entries)), nil
}

// ConceptEntries converts the dictionary into rows, keeping insertion order in Position.
func ConceptEntries(dictionary *session.Dictionary) ([]database.ConceptEntry, error) {
	entries := make([]database.ConceptEntry, 0, dictionary.Len())
	for i, entry := range dictionary.Entries() {
		concepts := entry.Concepts
		if concepts == nil {
			concepts = []string{}
		}
		raw, err := json.Marshal(concepts)
		if err != nil {
			return nil, fmt.Errorf("json.Marshal(%s) > %w", entry.Word, err)
		}
		entries = append(entries, database.ConceptEntry{
			Word:     entry.Word,
			Concepts: raw,
			Position: i,
		})
	}
	return entries, nil
}
