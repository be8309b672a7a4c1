package sink

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Matheuslarroque/pesquisador-junior/internal/scraper"
	"github.com/Matheuslarroque/pesquisador-junior/logger"
)

// Row is one selected pick flattened for persistence
type Row struct {
	DayIndex  int
	Product   scraper.ProductRecord
	CTA       string
	Content   string
	CreatedAt string
}

// Sink persists a day's picks and returns the destination it wrote to
type Sink interface {
	Write(rows []Row) (string, error)
}

// sheetHeader mirrors the spreadsheet layout the publishing workflow reads
var sheetHeader = []string{
	"Dia", "Produto", "Link", "Preço", "Vendidos", "Avaliação",
	"CTAs", "Conteúdo Completo", "Categoria", "SimilarityKey", "CriadoEm",
}

// SheetWriter appends picks to a CSV sheet. The header row is written once
// and rows are only ever appended, so reruns never clobber earlier days.
type SheetWriter struct {
	path string
	log  *logger.Logger
}

func NewSheetWriter(path string) *SheetWriter {
	return &SheetWriter{path: path, log: logger.ForSink()}
}

func (w *SheetWriter) Write(rows []Row) (string, error) {
	if err := ensureDir(w.path); err != nil {
		return "", err
	}

	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("open sheet file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat sheet file: %w", err)
	}

	writer := csv.NewWriter(f)

	if info.Size() == 0 {
		if err := writer.Write(sheetHeader); err != nil {
			return "", fmt.Errorf("write sheet header: %w", err)
		}
	}

	for _, row := range rows {
		if err := writer.Write(flatten(row)); err != nil {
			return "", fmt.Errorf("write sheet row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("flush sheet rows: %w", err)
	}

	w.log.WithFields(logger.Fields{"path": w.path, "rows": len(rows)}).
		Info().Msg("Appended picks to sheet")
	return w.path, nil
}

// flatten renders a pick into sheet columns. Absent metrics become empty
// cells rather than zeroes.
func flatten(row Row) []string {
	p := row.Product

	sold := ""
	if p.Sold != nil {
		sold = strconv.Itoa(*p.Sold)
	}

	rating := ""
	if p.Rating != nil {
		rating = strconv.FormatFloat(*p.Rating, 'f', 1, 64)
	}

	return []string{
		strconv.Itoa(row.DayIndex),
		p.Title,
		p.URL,
		p.Price,
		sold,
		rating,
		row.CTA,
		row.Content,
		p.Category,
		p.SimilarityKey,
		row.CreatedAt,
	}
}

// TextWriter writes a day's picks to a plain text file under the output
// directory, one file per day.
type TextWriter struct {
	dir string
	log *logger.Logger
}

func NewTextWriter(dir string) *TextWriter {
	return &TextWriter{dir: dir, log: logger.ForSink()}
}

func (w *TextWriter) Write(rows []Row) (string, error) {
	if len(rows) == 0 {
		return "", fmt.Errorf("no rows to write")
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory %q: %w", w.dir, err)
	}

	path := filepath.Join(w.dir, fmt.Sprintf("dia_%02d.txt", rows[0].DayIndex))

	var b strings.Builder
	for _, row := range rows {
		b.WriteString(row.Content)
		b.WriteString("\n\n")
		b.WriteString(row.Product.URL)
		b.WriteString("\n\n")
		b.WriteString(strings.Repeat("-", 40))
		b.WriteString("\n\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("write output file: %w", err)
	}

	w.log.WithFields(logger.Fields{"path": path, "rows": len(rows)}).
		Info().Msg("Saved picks to text file")
	return path, nil
}

func ensureDir(filename string) error {
	dir := filepath.Dir(filename)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}
	return nil
}
