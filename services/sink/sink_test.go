package sink

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Matheuslarroque/pesquisador-junior/internal/scraper"
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func sampleRow(day int, title, url string) Row {
	return Row{
		DayIndex: day,
		Product: scraper.ProductRecord{
			Title:         title,
			URL:           url,
			Price:         "R$ 49,90",
			Sold:          intPtr(1200),
			Rating:        floatPtr(4.8),
			Category:      "Pets",
			SimilarityKey: "Pets:caminha-pets-lavável",
		},
		CTA:       "“Quero o meu!”",
		Content:   "TÍTULO - CAMINHA PETS\n\nLEGENDA POST - texto",
		CreatedAt: "2026-09-01 08:00:00",
	}
}

func readSheet(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestSheetWriterWritesHeaderAndRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheet.csv")
	w := NewSheetWriter(path)

	dest, err := w.Write([]Row{sampleRow(1, "Caminha Pets Lavável", "https://shopee.com.br/product/1/2")})
	require.NoError(t, err)
	assert.Equal(t, path, dest)

	records := readSheet(t, path)
	require.Len(t, records, 2)
	assert.Equal(t, sheetHeader, records[0])
	assert.Equal(t, "1", records[1][0])
	assert.Equal(t, "Caminha Pets Lavável", records[1][1])
	assert.Equal(t, "1200", records[1][4])
	assert.Equal(t, "4.8", records[1][5])
}

func TestSheetWriterAppendsWithoutDuplicatingHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheet.csv")
	w := NewSheetWriter(path)

	_, err := w.Write([]Row{sampleRow(1, "Produto Um", "https://shopee.com.br/product/1/1")})
	require.NoError(t, err)

	_, err = w.Write([]Row{sampleRow(2, "Produto Dois", "https://shopee.com.br/product/2/2")})
	require.NoError(t, err)

	records := readSheet(t, path)
	require.Len(t, records, 3)
	assert.Equal(t, "Dia", records[0][0])
	assert.Equal(t, "1", records[1][0])
	assert.Equal(t, "2", records[2][0])
}

func TestSheetWriterEmptyCellsForAbsentMetrics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheet.csv")
	w := NewSheetWriter(path)

	row := sampleRow(1, "Produto Sem Métricas", "https://shopee.com.br/product/3/3")
	row.Product.Sold = nil
	row.Product.Rating = nil

	_, err := w.Write([]Row{row})
	require.NoError(t, err)

	records := readSheet(t, path)
	assert.Equal(t, "", records[1][4])
	assert.Equal(t, "", records[1][5])
}

func TestTextWriterWritesDayFile(t *testing.T) {
	dir := t.TempDir()
	w := NewTextWriter(dir)

	rows := []Row{
		sampleRow(7, "Produto Um", "https://shopee.com.br/product/1/1"),
		sampleRow(7, "Produto Dois", "https://shopee.com.br/product/2/2"),
	}

	dest, err := w.Write(rows)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "dia_07.txt"), dest)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "https://shopee.com.br/product/1/1")
	assert.Contains(t, content, "https://shopee.com.br/product/2/2")
	assert.Equal(t, 2, strings.Count(content, strings.Repeat("-", 40)))
}

func TestTextWriterRejectsEmptyBatch(t *testing.T) {
	w := NewTextWriter(t.TempDir())

	_, err := w.Write(nil)
	assert.Error(t, err)
}
