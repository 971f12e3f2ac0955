// Package catalog loads book catalogs from CSV files.
package catalog

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/verte-zerg/libsim/internal/library"
	"github.com/verte-zerg/libsim/internal/model"
)

// Load reads catalog rows from a CSV file with a header line. The file must
// carry title and author columns; any other columns are ignored.
func Load(path string) ([]model.CatalogEntry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only catalog.
			_ = cerr
		}
	}()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", library.ErrInvalidCatalog, err)
	}
	return Parse(rows)
}

// Parse converts raw CSV rows (header included) into catalog entries.
func Parse(rows [][]string) ([]model.CatalogEntry, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: catalog file is empty", library.ErrInvalidCatalog)
	}
	titleCol, authorCol := -1, -1
	for i, name := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "title":
			titleCol = i
		case "author":
			authorCol = i
		}
	}
	if titleCol < 0 || authorCol < 0 {
		return nil, fmt.Errorf("%w: header must name title and author columns", library.ErrInvalidCatalog)
	}

	var entries []model.CatalogEntry
	for i, row := range rows[1:] {
		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}
		if titleCol >= len(row) || authorCol >= len(row) {
			return nil, fmt.Errorf("%w: row %d has too few columns", library.ErrInvalidCatalog, i+1)
		}
		entry := model.CatalogEntry{
			Title:  strings.TrimSpace(row[titleCol]),
			Author: strings.TrimSpace(row[authorCol]),
		}
		if entry.Title == "" || entry.Author == "" {
			return nil, fmt.Errorf("%w: row %d is missing title or author", library.ErrInvalidCatalog, i+1)
		}
		entries = append(entries, entry)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: catalog has no book rows", library.ErrInvalidCatalog)
	}
	return entries, nil
}
