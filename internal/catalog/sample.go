package catalog

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/verte-zerg/libsim/internal/model"
)

var sampleEntries = []model.CatalogEntry{
	{Title: "The Master and Margarita", Author: "Mikhail Bulgakov"},
	{Title: "Pride and Prejudice", Author: "Jane Austen"},
	{Title: "Moby-Dick", Author: "Herman Melville"},
	{Title: "The Trial", Author: "Franz Kafka"},
	{Title: "Invisible Cities", Author: "Italo Calvino"},
	{Title: "Beloved", Author: "Toni Morrison"},
	{Title: "The Left Hand of Darkness", Author: "Ursula K. Le Guin"},
	{Title: "One Hundred Years of Solitude", Author: "Gabriel Garcia Marquez"},
	{Title: "Snow Country", Author: "Yasunari Kawabata"},
	{Title: "Things Fall Apart", Author: "Chinua Achebe"},
}

// WriteSample writes the built-in starter catalog to path via a temp file
// rename, so a partial write never leaves a broken catalog behind.
func WriteSample(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create catalog dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "catalog-*.csv")
	if err != nil {
		return fmt.Errorf("failed to create temp catalog: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	writer := csv.NewWriter(tmpFile)
	if err := writer.Write([]string{"title", "author"}); err != nil {
		return fmt.Errorf("failed to write catalog header: %w", err)
	}
	for _, entry := range sampleEntries {
		if err := writer.Write([]string{entry.Title, entry.Author}); err != nil {
			return fmt.Errorf("failed to write catalog row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush catalog: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close catalog: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	return nil
}
