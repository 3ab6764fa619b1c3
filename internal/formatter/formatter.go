// package formatter provides functions to export a normalized album ranking to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/akoval/topspin/internal/models"
)

// ExportToCSV converts a ranked album list to CSV with columns: Rank, Album, Artist, Status
func ExportToCSV(albums []models.Album) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Rank", "Album", "Artist", "Status"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, album := range albums {
		record := []string{
			album.Label,
			album.Name,
			album.Artist,
			album.Status,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a ranked album list to a Markdown document
func ExportToMarkdown(albums []models.Album, title string) ([]byte, error) {
	var buf bytes.Buffer

	if title == "" {
		title = "Album Ranking"
	}

	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Albums**: %d\n", len(albums)))
	buf.WriteString(fmt.Sprintf("**Generated**: %s\n\n", time.Now().Format(time.RFC3339)))

	buf.WriteString("| Rank | Album | Artist |\n")
	buf.WriteString("|------|-------|--------|\n")
	for _, album := range albums {
		buf.WriteString(fmt.Sprintf("| %s | %s | %s |\n", album.Label, album.Name, album.Artist))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a ranked album list to plain text, one album per line
func ExportToText(albums []models.Album, title string) ([]byte, error) {
	var buf bytes.Buffer

	if title != "" {
		buf.WriteString(title + "\n")
		buf.WriteString(fmt.Sprintf("%d albums\n\n", len(albums)))
	}

	for _, album := range albums {
		buf.WriteString(fmt.Sprintf("%s. %s — %s\n", album.Label, album.Name, album.Artist))
	}

	return buf.Bytes(), nil
}

// Export renders albums as the named format: csv, markdown (md), or txt.
func Export(albums []models.Album, format, title string) ([]byte, error) {
	switch format {
	case "csv":
		return ExportToCSV(albums)
	case "markdown", "md":
		return ExportToMarkdown(albums, title)
	case "txt", "text":
		return ExportToText(albums, title)
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// SaveToFile writes exported data to the given path, creating parent directories.
func SaveToFile(data []byte, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}
