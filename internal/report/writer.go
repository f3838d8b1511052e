package report

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

// Write saves the HTML report to a timestamped file under dir and
// returns the full path.
func Write(dir, html string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("report: create output directory: %w", err)
	}

	name := fmt.Sprintf("lol_champion_report_%s.html", time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)

	if err := os.WriteFile(path, []byte(html), 0644); err != nil {
		return "", fmt.Errorf("report: write %s: %w", name, err)
	}

	log.Printf("[Report] wrote %s (%d bytes)", path, len(html))
	return path, nil
}
