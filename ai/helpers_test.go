package ai

import (
	"fmt"
	"os"
	"path/filepath"
)

func formatFixed2(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func writeFile(dir, name, content string) error {
	return os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644)
}
