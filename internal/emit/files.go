package emit

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFile writes data to root/rel, creating parent directories. rel uses forward
// slashes. It returns the full path written.
func WriteFile(root, rel string, data []byte) (string, error) {
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
