package camels

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ReadBasinFile reads a list of basin identifiers, one per line. Blank lines
// and lines starting with '#' are skipped; order is preserved.
func ReadBasinFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open basin file: %w", err)
	}
	defer f.Close()

	var basins []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		basins = append(basins, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read basin file %s: %w", path, err)
	}
	return basins, nil
}
