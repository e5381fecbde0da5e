package content

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Scanner reads the destination directory and collects the canonical URLs of
// everything already imported. The importer uses the set to skip entries
// before they are transformed.
type Scanner struct {
	dir string
}

func NewScanner(dir string) *Scanner {
	return &Scanner{dir: dir}
}

// Run returns the set of canonical URLs found in the destination directory.
// A missing directory means nothing has been imported yet and yields an empty
// set. A file that cannot be read or parsed is treated as holding no URL and
// skipped; only an unreadable directory is fatal.
func (s *Scanner) Run() (map[string]bool, error) {
	existing := make(map[string]bool)

	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return existing, nil
		}
		return nil, &ScanError{Dir: s.dir, Err: err}
	}

	for _, dirEntry := range dirEntries {
		if dirEntry.IsDir() || !strings.HasSuffix(dirEntry.Name(), ".md") {
			continue
		}

		file := filepath.Join(s.dir, dirEntry.Name())
		data, err := os.ReadFile(file)
		if err != nil {
			slog.Warn("Skipping unreadable content file", "file", file, "error", err)
			continue
		}

		fm, _, err := DecodeFile(data)
		if err != nil {
			slog.Warn("Skipping content file without front matter", "file", file, "error", err)
			continue
		}

		if fm.CanonicalURL != "" {
			existing[fm.CanonicalURL] = true
		}
	}

	return existing, nil
}
