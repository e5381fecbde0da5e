package sources

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

var validKinds = map[string]bool{
	KindMedium:    true,
	KindDevto:     true,
	KindGoodreads: true,
}

// Load reads the YAML sources file. A missing file is not an error; it means
// the run is driven entirely by command-line flags.
func Load(path string) ([]Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read sources file: %w", err)
	}

	var file sourcesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse sources file: %w", err)
	}

	for i := range file.Sources {
		if err := validate(&file.Sources[i]); err != nil {
			return nil, fmt.Errorf("invalid source at index %d: %w", i, err)
		}
		slog.Debug("Source loaded",
			"name", file.Sources[i].Name,
			"kind", file.Sources[i].Kind,
			"disabled", file.Sources[i].Disabled)
	}

	return file.Sources, nil
}

func validate(src *Source) error {
	if src.Name == "" {
		return fmt.Errorf("source name is required")
	}
	if src.URL == "" {
		return fmt.Errorf("source URL is required")
	}
	if !validKinds[src.Kind] {
		return fmt.Errorf("unknown source kind: %q", src.Kind)
	}
	return nil
}
