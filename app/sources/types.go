package sources

const (
	KindMedium    = "medium"
	KindDevto     = "devto"
	KindGoodreads = "goodreads"
)

// Source describes one feed to import. The zero values for ContentDir and
// Type fall back to the kind-specific defaults from the global configuration.
type Source struct {
	Name       string `yaml:"name"`
	Kind       string `yaml:"kind"`
	URL        string `yaml:"url"`
	ContentDir string `yaml:"content_dir"`
	Type       string `yaml:"type"`
	APIURL     string `yaml:"api_url"`
	Disabled   bool   `yaml:"disabled"`
}

type sourcesFile struct {
	Sources []Source `yaml:"sources"`
}
