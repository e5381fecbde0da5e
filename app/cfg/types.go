package cfg

// Opts holds the global options shared by every import command. Values come
// from command-line flags with environment variable fallbacks.
type Opts struct {
	ContentDir   string `long:"content-dir" env:"CONTENT_DIR" default:"blog/content/writing" description:"Destination directory for imported posts"`
	BooksDir     string `long:"books-dir" env:"BOOKS_DIR" default:"blog/content/reading" description:"Destination directory for imported book records"`
	ImagesDir    string `long:"images-dir" env:"IMAGES_DIR" default:"blog/assets/images/writing" description:"Directory for downloaded images"`
	ImageWebPath string `long:"image-web-path" env:"IMAGE_WEB_PATH" default:"images/writing" description:"Web path prefix for downloaded images in front matter"`
	ImageMode    string `long:"image-mode" env:"IMAGE_MODE" default:"remote" choice:"remote" choice:"download" description:"Keep remote image URLs or download images locally"`
	OnCollision  string `long:"on-collision" env:"ON_COLLISION" default:"suffix" choice:"suffix" choice:"fail" description:"Policy when a slug is taken by a different canonical URL"`

	SourcesFile    string `long:"sources" env:"SOURCES_FILE" default:"sources.yml" description:"YAML file listing feed sources for the all command"`
	Timezone       string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for post dates (e.g. UTC, Europe/Athens)"`
	UserAgent      string `long:"user-agent" env:"USER_AGENT" default:"blog-import/1.0" description:"User agent string for HTTP requests"`
	Timeout        int    `long:"timeout" env:"TIMEOUT" default:"30" description:"HTTP timeout in seconds"`
	ExtractContent bool   `long:"extract-content" env:"EXTRACT_CONTENT" description:"Fetch and extract the full article when the feed carries only a summary"`
	Draft          bool   `long:"draft" env:"DRAFT" description:"Mark imported posts as drafts"`
	Debug          bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}
