package content

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const frontMatterFence = "+++"

// FrontMatter mirrors the metadata block the site generator consumes. Key
// names are a fixed serialization contract; changing them breaks rendering of
// already-imported content.
type FrontMatter struct {
	Title        string    `toml:"title"`
	Date         time.Time `toml:"date"`
	Draft        bool      `toml:"draft"`
	Type         string    `toml:"type,omitempty"`
	CanonicalURL string    `toml:"canonical_url"`
	Image        string    `toml:"image,omitempty"`
	ImageAlt     string    `toml:"imageAlt,omitempty"`
	Tags         []string  `toml:"tags,omitempty"`
	Author       string    `toml:"author,omitempty"`
	Rating       int       `toml:"rating,omitempty"`
	ISBN         string    `toml:"isbn,omitempty"`
}

// EncodeFile serializes a front matter block and body into the on-disk file
// format: a TOML block between +++ fences, a blank line, then the Markdown
// body.
func EncodeFile(fm FrontMatter, body string) ([]byte, error) {
	tomlData, err := toml.Marshal(fm)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal front matter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(frontMatterFence)
	buf.WriteByte('\n')
	buf.Write(tomlData)
	buf.WriteString(frontMatterFence)
	buf.WriteString("\n\n")
	buf.WriteString(strings.TrimRight(body, "\n"))
	buf.WriteByte('\n')

	return buf.Bytes(), nil
}

// DecodeFile splits a content file back into front matter and body. Files
// without a leading fence or with invalid TOML are rejected.
func DecodeFile(data []byte) (*FrontMatter, string, error) {
	text := string(data)

	if !strings.HasPrefix(text, frontMatterFence+"\n") {
		return nil, "", fmt.Errorf("missing front matter fence")
	}

	rest := text[len(frontMatterFence)+1:]
	end := strings.Index(rest, "\n"+frontMatterFence)
	if end < 0 {
		return nil, "", fmt.Errorf("unterminated front matter block")
	}

	var fm FrontMatter
	if err := toml.Unmarshal([]byte(rest[:end+1]), &fm); err != nil {
		return nil, "", fmt.Errorf("failed to parse front matter: %w", err)
	}

	body := rest[end+1+len(frontMatterFence):]
	body = strings.TrimLeft(body, "\n")

	return &fm, body, nil
}
