package feed

import (
	"html"
	"log/slog"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"tvsignal/internal/config"
	"tvsignal/internal/domain"
	"tvsignal/internal/pipeline"
	"tvsignal/internal/ports"
)

var threadIDExpr = regexp.MustCompile(`/comments/([a-z0-9]+)`)

// Parser converts the raw feed document into normalized posts. Entries that
// yield no usable id are skipped with a warning; only a malformed document
// as a whole is fatal.
type Parser struct {
	snippetLimit int
	logger       *slog.Logger
}

var _ ports.FeedParser = (*Parser)(nil)

// NewParser wires the snippet length bound from config.
func NewParser(cfg config.FeedConfig, logger *slog.Logger) *Parser {
	limit := cfg.SnippetLimit
	if limit <= 0 {
		limit = 280
	}
	return &Parser{snippetLimit: limit, logger: logger}
}

// Parse extracts one post per feed entry. The id comes from the entry GUID,
// falling back to the thread id embedded in the link URL.
func (p *Parser) Parse(raw string) ([]domain.Post, error) {
	parsed, err := gofeed.NewParser().ParseString(raw)
	if err != nil {
		return nil, pipeline.Wrap(pipeline.ErrParse, "parse feed document", err)
	}

	posts := make([]domain.Post, 0, len(parsed.Items))
	for _, entry := range parsed.Items {
		id := extractID(entry)
		if id == "" {
			p.warn("cannot extract id for entry", "title", entry.Title)
			continue
		}

		post := domain.Post{
			ID:      id,
			Title:   html.UnescapeString(entry.Title),
			URL:     entry.Link,
			Author:  normalizeAuthor(entry),
			Snippet: p.snippet(entry.Content),
		}
		if entry.PublishedParsed != nil {
			post.CreatedAt = *entry.PublishedParsed
		} else if entry.UpdatedParsed != nil {
			post.CreatedAt = *entry.UpdatedParsed
		}

		posts = append(posts, post)
	}

	p.info("parsed feed entries", "posts", len(posts), "entries", len(parsed.Items))
	return posts, nil
}

func extractID(entry *gofeed.Item) string {
	id := entry.GUID
	if id != "" && !strings.HasPrefix(id, "http") {
		return id
	}
	if match := threadIDExpr.FindStringSubmatch(entry.Link); match != nil {
		return "t3_" + match[1]
	}
	return ""
}

func normalizeAuthor(entry *gofeed.Item) string {
	name := ""
	if len(entry.Authors) > 0 && entry.Authors[0] != nil {
		name = entry.Authors[0].Name
	}
	if name == "" {
		return "[deleted]"
	}
	name = strings.TrimPrefix(name, "/u/")
	name = strings.TrimPrefix(name, "u/")
	return name
}

// snippet reduces the entry's HTML content to bounded plain text.
func (p *Parser) snippet(content string) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return ""
	}

	text := strings.Join(strings.Fields(doc.Text()), " ")
	runes := []rune(text)
	if len(runes) > p.snippetLimit {
		text = string(runes[:p.snippetLimit]) + "..."
	}
	return text
}

func (p *Parser) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Parser) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}
