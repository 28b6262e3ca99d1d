// Package chapter turns fetched chapter sources into page entries.
package chapter

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"epubgen/src/internal/stringsx"
)

// ErrEmptyContent is returned when a chapter source has no content at all.
var ErrEmptyContent = errors.New("chapter: empty content")

// Options carries the build directories a page is placed under.
type Options struct {
	OutputDir string
	ImageDir  string
}

// Image is a remote image referenced by a page and the local path it is
// expected at once packaged.
type Image struct {
	Source string `yaml:"source" json:"source"`
	Path   string `yaml:"path" json:"path"`
}

// Page is one transformed chapter. Assembly treats it as opaque.
type Page struct {
	ID        string  `yaml:"id" json:"id"`
	Title     string  `yaml:"title" json:"title"`
	BookTitle string  `yaml:"book_title" json:"book_title"`
	Path      string  `yaml:"path" json:"path"`
	Content   string  `yaml:"content" json:"content"`
	Images    []Image `yaml:"images,omitempty" json:"images,omitempty"`
}

// Transformer converts raw chapter content into a Page.
type Transformer interface {
	Transform(raw []byte, bookTitle string, opts Options) (Page, error)
}

// TransformFunc adapts a plain function to Transformer.
type TransformFunc func(raw []byte, bookTitle string, opts Options) (Page, error)

func (f TransformFunc) Transform(raw []byte, bookTitle string, opts Options) (Page, error) {
	return f(raw, bookTitle, opts)
}

// HTMLTransformer is the default Transformer for HTML chapter sources. It
// keeps the main (or body) markup, takes the chapter title from the first
// h1 or the document title, and points image sources at the image directory.
type HTMLTransformer struct{}

func (HTMLTransformer) Transform(raw []byte, bookTitle string, opts Options) (Page, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return Page{}, ErrEmptyContent
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return Page{}, fmt.Errorf("chapter: parse html: %w", err)
	}

	title := stringsx.FirstNonEmpty(
		stringsx.CollapseSpace(doc.Find("h1").First().Text()),
		stringsx.CollapseSpace(doc.Find("title").First().Text()),
		bookTitle,
	)

	var images []Image
	seen := map[string]string{}
	doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		src := strings.TrimSpace(s.AttrOr("src", ""))
		if src == "" || strings.HasPrefix(src, "data:") {
			return
		}
		local, ok := seen[src]
		if !ok {
			local = path.Join(opts.ImageDir, imageName(src))
			seen[src] = local
			images = append(images, Image{Source: src, Path: path.Join(opts.OutputDir, local)})
		}
		s.SetAttr("src", local)
	})

	body := doc.Find("main").First()
	if body.Length() == 0 {
		body = doc.Find("body").First()
	}
	content, err := body.Html()
	if err != nil {
		return Page{}, fmt.Errorf("chapter: render html: %w", err)
	}

	id := Slugify(title)
	return Page{
		ID:        id,
		Title:     title,
		BookTitle: bookTitle,
		Path:      path.Join(opts.OutputDir, id+".xhtml"),
		Content:   strings.TrimSpace(content),
		Images:    images,
	}, nil
}

func imageName(src string) string {
	if u, err := url.Parse(src); err == nil && u.Path != "" {
		return path.Base(u.Path)
	}
	return path.Base(src)
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify generates an id-friendly slug from a chapter title.
func Slugify(title string) string {
	t := strings.ToLower(strings.TrimSpace(title))
	t = nonAlnum.ReplaceAllString(t, "-")
	t = strings.Trim(t, "-")
	if t == "" {
		return "chapter"
	}
	return t
}
