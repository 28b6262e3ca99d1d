package chapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMLTransformer_Transform(t *testing.T) {
	raw := []byte(`<!doctype html><html><head><title>Ignored</title></head>
<body><nav>menu</nav><main><h1>Chapter  One</h1>
<p>Text <img src="https://cdn.example.org/assets/fig-1.png?v=2"></p>
<p><img src="https://cdn.example.org/assets/fig-1.png?v=2"><img src="data:image/png;base64,AAAA"></p>
</main></body></html>`)

	page, err := HTMLTransformer{}.Transform(raw, "The Book", Options{OutputDir: "site", ImageDir: "img"})
	require.NoError(t, err)

	assert.Equal(t, "chapter-one", page.ID)
	assert.Equal(t, "Chapter One", page.Title)
	assert.Equal(t, "The Book", page.BookTitle)
	assert.Equal(t, "site/chapter-one.xhtml", page.Path)
	assert.NotContains(t, page.Content, "menu")
	assert.Contains(t, page.Content, `src="img/fig-1.png"`)
	assert.Contains(t, page.Content, "data:image/png")
	require.Len(t, page.Images, 1)
	assert.Equal(t, Image{Source: "https://cdn.example.org/assets/fig-1.png?v=2", Path: "site/img/fig-1.png"}, page.Images[0])
}

func TestHTMLTransformer_TitleFallbacks(t *testing.T) {
	page, err := HTMLTransformer{}.Transform([]byte(`<html><head><title>Doc Title</title></head><body><p>x</p></body></html>`), "Book", Options{})
	require.NoError(t, err)
	assert.Equal(t, "Doc Title", page.Title)
	assert.Equal(t, "<p>x</p>", page.Content)

	page, err = HTMLTransformer{}.Transform([]byte(`<p>only a fragment</p>`), "Book", Options{})
	require.NoError(t, err)
	assert.Equal(t, "Book", page.Title)
}

func TestHTMLTransformer_Empty(t *testing.T) {
	_, err := HTMLTransformer{}.Transform([]byte("  \n"), "Book", Options{})
	assert.ErrorIs(t, err, ErrEmptyContent)
}

func TestTransformFunc(t *testing.T) {
	var got Options
	f := TransformFunc(func(raw []byte, title string, opts Options) (Page, error) {
		got = opts
		return Page{Title: title, Content: string(raw)}, nil
	})
	page, err := f.Transform([]byte("c"), "t", Options{OutputDir: "o", ImageDir: "i"})
	require.NoError(t, err)
	assert.Equal(t, Page{Title: "t", Content: "c"}, page)
	assert.Equal(t, Options{OutputDir: "o", ImageDir: "i"}, got)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "hello-world", Slugify("Hello, World!"))
	assert.Equal(t, "chapter", Slugify("  ?? "))
}
