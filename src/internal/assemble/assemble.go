// Package assemble builds a PublicationRecord: normalized metadata plus the
// ordered pages of every chapter, fetched concurrently.
package assemble

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"epubgen/src/internal/chapter"
	"epubgen/src/internal/config"
	"epubgen/src/internal/fetch"
	"epubgen/src/internal/normalize"
	"epubgen/src/internal/schema"
)

// Assembler fetches chapter sources and merges them with normalized metadata.
// It holds no per-call state and may be used concurrently.
type Assembler struct {
	fetcher     fetch.Fetcher
	transformer chapter.Transformer
}

// New returns an Assembler using f for retrieval and t for per-chapter
// transformation.
func New(f fetch.Fetcher, t chapter.Transformer) *Assembler {
	return &Assembler{fetcher: f, transformer: t}
}

// Generate assembles the publication for rec. Metadata is derived first, so
// malformed records fail before any request is made. Chapters are fetched
// with at most cfg.Concurrency requests in flight; the first failure cancels
// the remaining fetches and fails the whole call. Pages keep chapter order.
func (a *Assembler) Generate(ctx context.Context, rec *schema.BibliographicRecord, cfg config.Build) (schema.PublicationRecord, error) {
	cfg.ApplyDefaults()
	log := zerolog.Ctx(ctx)
	start := time.Now()

	pub, err := Metadata(rec, cfg)
	if err != nil {
		return schema.PublicationRecord{}, err
	}
	log.Info().
		Str("title", pub.Title).
		Int("chapters", len(rec.Chapters)).
		Int("concurrency", cfg.Concurrency).
		Msg("Assembling publication")

	raws, err := a.loadChapters(ctx, rec.Chapters, cfg.Concurrency)
	if err != nil {
		return schema.PublicationRecord{}, err
	}

	opts := chapter.Options{OutputDir: cfg.OutputDir, ImageDir: cfg.ImageDir}
	pages := make([]chapter.Page, len(raws))
	for i, raw := range raws {
		page, err := a.transformer.Transform(raw, pub.Title, opts)
		if err != nil {
			return schema.PublicationRecord{}, fmt.Errorf("transform chapter %d: %w", i, err)
		}
		pages[i] = page
	}
	pub.Pages = pages

	log.Info().
		Int("pages", len(pages)).
		Dur("elapsed", time.Since(start)).
		Msg("Assembled publication")
	return pub, nil
}

// loadChapters fetches every location concurrently. Each goroutine writes
// only its own slot, so results come back in input order.
func (a *Assembler) loadChapters(ctx context.Context, locations []string, limit int) ([][]byte, error) {
	results := make([][]byte, len(locations))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(limit, 1))
	for i, loc := range locations {
		g.Go(func() error {
			body, err := a.fetcher.Fetch(gctx, loc)
			if err != nil {
				return fmt.Errorf("chapter %d: %w", i, err)
			}
			zerolog.Ctx(ctx).Debug().Int("chapter", i).Str("url", loc).Msg("Chapter loaded")
			results[i] = body
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Metadata builds every PublicationRecord field except Pages, which is left
// empty. It performs no I/O.
func Metadata(rec *schema.BibliographicRecord, cfg config.Build) (schema.PublicationRecord, error) {
	if err := rec.Validate(); err != nil {
		return schema.PublicationRecord{}, err
	}
	creators, err := normalize.Creators(rec)
	if err != nil {
		return schema.PublicationRecord{}, fmt.Errorf("creators: %w", err)
	}
	contributors, err := normalize.Contributors(rec)
	if err != nil {
		return schema.PublicationRecord{}, fmt.Errorf("contributors: %w", err)
	}
	description, err := normalize.Description(rec)
	if err != nil {
		return schema.PublicationRecord{}, err
	}
	authority := cfg.LocalAuthority
	if authority == "" {
		authority = config.DefaultLocalAuthority
	}
	css, err := normalize.StylesheetURLs(cfg.BaseURL, authority)
	if err != nil {
		return schema.PublicationRecord{}, err
	}

	first := rec.Publisher[0]
	return schema.PublicationRecord{
		Title:        normalize.Title(rec),
		Cover:        rec.PromoImage,
		URL:          first.URL,
		ISBN:         rec.Identifier.ISBN,
		Language:     rec.Language,
		Date:         rec.PubDate,
		Creators:     creators,
		Contributors: contributors,
		Publisher:    normalize.Publisher(first),
		Description:  description,
		Rights:       rec.Copyright,
		CSS:          css,
		Pages:        []chapter.Page{},
	}, nil
}
