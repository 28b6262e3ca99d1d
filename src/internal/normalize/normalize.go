// Package normalize derives presentation-ready publication metadata from a
// bibliographic record. Every function is pure: no I/O, no shared state, and
// repeated calls on the same record return equal results.
package normalize

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"epubgen/src/internal/config"
	"epubgen/src/internal/names"
	"epubgen/src/internal/sanitize"
	"epubgen/src/internal/schema"
)

// Contributor type tags and their default roles.
const (
	TypePrimary   = "primary"
	TypeSecondary = "secondary"

	RoleAuthor      = "aut"
	RoleContributor = "ctb"
)

// StylesheetPath is appended to the base URL to locate the e-book stylesheet.
const StylesheetPath = "css/epub.css"

// Title composes "title: subtitle reading_line", "title: subtitle" or
// "title". A reading line without a subtitle is ignored.
func Title(rec *schema.BibliographicRecord) string {
	switch {
	case rec.Subtitle != "" && rec.ReadingLine != "":
		return fmt.Sprintf("%s: %s %s", rec.Title, rec.Subtitle, rec.ReadingLine)
	case rec.Subtitle != "":
		return fmt.Sprintf("%s: %s", rec.Title, rec.Subtitle)
	default:
		return rec.Title
	}
}

// Creators returns the primary contributors, defaulting their role to "aut".
func Creators(rec *schema.BibliographicRecord) (schema.ContributorList, error) {
	return extract(rec, TypePrimary, RoleAuthor)
}

// Contributors returns the secondary contributors, defaulting their role to
// "ctb".
func Contributors(rec *schema.BibliographicRecord) (schema.ContributorList, error) {
	return extract(rec, TypeSecondary, RoleContributor)
}

func extract(rec *schema.BibliographicRecord, typ, defaultRole string) (schema.ContributorList, error) {
	if !rec.Contributor.Present() {
		return schema.AbsentContributors(), nil
	}
	out := []schema.NormalizedContributor{}
	for i, c := range rec.Contributor.Items {
		if c.Type != typ {
			continue
		}
		nc, err := Contributor(c, defaultRole)
		if err != nil {
			return schema.ContributorList{}, fmt.Errorf("contributor[%d]: %w", i, err)
		}
		out = append(out, nc)
	}
	return schema.PresentContributors(out), nil
}

// Contributor normalizes a single contributor. Names given only as a full
// name have their file-as form guessed and are flagged with FullName.
func Contributor(c schema.Contributor, defaultRole string) (schema.NormalizedContributor, error) {
	n, err := names.Parse(c.FullName, c.FirstName, c.LastName)
	if err != nil {
		return schema.NormalizedContributor{}, err
	}
	role := c.Role
	if role == "" {
		role = defaultRole
	}
	return schema.NormalizedContributor{
		Name:     n.Display(),
		Role:     role,
		FileAs:   n.FileAs(),
		FullName: n.Heuristic(),
	}, nil
}

// Publishers renders each publisher as "name, location" or "name". The
// boolean is false when the record has no publisher at all.
func Publishers(rec *schema.BibliographicRecord) ([]string, bool) {
	if len(rec.Publisher) == 0 {
		return nil, false
	}
	out := make([]string, 0, len(rec.Publisher))
	for _, p := range rec.Publisher {
		out = append(out, Publisher(p))
	}
	return out, true
}

// Publisher renders one publisher.
func Publisher(p schema.Publisher) string {
	if p.Location != "" {
		return p.Name + ", " + p.Location
	}
	return p.Name
}

// Description returns description.full with all markup stripped and line
// breaks folded into spaces.
func Description(rec *schema.BibliographicRecord) (string, error) {
	if rec.Description == nil || rec.Description.Full == nil {
		return "", &schema.InputError{Field: "description.full"}
	}
	return sanitize.PlainText(*rec.Description.Full), nil
}

// StylesheetURLs resolves baseURL against authority, appends StylesheetPath
// and lower-cases the result. Relative base URLs land on authority; absolute
// ones keep their own host. Exactly one URL is returned.
func StylesheetURLs(baseURL, authority string) ([]string, error) {
	root, err := url.Parse(strings.TrimSpace(authority))
	if err != nil || !root.IsAbs() {
		return nil, fmt.Errorf("normalize: local authority %q is not an absolute URL", authority)
	}
	base, err := root.Parse(config.DetermineBaseURL(baseURL))
	if err != nil {
		return nil, fmt.Errorf("normalize: base url %q: %w", baseURL, err)
	}
	base.Path = path.Join("/", base.Path, StylesheetPath)
	base.RawPath = ""
	base.RawQuery = ""
	base.Fragment = ""
	return []string{strings.ToLower(base.String())}, nil
}
