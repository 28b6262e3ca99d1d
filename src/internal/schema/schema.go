package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"epubgen/src/internal/chapter"
)

// BibliographicRecord is the loosely structured book description supplied by
// the caller. Every field is optional at decode time; Validate reports the
// ones assembly cannot do without.
type BibliographicRecord struct {
	Title       string       `yaml:"title" json:"title"`
	Subtitle    string       `yaml:"subtitle,omitempty" json:"subtitle,omitempty"`
	ReadingLine string       `yaml:"reading_line,omitempty" json:"reading_line,omitempty"`
	Contributor Contributors `yaml:"contributor,omitempty" json:"contributor,omitempty"`
	Publisher   Publishers   `yaml:"publisher,omitempty" json:"publisher,omitempty"`
	Identifier  *Identifier  `yaml:"identifier,omitempty" json:"identifier,omitempty"`
	Language    string       `yaml:"language,omitempty" json:"language,omitempty"`
	PubDate     string       `yaml:"pub_date,omitempty" json:"pub_date,omitempty"`
	Copyright   string       `yaml:"copyright,omitempty" json:"copyright,omitempty"`
	Description *Description `yaml:"description,omitempty" json:"description,omitempty"`
	PromoImage  string       `yaml:"promo_image,omitempty" json:"promo_image,omitempty"`
	Chapters    []string     `yaml:"chapters,omitempty" json:"chapters,omitempty"`
}

// Contributor is one person credited on the work. Type is "primary" for
// creators and "secondary" for other contributors.
type Contributor struct {
	Type      string `yaml:"type" json:"type"`
	FullName  string `yaml:"full_name,omitempty" json:"full_name,omitempty"`
	FirstName string `yaml:"first_name,omitempty" json:"first_name,omitempty"`
	LastName  string `yaml:"last_name,omitempty" json:"last_name,omitempty"`
	Role      string `yaml:"role,omitempty" json:"role,omitempty"`
}

type Publisher struct {
	Name     string `yaml:"name" json:"name"`
	Location string `yaml:"location,omitempty" json:"location,omitempty"`
	URL      string `yaml:"url,omitempty" json:"url,omitempty"`
}

type Identifier struct {
	ISBN string `yaml:"isbn" json:"isbn"`
}

// Description holds the publisher blurb. Full is nil when the key is absent;
// a present empty string is a valid, empty description.
type Description struct {
	Full *string `yaml:"full" json:"full"`
}

// NewDescription returns a description whose full text is present.
func NewDescription(full string) *Description { return &Description{Full: &full} }

// Contributors can decode from either a single contributor mapping or a
// sequence of them. It remembers whether the field was present at all so
// that an absent field and an empty list stay distinguishable.
type Contributors struct {
	Items   []Contributor
	present bool
}

// NewContributors returns a present contributor field holding items.
func NewContributors(items ...Contributor) Contributors {
	return Contributors{Items: items, present: true}
}

// Present reports whether the contributor field was supplied.
func (c Contributors) Present() bool { return c.present }

func (c Contributors) IsZero() bool { return !c.present }

func (c *Contributors) UnmarshalYAML(value *yaml.Node) error {
	items, err := decodeYAMLOneOrMany[Contributor](value)
	if err != nil {
		return fmt.Errorf("contributor: %w", err)
	}
	*c = Contributors{Items: items, present: true}
	return nil
}

func (c *Contributors) UnmarshalJSON(b []byte) error {
	if isJSONNull(b) {
		*c = Contributors{}
		return nil
	}
	items, err := decodeJSONOneOrMany[Contributor](b)
	if err != nil {
		return fmt.Errorf("contributor: %w", err)
	}
	*c = Contributors{Items: items, present: true}
	return nil
}

func (c Contributors) MarshalYAML() (any, error) { return c.Items, nil }

func (c Contributors) MarshalJSON() ([]byte, error) {
	if !c.present {
		return []byte("null"), nil
	}
	if c.Items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c.Items)
}

// Publishers decodes from a single publisher mapping or a sequence.
type Publishers []Publisher

func (p *Publishers) UnmarshalYAML(value *yaml.Node) error {
	items, err := decodeYAMLOneOrMany[Publisher](value)
	if err != nil {
		return fmt.Errorf("publisher: %w", err)
	}
	*p = items
	return nil
}

func (p *Publishers) UnmarshalJSON(b []byte) error {
	if isJSONNull(b) {
		*p = nil
		return nil
	}
	items, err := decodeJSONOneOrMany[Publisher](b)
	if err != nil {
		return fmt.Errorf("publisher: %w", err)
	}
	*p = items
	return nil
}

func decodeYAMLOneOrMany[T any](value *yaml.Node) ([]T, error) {
	switch value.Kind {
	case yaml.SequenceNode:
		out := make([]T, 0, len(value.Content))
		for _, n := range value.Content {
			var item T
			if err := n.Decode(&item); err != nil {
				return nil, err
			}
			out = append(out, item)
		}
		return out, nil
	case yaml.MappingNode:
		var item T
		if err := value.Decode(&item); err != nil {
			return nil, err
		}
		return []T{item}, nil
	default:
		return nil, fmt.Errorf("line %d: expected a mapping or a sequence", value.Line)
	}
}

func decodeJSONOneOrMany[T any](b []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var out []T
		if err := json.Unmarshal(trimmed, &out); err != nil {
			return nil, err
		}
		if out == nil {
			out = []T{}
		}
		return out, nil
	}
	var item T
	if err := json.Unmarshal(trimmed, &item); err != nil {
		return nil, err
	}
	return []T{item}, nil
}

func isJSONNull(b []byte) bool { return string(bytes.TrimSpace(b)) == "null" }

// ErrMalformedInput is matched by every InputError.
var ErrMalformedInput = errors.New("malformed bibliographic record")

// InputError names a required record field that is missing.
type InputError struct {
	Field string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%v: missing %s", ErrMalformedInput, e.Field)
}

func (e *InputError) Unwrap() error { return ErrMalformedInput }

// Validate checks the fields assembly dereferences unconditionally:
// the first publisher, identifier.isbn and description.full.
func (r *BibliographicRecord) Validate() error {
	if len(r.Publisher) == 0 {
		return &InputError{Field: "publisher[0]"}
	}
	if r.Identifier == nil || strings.TrimSpace(r.Identifier.ISBN) == "" {
		return &InputError{Field: "identifier.isbn"}
	}
	if r.Description == nil || r.Description.Full == nil {
		return &InputError{Field: "description.full"}
	}
	return nil
}

// NormalizedContributor is the presentation-ready form of a Contributor.
// FullName is set when FileAs was derived by splitting a composed name.
type NormalizedContributor struct {
	Name     string `yaml:"name" json:"name"`
	Role     string `yaml:"role" json:"role"`
	FileAs   string `yaml:"file-as" json:"file-as"`
	FullName bool   `yaml:"fullname,omitempty" json:"fullname,omitempty"`
}

// ContributorList is an optional list of normalized contributors. The zero
// value is absent and serializes as false; a present list serializes as an
// array, even when empty.
type ContributorList struct {
	items   []NormalizedContributor
	present bool
}

// AbsentContributors returns the absent list.
func AbsentContributors() ContributorList { return ContributorList{} }

// PresentContributors returns a present list holding items.
func PresentContributors(items []NormalizedContributor) ContributorList {
	if items == nil {
		items = []NormalizedContributor{}
	}
	return ContributorList{items: items, present: true}
}

// Items returns the contributors and whether the list is present.
func (l ContributorList) Items() ([]NormalizedContributor, bool) {
	return l.items, l.present
}

func (l ContributorList) Present() bool { return l.present }

func (l ContributorList) MarshalJSON() ([]byte, error) {
	if !l.present {
		return []byte("false"), nil
	}
	return json.Marshal(l.items)
}

func (l ContributorList) MarshalYAML() (any, error) {
	if !l.present {
		return false, nil
	}
	return l.items, nil
}

// PublicationRecord is the canonical output of assembly. Pages has one entry
// per input chapter, in input order.
type PublicationRecord struct {
	Title        string          `yaml:"title" json:"title"`
	Cover        string          `yaml:"cover" json:"cover"`
	URL          string          `yaml:"url" json:"url"`
	ISBN         string          `yaml:"isbn" json:"isbn"`
	Language     string          `yaml:"language" json:"language"`
	Date         string          `yaml:"date" json:"date"`
	Creators     ContributorList `yaml:"creators" json:"creators"`
	Contributors ContributorList `yaml:"contributors" json:"contributors"`
	Publisher    string          `yaml:"publisher" json:"publisher"`
	Description  string          `yaml:"description" json:"description"`
	Rights       string          `yaml:"rights" json:"rights"`
	CSS          []string        `yaml:"css" json:"css"`
	Pages        []chapter.Page  `yaml:"pages" json:"pages"`
}
