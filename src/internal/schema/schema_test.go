package schema

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestContributorsUnmarshalYAML(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		present bool
		count   int
	}{
		{"absent", "title: x\n", false, 0},
		{"null", "contributor: null\n", false, 0},
		{"single mapping", "contributor:\n  type: primary\n  full_name: A B\n", true, 1},
		{"sequence", "contributor:\n  - type: primary\n    full_name: A B\n  - type: secondary\n    first_name: C\n    last_name: D\n", true, 2},
		{"empty sequence", "contributor: []\n", true, 0},
	}
	for _, c := range cases {
		var rec BibliographicRecord
		if err := yaml.Unmarshal([]byte(c.in), &rec); err != nil {
			t.Fatalf("%s: unmarshal: %v", c.name, err)
		}
		if rec.Contributor.Present() != c.present || len(rec.Contributor.Items) != c.count {
			t.Fatalf("%s: present=%v count=%d", c.name, rec.Contributor.Present(), len(rec.Contributor.Items))
		}
	}
}

func TestContributorsUnmarshalJSON(t *testing.T) {
	cases := []struct {
		in      string
		present bool
		count   int
	}{
		{`{}`, false, 0},
		{`{"contributor":null}`, false, 0},
		{`{"contributor":{"type":"primary","full_name":"A B"}}`, true, 1},
		{`{"contributor":[{"type":"primary"},{"type":"secondary"}]}`, true, 2},
		{`{"contributor":[]}`, true, 0},
	}
	for _, c := range cases {
		var rec BibliographicRecord
		if err := json.Unmarshal([]byte(c.in), &rec); err != nil {
			t.Fatalf("%s: unmarshal: %v", c.in, err)
		}
		if rec.Contributor.Present() != c.present || len(rec.Contributor.Items) != c.count {
			t.Fatalf("%s: present=%v count=%d", c.in, rec.Contributor.Present(), len(rec.Contributor.Items))
		}
	}
	var rec BibliographicRecord
	if err := json.Unmarshal([]byte(`{"contributor":"A B"}`), &rec); err == nil {
		t.Fatalf("expected error for scalar contributor")
	}
}

func TestPublishersUnmarshal(t *testing.T) {
	var rec BibliographicRecord
	if err := yaml.Unmarshal([]byte("publisher:\n  name: P\n  location: L\n"), &rec); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if len(rec.Publisher) != 1 || rec.Publisher[0].Location != "L" {
		t.Fatalf("yaml single publisher: %+v", rec.Publisher)
	}
	rec = BibliographicRecord{}
	if err := json.Unmarshal([]byte(`{"publisher":[{"name":"A"},{"name":"B"}]}`), &rec); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(rec.Publisher) != 2 || rec.Publisher[1].Name != "B" {
		t.Fatalf("json publishers: %+v", rec.Publisher)
	}
}

func TestValidate(t *testing.T) {
	rec := BibliographicRecord{
		Publisher:   Publishers{{Name: "P"}},
		Identifier:  &Identifier{ISBN: "123"},
		Description: NewDescription("<p>d</p>"),
	}
	if err := rec.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec.Identifier.ISBN = " "
	err := rec.Validate()
	var ie *InputError
	if !errors.As(err, &ie) || ie.Field != "identifier.isbn" {
		t.Fatalf("want InputError for identifier.isbn, got %v", err)
	}
	if !errors.Is(err, ErrMalformedInput) {
		t.Fatalf("InputError should match ErrMalformedInput")
	}
	if !strings.Contains(err.Error(), "missing identifier.isbn") {
		t.Fatalf("message: %q", err.Error())
	}

	rec.Identifier.ISBN = "123"
	rec.Description = NewDescription("")
	if err := rec.Validate(); err != nil {
		t.Fatalf("present empty description should be accepted: %v", err)
	}
	rec.Description = &Description{}
	if err := rec.Validate(); !errors.As(err, &ie) || ie.Field != "description.full" {
		t.Fatalf("want InputError for description.full, got %v", err)
	}
}

func TestContributorListMarshal(t *testing.T) {
	b, _ := json.Marshal(AbsentContributors())
	if string(b) != "false" {
		t.Fatalf("absent: want false, got %s", b)
	}
	b, _ = json.Marshal(PresentContributors(nil))
	if string(b) != "[]" {
		t.Fatalf("present empty: want [], got %s", b)
	}
	b, _ = json.Marshal(PresentContributors([]NormalizedContributor{{Name: "A B", Role: "aut", FileAs: "B, A", FullName: true}}))
	if string(b) != `[{"name":"A B","role":"aut","file-as":"B, A","fullname":true}]` {
		t.Fatalf("present: got %s", b)
	}
	y, _ := yaml.Marshal(map[string]ContributorList{"creators": AbsentContributors()})
	if strings.TrimSpace(string(y)) != "creators: false" {
		t.Fatalf("yaml absent: got %q", y)
	}
}

func TestDescriptionPresence(t *testing.T) {
	var rec BibliographicRecord
	if err := yaml.Unmarshal([]byte("description:\n  full: \"\"\n"), &rec); err != nil {
		t.Fatal(err)
	}
	if rec.Description == nil || rec.Description.Full == nil || *rec.Description.Full != "" {
		t.Fatalf("present empty full: %+v", rec.Description)
	}
	rec = BibliographicRecord{}
	if err := json.Unmarshal([]byte(`{"description":{}}`), &rec); err != nil {
		t.Fatal(err)
	}
	if rec.Description == nil || rec.Description.Full != nil {
		t.Fatalf("absent full: %+v", rec.Description)
	}
}
