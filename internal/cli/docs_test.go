package cli

import (
	"testing"
	"testing/fstest"

	builtindocs "github.com/magpiedev/magpie/docs"
)

func TestListDocsTopicsFromBundle(t *testing.T) {
	topics, err := listDocsTopics(builtindocs.FS)
	if err != nil {
		t.Fatalf("listDocsTopics: %v", err)
	}
	if len(topics) == 0 {
		t.Fatalf("no bundled topics found")
	}
	if _, ok := findDocsTopic(topics, "getting-started"); !ok {
		t.Fatalf("getting-started topic missing, got %+v", topics)
	}
}

func TestListDocsTopicsDerivesTitles(t *testing.T) {
	fsys := fstest.MapFS{
		"guide/alpha.md": {Data: []byte("# Alpha Guide\n\nbody\n")},
		"guide/beta.md":  {Data: []byte("no heading here\n")},
		"guide/skip.txt": {Data: []byte("not markdown")},
	}

	topics, err := listDocsTopics(fsys)
	if err != nil {
		t.Fatalf("listDocsTopics: %v", err)
	}
	if len(topics) != 2 {
		t.Fatalf("expected 2 topics, got %+v", topics)
	}
	if topics[0].ID != "alpha" || topics[0].Title != "Alpha Guide" {
		t.Fatalf("alpha topic wrong: %+v", topics[0])
	}
	if topics[1].ID != "beta" || topics[1].Title != "beta" {
		t.Fatalf("title fallback wrong: %+v", topics[1])
	}
}
