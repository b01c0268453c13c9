package shaper

import (
	"fmt"
	"sync"
	"testing"

	"github.com/dl/globwalk/internal/options"
	"github.com/dl/globwalk/internal/walker"
)

func TestShaper_DedupByPath(t *testing.T) {
	s := New(".", ".", options.Default(), nil)
	s.Add(walker.Candidate{Path: "a/b.go", IsDir: false})
	s.Add(walker.Candidate{Path: "a/b.go", IsDir: false})
	out := s.Finish()
	if len(out) != 1 {
		t.Fatalf("got %d entries, want 1", len(out))
	}
}

func TestShaper_MaxDepth(t *testing.T) {
	o := options.Default()
	o.MaxDepth = 1
	s := New(".", ".", o, nil)
	s.Add(walker.Candidate{Path: "a/b.go", Depth: 1})
	s.Add(walker.Candidate{Path: "a/b/c.go", Depth: 2})
	out := s.Finish()
	if len(out) != 1 || out[0].Path != "a/b.go" {
		t.Fatalf("got %+v", out)
	}
}

func TestShaper_SortedOutput(t *testing.T) {
	s := New(".", ".", options.Default(), nil)
	s.Add(walker.Candidate{Path: "z.go"})
	s.Add(walker.Candidate{Path: "a.go"})
	out := s.Finish()
	if out[0].Path != "a.go" || out[1].Path != "z.go" {
		t.Fatalf("got %+v, want sorted", out)
	}
}

func TestShaper_Mark(t *testing.T) {
	o := options.Default()
	o.Mark = true
	s := New(".", ".", o, nil)
	s.Add(walker.Candidate{Path: "dir", IsDir: true})
	out := s.Finish()
	if out[0].Path != "dir/" {
		t.Errorf("got %q, want dir/", out[0].Path)
	}
}

func TestShaper_Absolute(t *testing.T) {
	o := options.Default()
	o.Absolute = true
	s := New(".", "/home/x", o, nil)
	s.Add(walker.Candidate{Path: "a.go"})
	out := s.Finish()
	if out[0].Path != "/home/x/a.go" {
		t.Errorf("got %q", out[0].Path)
	}
}

func TestShaper_IgnoreFunc(t *testing.T) {
	ignore := func(relPath string, isDir bool) bool { return relPath == "skip.go" }
	s := New(".", ".", options.Default(), ignore)
	s.Add(walker.Candidate{Path: "skip.go"})
	s.Add(walker.Candidate{Path: "keep.go"})
	out := s.Finish()
	if len(out) != 1 || out[0].Path != "keep.go" {
		t.Fatalf("got %+v", out)
	}
}

func TestShaper_ConcurrentAddIsRaceFree(t *testing.T) {
	s := New(".", ".", options.Default(), nil)
	const n = 200
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Add(walker.Candidate{Path: fmt.Sprintf("f%d.go", i)})
		}(i)
	}
	wg.Wait()
	out := s.Finish()
	if len(out) != n {
		t.Fatalf("got %d entries, want %d (concurrent Add must not lose or corrupt entries)", len(out), n)
	}
}

func TestShaper_ConcurrentAddWithIgnoreFunc(t *testing.T) {
	// NegationIgnore's ignoredDirs map is mutated inside the ignore
	// closure itself, so it must be protected by the same lock as
	// seen/entries, not just the map/slice writes in Add.
	ignore := NegationIgnore(func(relPath string, isDir bool) bool { return relPath == "skip" }, false)
	s := New(".", ".", options.Default(), ignore)
	const n = 200
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Add(walker.Candidate{Path: fmt.Sprintf("f%d.go", i)})
		}(i)
	}
	wg.Wait()
	out := s.Finish()
	if len(out) != n {
		t.Fatalf("got %d entries, want %d", len(out), n)
	}
}

func TestShaper_WithFileTypesMetadata(t *testing.T) {
	o := options.Default()
	o.WithFileTypes = true
	s := New("sub", "/home/x", o, nil)
	s.Add(walker.Candidate{Path: "a.go", Type: walker.DT_REG})
	out := s.Finish()
	if len(out) != 1 {
		t.Fatalf("got %d entries, want 1", len(out))
	}
	e := out[0]
	if e.Basename != "a.go" {
		t.Errorf("got basename %q, want a.go", e.Basename)
	}
	if e.FullPath != "/home/x/sub/a.go" {
		t.Errorf("got full path %q, want /home/x/sub/a.go", e.FullPath)
	}
}

func TestNegationIgnore_HidesChildrenByDefault(t *testing.T) {
	matches := func(relPath string, isDir bool) bool { return relPath == "node_modules" }
	ignore := NegationIgnore(matches, false)
	if !ignore("node_modules", true) {
		t.Fatal("expected the directory itself to be ignored")
	}
	if !ignore("node_modules/pkg/index.js", false) {
		t.Fatal("expected a child of an ignored directory to be ignored too")
	}
}

func TestNegationIgnore_IncludeChildrenOptsOut(t *testing.T) {
	matches := func(relPath string, isDir bool) bool { return relPath == "node_modules" }
	ignore := NegationIgnore(matches, true)
	if !ignore("node_modules", true) {
		t.Fatal("expected the directory itself to still be ignored")
	}
	if ignore("node_modules/pkg/index.js", false) {
		t.Fatal("expected includeChildren to keep a child out of the ignore set")
	}
}
