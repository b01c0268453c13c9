package globwalk

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/dl/globwalk/internal/errpolicy"
)

func mkTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := []string{
		"a.go",
		"b.txt",
		"sub/c.go",
		"sub/d.txt",
		"sub/sub2/e.go",
		".hidden.go",
	}
	for _, f := range files {
		full := filepath.Join(root, f)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func paths(results []Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Path
	}
	sort.Strings(out)
	return out
}

func TestWalk_CurrentDirExtension(t *testing.T) {
	root := mkTree(t)
	t.Chdir(root)

	results, err := Walk(context.Background(), []string{"*.go"}, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	got := paths(results)
	want := []string{"a.go"}
	if len(got) != len(want) || got[0] != want[0] {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestWalk_Globstar(t *testing.T) {
	root := mkTree(t)
	t.Chdir(root)

	results, err := Walk(context.Background(), []string{"**/*.go"}, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	got := paths(results)
	want := []string{"a.go", "sub/c.go", "sub/sub2/e.go"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got %v, want %v", got, want)
			break
		}
	}
}

func TestWalk_DotfilesExcludedByDefault(t *testing.T) {
	root := mkTree(t)
	t.Chdir(root)

	results, err := Walk(context.Background(), []string{"*.go"}, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range results {
		if r.Path == ".hidden.go" {
			t.Fatal("expected a dotfile to be excluded without the Dot option")
		}
	}
}

func TestWalk_DotOptionIncludesDotfiles(t *testing.T) {
	root := mkTree(t)
	t.Chdir(root)

	opts := DefaultOptions()
	opts.Dot = true
	results, err := Walk(context.Background(), []string{"*.go"}, opts)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, r := range results {
		if r.Path == ".hidden.go" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected .hidden.go to be included with Dot set")
	}
}

func TestWalk_StaticPattern(t *testing.T) {
	root := mkTree(t)
	t.Chdir(root)

	results, err := Walk(context.Background(), []string{"sub/c.go"}, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Path != "sub/c.go" {
		t.Fatalf("got %+v, want exactly [sub/c.go]", results)
	}
}

func TestWalk_MultiplePatternsDivergentRoots(t *testing.T) {
	root := mkTree(t)
	t.Chdir(root)

	results, err := Walk(context.Background(), []string{"sub/*.go", "sub/sub2/*.go"}, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	got := paths(results)
	want := []string{"sub/c.go", "sub/sub2/e.go"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got %v, want %v", got, want)
			break
		}
	}
}

func TestWalk_IgnorePattern(t *testing.T) {
	root := mkTree(t)
	t.Chdir(root)

	opts := DefaultOptions()
	opts.Ignore = []string{"sub/**"}
	results, err := Walk(context.Background(), []string{"**/*.go"}, opts)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range results {
		if r.Path != "a.go" {
			t.Errorf("got %q, expected sub/ to be fully ignored", r.Path)
		}
	}
}

func TestWalk_Absolute(t *testing.T) {
	root := mkTree(t)
	t.Chdir(root)

	opts := DefaultOptions()
	opts.Absolute = true
	results, err := Walk(context.Background(), []string{"a.go"}, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	want := filepath.Join(root, "a.go")
	if results[0].Path != want {
		t.Errorf("got %q, want %q", results[0].Path, want)
	}
}

func TestEscapeUnescape_Roundtrip(t *testing.T) {
	cases := []string{"*.go", "a[bc]d", "literal", "+(a|b).go", `back\slash`}
	for _, s := range cases {
		got := Unescape(Escape(s))
		if got != s {
			t.Errorf("Unescape(Escape(%q)) = %q, want %q", s, got, s)
		}
		if HasMagic(Escape(s), DefaultOptions()) {
			t.Errorf("HasMagic(Escape(%q)) = true, want false", s)
		}
	}
}

func TestHasMagic_Root(t *testing.T) {
	if HasMagic("plain/path.go", DefaultOptions()) {
		t.Error("expected a plain path to report no magic")
	}
	if !HasMagic("*.go", DefaultOptions()) {
		t.Error("expected *.go to report magic")
	}
}

func TestStream_StopsOnError(t *testing.T) {
	root := mkTree(t)
	t.Chdir(root)

	count := 0
	stopErr := os.ErrClosed
	err := Stream(context.Background(), []string{"**/*.go"}, DefaultOptions(), func(r Result) error {
		count++
		return stopErr
	})
	if err != stopErr {
		t.Fatalf("got %v, want %v", err, stopErr)
	}
	if count != 1 {
		t.Fatalf("got %d calls, want exactly 1 (fn should stop the walk)", count)
	}
}

func TestIterate_YieldsAllResults(t *testing.T) {
	root := mkTree(t)
	t.Chdir(root)

	seq, err := Iterate(context.Background(), []string{"**/*.go"}, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for r := range seq {
		got = append(got, r.Path)
	}
	if len(got) != 3 {
		t.Fatalf("got %v, want 3 entries", got)
	}
}

func TestWalk_ExtglobPattern(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"a.go", "b.go", "c.go"} {
		if err := os.WriteFile(filepath.Join(root, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	t.Chdir(root)

	results, err := Walk(context.Background(), []string{"+(a|b).go"}, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	got := paths(results)
	want := []string{"a.go", "b.go"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got %v, want %v", got, want)
			break
		}
	}
}

func TestWalk_NegatedPatternInMainList(t *testing.T) {
	root := mkTree(t)
	t.Chdir(root)

	results, err := Walk(context.Background(), []string{"**/*.go", "!sub/**"}, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Path != "a.go" {
		t.Fatalf("got %+v, want exactly [a.go] once sub/** is negated out", results)
	}
}

func TestWalk_WithFileTypesMetadata(t *testing.T) {
	root := mkTree(t)
	t.Chdir(root)

	opts := DefaultOptions()
	opts.WithFileTypes = true
	results, err := Walk(context.Background(), []string{"*.go"}, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	r := results[0]
	if r.Basename != "a.go" {
		t.Errorf("got basename %q, want a.go", r.Basename)
	}
	if want := filepath.Join(root, "a.go"); r.FullPath != want {
		t.Errorf("got full path %q, want %q", r.FullPath, want)
	}
	if !r.IsFile || r.IsSymlink {
		t.Errorf("got isFile=%v isSymlink=%v, want true/false", r.IsFile, r.IsSymlink)
	}
}

func TestWalk_CancellationReturnsError(t *testing.T) {
	root := mkTree(t)
	t.Chdir(root)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := Walk(ctx, []string{"**/*.go"}, DefaultOptions())
	if results != nil {
		t.Errorf("expected a cancelled walk to discard its results, got %v", results)
	}
	var cancelErr *errpolicy.CancellationError
	if !errors.As(err, &cancelErr) {
		t.Fatalf("got error %v, want a *errpolicy.CancellationError", err)
	}
}

func TestWalkAsync_DeliversResults(t *testing.T) {
	root := mkTree(t)
	t.Chdir(root)

	resCh, errCh := WalkAsync(context.Background(), []string{"*.go"}, DefaultOptions())
	var got []Result
	for r := range resCh {
		got = append(got, r)
	}
	if err := <-errCh; err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Path != "a.go" {
		t.Fatalf("got %+v", got)
	}
}
