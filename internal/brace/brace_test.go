package brace

import (
	"reflect"
	"sort"
	"testing"
)

func sorted(s []string) []string {
	out := append([]string(nil), s...)
	sort.Strings(out)
	return out
}

func TestExpand_Alternation(t *testing.T) {
	got, err := Expand("a{b,c,d}e", false)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"abe", "ace", "ade"}
	if !reflect.DeepEqual(sorted(got), sorted(want)) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestExpand_NumericRange(t *testing.T) {
	got, err := Expand("file{1..3}.txt", false)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"file1.txt", "file2.txt", "file3.txt"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestExpand_NumericRangeStep(t *testing.T) {
	got, err := Expand("{0..10..2}", false)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"0", "2", "4", "6", "8", "10"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestExpand_ZeroPadded(t *testing.T) {
	got, err := Expand("{01..03}", false)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"01", "02", "03"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestExpand_EmptyAlternative(t *testing.T) {
	got, err := Expand("{,x}", false)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"", "x"}
	if !reflect.DeepEqual(sorted(got), sorted(want)) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestExpand_Nested(t *testing.T) {
	got, err := Expand("{a,b{1,2}}", false)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"a", "b1", "b2"}
	if !reflect.DeepEqual(sorted(got), sorted(want)) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestExpand_NoBrace(t *testing.T) {
	got, err := Expand("{a,b}", true)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"{a,b}"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestExpand_Unclosed(t *testing.T) {
	got, err := Expand("a{bc", false)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"a{bc"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestExpand_SafetyCap(t *testing.T) {
	_, err := Expand("{0..200000}", false)
	if err == nil {
		t.Fatal("expected a ConfigurationError for an oversized range")
	}
	if _, ok := err.(*ConfigurationError); !ok {
		t.Fatalf("got %T, want *ConfigurationError", err)
	}
}

func TestExpand_NoMagic(t *testing.T) {
	got, err := Expand("plain/path.go", false)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"plain/path.go"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
