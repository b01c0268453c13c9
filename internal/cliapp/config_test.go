package cliapp

import "testing"

func TestValidate_NoPatterns(t *testing.T) {
	c := &Config{}
	if err := c.Validate(); err == nil {
		t.Fatal("expected an error when no patterns are given")
	}
}

func TestValidate_AbsoluteAndWithFileTypes(t *testing.T) {
	c := &Config{Patterns: []string{"*.go"}, Absolute: true, WithFileTypes: true}
	if err := c.Validate(); err == nil {
		t.Fatal("expected an error combining --absolute and --with-file-types")
	}
}

func TestValidate_BadMaxDepth(t *testing.T) {
	c := &Config{Patterns: []string{"*.go"}, MaxDepth: -2}
	if err := c.Validate(); err == nil {
		t.Fatal("expected an error for max-depth below -1")
	}
}

func TestValidate_BadColor(t *testing.T) {
	c := &Config{Patterns: []string{"*.go"}, Color: "rainbow"}
	if err := c.Validate(); err == nil {
		t.Fatal("expected an error for an unrecognized --color value")
	}
}

func TestValidate_Minimal(t *testing.T) {
	c := &Config{Patterns: []string{"*.go"}, MaxDepth: -1, Color: "auto"}
	if err := c.Validate(); err != nil {
		t.Fatalf("expected a minimal valid config to pass, got %v", err)
	}
}
