package options

import "testing"

func TestValidate_DefaultIsValid(t *testing.T) {
	o := Default()
	if err := o.Validate(); err != nil {
		t.Fatalf("expected default options to validate, got %v", err)
	}
}

func TestValidate_WithFileTypesAndAbsolute(t *testing.T) {
	o := Default()
	o.WithFileTypes = true
	o.Absolute = true
	if err := o.Validate(); err == nil {
		t.Fatal("expected an error combining WithFileTypes and Absolute")
	}
}

func TestValidate_MatchBaseWithNoGlobstar(t *testing.T) {
	o := Default()
	o.MatchBase = true
	o.NoGlobstar = true
	if err := o.Validate(); err == nil {
		t.Fatal("expected an error combining MatchBase and NoGlobstar")
	}
}

func TestValidate_MatchBaseAloneIsFine(t *testing.T) {
	o := Default()
	o.MatchBase = true
	o.MaxDepth = 0
	if err := o.Validate(); err != nil {
		t.Fatalf("expected MatchBase with MaxDepth 0 to validate, got %v", err)
	}
}

func TestValidate_NegativeDepth(t *testing.T) {
	o := Default()
	o.MaxDepth = -2
	if err := o.Validate(); err == nil {
		t.Fatal("expected an error for MaxDepth < -1")
	}
}

func TestValidate_IncludeChildrenNeedsIgnore(t *testing.T) {
	o := Default()
	o.IncludeChildren = true
	if err := o.Validate(); err == nil {
		t.Fatal("expected an error for IncludeChildren without an ignore set")
	}
	o.Ignore = []string{"*.tmp"}
	if err := o.Validate(); err != nil {
		t.Fatalf("expected no error once an ignore set is present, got %v", err)
	}
}
