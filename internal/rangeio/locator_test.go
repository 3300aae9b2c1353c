package rangeio

import "testing"

func TestParseLocator(t *testing.T) {
	loc, err := ParseLocator("https://s3.us-east-1.amazonaws.com/my-bucket/path/to/app.db")
	if err != nil {
		t.Fatalf("ParseLocator: %v", err)
	}
	if loc.Bucket != "my-bucket" {
		t.Errorf("Bucket = %q, want %q", loc.Bucket, "my-bucket")
	}
	if loc.Key != "path/to/app.db" {
		t.Errorf("Key = %q, want %q", loc.Key, "path/to/app.db")
	}
	if loc.Path() != "/my-bucket/path/to/app.db" {
		t.Errorf("Path() = %q", loc.Path())
	}
}

func TestParseLocatorRejectsMissingKey(t *testing.T) {
	if _, err := ParseLocator("https://s3.example.com/bucket-only"); err == nil {
		t.Fatal("expected an error for a URL with no key, got nil")
	}
}

func TestParseLocatorRejectsBadScheme(t *testing.T) {
	if _, err := ParseLocator("ftp://s3.example.com/bucket/key"); err == nil {
		t.Fatal("expected an error for a non-HTTP scheme, got nil")
	}
}
