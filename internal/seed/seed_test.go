package seed

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBuiltin(t *testing.T) {
	cat, err := Builtin()
	if err != nil {
		t.Fatalf("Builtin: %v", err)
	}
	if cat.Len() != 6 {
		t.Fatalf("expected 6 restaurants, got %d", cat.Len())
	}

	r, ok := cat.Get("a1b2c3d4-e5f6-7890-1234-567890abcdef")
	if !ok {
		t.Fatal("expected 화끈한 마라집 in seed")
	}
	if r.Name != "화끈한 마라집" || r.PriceRange != "$$" || len(r.Reviews) != 3 {
		t.Fatalf("unexpected record: %+v", r)
	}
	if r.Rating == nil || *r.Rating != 4.5 {
		t.Fatalf("unexpected rating: %v", r.Rating)
	}
	if r.ExternalMapURL != "https://maps.google.com/?q=Spicy+House+No+1" {
		t.Errorf("unexpected map url: %s", r.ExternalMapURL)
	}
}

func TestLoad_EmptyPathUsesBuiltin(t *testing.T) {
	cat, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cat.Len() != 6 {
		t.Fatalf("expected 6 restaurants, got %d", cat.Len())
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "r.yaml")
	data := []byte(`
- id: r1
  name: 테스트 식당
  category: 한식
  address: 서울
  price_range: "$"
  reviews:
    - content: 조용한 곳
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	cat, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cat.Len() != 1 {
		t.Fatalf("expected 1 restaurant, got %d", cat.Len())
	}
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	_ = os.WriteFile(bad, []byte("- id: x\n  name: y\n  price_range: \"$$$$$\"\n"), 0o600)
	if _, err := Load(bad); err == nil {
		t.Fatal("expected validation error for unknown tier")
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
