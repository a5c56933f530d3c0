package validate

import (
	"testing"

	"mmcatalog/internal/domain"
)

func TestQuality(t *testing.T) {
	for _, in := range []string{"high", "medium", "low", " HIGH "} {
		if _, ok := Quality(in); !ok {
			t.Errorf("Quality(%q) rejected", in)
		}
	}
	for _, in := range []string{"", "all", "premium"} {
		if _, ok := Quality(in); ok {
			t.Errorf("Quality(%q) accepted", in)
		}
	}
}

func TestQualityFilter(t *testing.T) {
	cases := map[string]bool{"": true, "all": true, "low": true, "ALL": true, "best": false}
	for in, want := range cases {
		if _, ok := QualityFilter(in); ok != want {
			t.Errorf("QualityFilter(%q) = %v, want %v", in, ok, want)
		}
	}
}

func TestPlatformAndSection(t *testing.T) {
	if p, ok := Platform("Telegram"); !ok || p != "telegram" {
		t.Fatalf("Platform: %q %v", p, ok)
	}
	if _, ok := Platform("viber"); !ok {
		t.Fatal("extension platform rejected")
	}
	if _, ok := Platform("../etc"); ok {
		t.Fatal("path-like platform accepted")
	}
	if _, ok := Section("how-to-order"); !ok {
		t.Fatal("section rejected")
	}
	if _, ok := Section(""); ok {
		t.Fatal("empty section accepted")
	}
}

func TestURL(t *testing.T) {
	good := []string{"", "https://t.me/x", "http://example.com/a.png", "/media/images/a.jpg"}
	for _, in := range good {
		if _, ok := URL(in); !ok {
			t.Errorf("URL(%q) rejected", in)
		}
	}
	bad := []string{"javascript:alert(1)", "ftp://x.y/z", "//evil.com/x", "not a url"}
	for _, in := range bad {
		if _, ok := URL(in); ok {
			t.Errorf("URL(%q) accepted", in)
		}
	}
	if URLs([]string{"https://a.b/c", ""}) {
		t.Error("empty media entry accepted")
	}
}

func TestIDAndBilingual(t *testing.T) {
	if _, ok := ID("gbc-001"); ok {
		t.Error("non-uuid id accepted")
	}
	if _, ok := ID("3f1c2a8e-4b5d-4c6e-9f70-8a9b0c1d2e3f"); !ok {
		t.Error("uuid rejected")
	}
	if Bilingual(domain.Bilingual{}) {
		t.Error("empty bilingual accepted")
	}
	if !Bilingual(domain.Bilingual{My: "မင်္ဂလာပါ"}) {
		t.Error("myanmar-only text rejected")
	}
}
