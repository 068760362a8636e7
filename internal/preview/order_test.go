package preview

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseOrder(t *testing.T) {
	o, err := ParseOrder([]byte("leading: [Hero, Header]\ntrailing:\n  - Footer\n  - Contact\n"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(o.Leading, ",") != "Hero,Header" {
		t.Errorf("Leading = %v", o.Leading)
	}
	if strings.Join(o.Trailing, ",") != "Footer,Contact" {
		t.Errorf("Trailing = %v", o.Trailing)
	}
}

func TestParseOrder_Empty(t *testing.T) {
	o, err := ParseOrder(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(o.Leading) != 0 || len(o.Trailing) != 0 {
		t.Errorf("got %+v, want empty table", o)
	}
}

func TestParseOrder_UnknownKey(t *testing.T) {
	if _, err := ParseOrder([]byte("first: [Header]\n")); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestLoadOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "order.yaml")
	if err := os.WriteFile(path, []byte("leading: [Banner]\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	o, err := LoadOrder(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(o.Leading) != 1 || o.Leading[0] != "Banner" {
		t.Errorf("Leading = %v", o.Leading)
	}

	if _, err := LoadOrder(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDefaultOrderTrailing(t *testing.T) {
	for _, name := range []string{"footer", "CTA", "Contact", "contactform"} {
		if !DefaultOrder.trailing(name) {
			t.Errorf("%q not trailing", name)
		}
	}
	if DefaultOrder.trailing("Header") {
		t.Error("Header reported as trailing")
	}
}
