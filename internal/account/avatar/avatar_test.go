package avatar

import (
	"strings"
	"testing"
)

func TestURL(t *testing.T) {
	const prefix = "http://www.gravatar.com/avatar/d4c74594d841139328695756648b6bd6"

	got := URL("john@example.com", 128)
	if !strings.HasPrefix(got, prefix) {
		t.Fatalf("expected prefix %s, got %s", prefix, got)
	}
	if !strings.HasSuffix(got, "?d=mm&s=128") {
		t.Errorf("expected size suffix, got %s", got)
	}
}

func TestURL_NormalizesEmail(t *testing.T) {
	if URL("  John@Example.COM ", 64) != URL("john@example.com", 64) {
		t.Error("expected case and surrounding space to be ignored")
	}
}

func TestURL_DefaultSize(t *testing.T) {
	if got := URL("john@example.com", 0); !strings.HasSuffix(got, "&s=128") {
		t.Errorf("expected default size 128, got %s", got)
	}
}
