package memo

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestEncodeUnderLimitKeepsBreakdown(t *testing.T) {
	r := New("Small Desk", "build-1", 42, 3, 4.56, []PartQuantity{{ID: "3003", Q: 2}}, 1700000000)
	out, err := Encode(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var decoded Record
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if len(decoded.Breakdown) != 1 {
		t.Fatal("expected breakdown preserved when under the byte limit")
	}
}

func TestEncodeDropsBreakdownBeforeShorteningName(t *testing.T) {
	var huge []PartQuantity
	for i := 0; i < 100; i++ {
		huge = append(huge, PartQuantity{ID: "3003", Q: i})
	}
	r := New("A Reasonably Short Name", "build-2", 999, 10, 12.34, huge, 1700000000)
	out, err := Encode(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) > MaxBytes {
		t.Fatalf("expected output within %d bytes, got %d", MaxBytes, len(out))
	}
	if strings.Contains(string(out), `"3003"`) {
		t.Fatal("expected breakdown dropped once truncation was required")
	}
	var decoded Record
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if decoded.Name != "A Reasonably Short Name" {
		t.Fatal("expected the name preserved once dropping breakdown sufficed")
	}
}

func TestEncodeShortensNameWhenStillTooLarge(t *testing.T) {
	longName := strings.Repeat("x", 700)
	r := New(longName, "build-3", 1, 1, 0, nil, 1700000000)
	out, err := Encode(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) > MaxBytes {
		t.Fatalf("expected output within %d bytes, got %d", MaxBytes, len(out))
	}
	var decoded Record
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if len(decoded.Name) >= len(longName) {
		t.Fatal("expected the name to be shortened")
	}
}
