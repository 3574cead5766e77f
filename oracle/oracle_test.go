package oracle

import (
	"context"
	"errors"
	"testing"

	"github.com/brickforge/brickforge/voxel"
)

func TestMemoCachesFirmVerdicts(t *testing.T) {
	calls := 0
	upstream := Func(func(ctx context.Context, part voxel.PartID, colour voxel.ColourID) (Verdict, error) {
		calls++
		return True, nil
	})
	m := NewMemo(upstream)

	v1, err := m.IsAvailable(context.Background(), "3005", 0)
	if err != nil || v1 != True {
		t.Fatalf("unexpected: %v %v", v1, err)
	}
	v2, err := m.IsAvailable(context.Background(), "3005", 0)
	if err != nil || v2 != True {
		t.Fatalf("unexpected: %v %v", v2, err)
	}
	if calls != 1 {
		t.Fatalf("expected upstream called once, got %d", calls)
	}
}

func TestMemoPromotesUnknownToFirmVerdict(t *testing.T) {
	answers := []Verdict{Unknown, False}
	i := 0
	upstream := Func(func(ctx context.Context, part voxel.PartID, colour voxel.ColourID) (Verdict, error) {
		v := answers[i]
		i++
		return v, nil
	})
	m := NewMemo(upstream)

	v1, _ := m.IsAvailable(context.Background(), "3005", 0)
	if v1 != Unknown {
		t.Fatalf("expected Unknown first, got %v", v1)
	}
	v2, _ := m.IsAvailable(context.Background(), "3005", 0)
	if v2 != False {
		t.Fatalf("expected promotion to False, got %v", v2)
	}
	// Once firm, upstream must not be requeried even if it would flip.
	v3, _ := m.IsAvailable(context.Background(), "3005", 0)
	if v3 != False {
		t.Fatalf("expected cached False to stick, got %v", v3)
	}
	if i != 2 {
		t.Fatalf("expected upstream queried twice, got %d", i)
	}
}

func TestMemoDoesNotCacheErrors(t *testing.T) {
	calls := 0
	upstream := Func(func(ctx context.Context, part voxel.PartID, colour voxel.ColourID) (Verdict, error) {
		calls++
		return Unknown, errors.New("boom")
	})
	m := NewMemo(upstream)

	_, err := m.IsAvailable(context.Background(), "3005", 0)
	if err == nil {
		t.Fatal("expected error")
	}
	_, err = m.IsAvailable(context.Background(), "3005", 0)
	if err == nil {
		t.Fatal("expected error again")
	}
	if calls != 2 {
		t.Fatalf("errors must not be memoised, got %d calls", calls)
	}
}

func TestLocalOracleAlwaysUnknown(t *testing.T) {
	var l Local
	v, err := l.IsAvailable(context.Background(), "3005", 0)
	if err != nil || v != Unknown {
		t.Fatalf("expected Unknown/nil, got %v %v", v, err)
	}
}

func TestMemoDistinctKeysIndependent(t *testing.T) {
	upstream := Func(func(ctx context.Context, part voxel.PartID, colour voxel.ColourID) (Verdict, error) {
		if colour == 0 {
			return True, nil
		}
		return False, nil
	})
	m := NewMemo(upstream)
	v0, _ := m.IsAvailable(context.Background(), "3005", 0)
	v1, _ := m.IsAvailable(context.Background(), "3005", 1)
	if v0 != True || v1 != False {
		t.Fatalf("expected independent verdicts, got %v %v", v0, v1)
	}
	if m.Len() != 2 {
		t.Fatalf("expected 2 cache entries, got %d", m.Len())
	}
}
