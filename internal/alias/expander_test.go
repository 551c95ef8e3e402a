package alias

import (
	"reflect"
	"testing"
)

func TestExpandGeneratesBothVariations(t *testing.T) {
	got := Expand([]string{"ABC Institute", "abc-institute!"}, "")
	want := []string{"abc institute", "abc-institute!", "abcinstitute"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestExpandIncludesCanonicalName(t *testing.T) {
	got := Expand(nil, "Polytechnic College")
	want := []string{"polytechnic college"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestExpandDeduplicatesAcrossInputs(t *testing.T) {
	got := Expand([]string{"State University", "STATE UNIVERSITY", "state university"}, "State University")
	want := []string{"state university"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestExpandSkipsEmptyInputs(t *testing.T) {
	if got := Expand([]string{"", "   "}, ""); len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
	if got := Expand(nil, ""); len(got) != 0 {
		t.Fatalf("expected empty result for no inputs, got %v", got)
	}
}

func TestExpandIsDeterministic(t *testing.T) {
	aliases := []string{"Tech. Institute, Ltd.", "T.I."}
	first := Expand(aliases, "Tech Institute")
	second := Expand(aliases, "Tech Institute")
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expansion not deterministic: %v vs %v", first, second)
	}
}

func TestExpandIsIdempotent(t *testing.T) {
	original := Expand([]string{"ABC Institute", "abc-institute!"}, "")
	originalSet := make(map[string]struct{}, len(original))
	for _, v := range original {
		originalSet[v] = struct{}{}
	}

	again := Expand(original, "")
	for _, v := range again {
		if _, ok := originalSet[v]; !ok {
			t.Fatalf("re-expansion produced new variation %q outside %v", v, original)
		}
	}
}

func TestExpandHandlesNonASCII(t *testing.T) {
	got := Expand([]string{"École Polytechnique"}, "")
	if len(got) == 0 {
		t.Fatal("expected variations for non-ASCII alias")
	}
	for _, v := range got {
		if v != "" && v[0] >= 'A' && v[0] <= 'Z' {
			t.Fatalf("expected folded output, got %q", v)
		}
	}
}
