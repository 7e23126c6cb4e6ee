package g2p

import (
	"reflect"
	"testing"
)

func TestToHiragana(t *testing.T) {
	if got := ToHiragana("キョウ"); got != "きょう" {
		t.Errorf("ToHiragana(キョウ) = %q", got)
	}
	// Hiragana and latin pass through untouched.
	if got := ToHiragana("きょう abc"); got != "きょう abc" {
		t.Errorf("got %q", got)
	}
}

func TestSplitMorae(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"きょう", []string{"きょ", "う"}},
		{"とうきょう", []string{"と", "う", "きょ", "う"}},
		{"らーめん", []string{"らー", "め", "ん"}},
		{"がっこう", []string{"が", "っ", "こ", "う"}},
		{"", nil},
	}
	for _, c := range cases {
		if got := SplitMorae(c.in); !reflect.DeepEqual(got, c.want) {
			t.Errorf("SplitMorae(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestKagomeAnalyze(t *testing.T) {
	k, err := NewKagome()
	if err != nil {
		t.Fatalf("new kagome: %v", err)
	}

	morae, err := k.Analyze("東京", false)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	want := []string{"と", "う", "きょ", "う"}
	if !reflect.DeepEqual(morae, want) {
		t.Errorf("got %v, want %v", morae, want)
	}
}

func TestKagomeAnalyzeDropsClauseBreakers(t *testing.T) {
	k, err := NewKagome()
	if err != nil {
		t.Fatalf("new kagome: %v", err)
	}

	plain, err := k.Analyze("東京", false)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	punctuated, err := k.Analyze("東京。", false)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if !reflect.DeepEqual(plain, punctuated) {
		t.Errorf("clause breaker changed the analysis: %v vs %v", plain, punctuated)
	}
}
