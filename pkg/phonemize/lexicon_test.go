package phonemize

import (
	"strings"
	"testing"
)

func TestParseLexiconLine(t *testing.T) {
	word, role, phonemes, ok := ParseLexiconLine("run @verb r ʌ n")
	if !ok {
		t.Fatal("expected ok")
	}
	if word != "run" || role != Role("verb") || phonemes.String() != "r ʌ n" {
		t.Errorf("got %q %q %q", word, role, phonemes)
	}

	word, role, phonemes, ok = ParseLexiconLine("cat k æ t")
	if !ok {
		t.Fatal("expected ok")
	}
	if word != "cat" || role != RoleDefault || phonemes.String() != "k æ t" {
		t.Errorf("got %q %q %q", word, role, phonemes)
	}

	for _, line := range []string{"", "   ", "# comment"} {
		if _, _, _, ok := ParseLexiconLine(line); ok {
			t.Errorf("expected line %q to be skipped", line)
		}
	}
}

func TestLoadLexicon(t *testing.T) {
	lexicon := `# test lexicon
run @verb r ʌ n
run @noun r ʌ n z
cat k æ t

`
	store := newFakeStore()
	analyzer := &fakeAnalyzer{}
	r := NewResolver(store, analyzer)

	count, err := r.LoadLexicon(strings.NewReader(lexicon))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 entries, got %d", count)
	}

	pron, err := r.ResolveRole("run", Role("noun"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if pron.String() != "r ʌ n z" {
		t.Errorf("got %q", pron)
	}
	pron, err = r.Resolve("cat")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if pron.String() != "k æ t" {
		t.Errorf("got %q", pron)
	}
	if len(store.lookups) != 0 || analyzer.calls != 0 {
		t.Error("preloaded words must not touch store or analyzer")
	}
}

func TestLoadLexiconRejectsBarePronunciation(t *testing.T) {
	r := NewResolver(newFakeStore(), &fakeAnalyzer{})
	if _, err := r.LoadLexicon(strings.NewReader("lonely\n")); err == nil {
		t.Fatal("expected an error for a word with no phonemes")
	}
}
