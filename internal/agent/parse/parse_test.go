package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTrackingID(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"bare numeric id", "1003", "1003"},
		{"id inside sentence", "can you check order 1007 please", "1007"},
		{"alphanumeric with dash", "my parcel is TRK-88, thanks", "TRK-88"},
		{"skips digitless tokens", "please check ABC order 1005", "1005"},
		{"no digit anywhere", "hello there", ""},
		{"too short", "a1", ""},
		{"too long", "A123456789012345", ""},
		{"first of several", "either 1001 or 1003", "1001"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractTrackingID(tt.text))
		})
	}
}

func TestNormalizeToken(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Sí", "si"},
		{"ESPAÑOL", "espanol"},
		{"  Devolución   ahora ", "devolucion ahora"},
		{"Inglés", "ingles"},
		{"plain text", "plain text"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeToken(tt.in))
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"commas", "Bamboo Toothbrush, Natural Toothpaste", []string{"Bamboo Toothbrush", "Natural Toothpaste"}},
		{"english and", "the tote and the granola", []string{"the tote", "the granola"}},
		{"spanish y", "el cepillo y la pasta", []string{"el cepillo", "la pasta"}},
		{"ampersand", "wraps&bottle", []string{"wraps", "bottle"}},
		{"mixed separators", "a, b and c", []string{"a", "b", "c"}},
		{"single item", "Organic Granola", []string{"Organic Granola"}},
		{"empty fragments dropped", "a,, ,b", []string{"a", "b"}},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitList(tt.text))
		})
	}
}

func TestSplitListDoesNotSplitInsideWords(t *testing.T) {
	// "y" and "and" are separators only as whole words.
	assert.Equal(t, []string{"candy bar"}, SplitList("candy bar"))
	assert.Equal(t, []string{"yoyo"}, SplitList("yoyo"))
}

func TestSplitListSpacedAmpersandStaysWhole(t *testing.T) {
	// The conjunction pattern needs a word boundary on both sides, and a
	// space next to "&" gives it none. "wraps & bottle" is one fragment;
	// only the unspaced form splits.
	assert.Equal(t, []string{"wraps & bottle"}, SplitList("wraps & bottle"))
}

func TestMatchItems(t *testing.T) {
	order := []string{"Bamboo Toothbrush", "Natural Toothpaste", "Organic Granola"}

	t.Run("case and accent insensitive", func(t *testing.T) {
		got := MatchItems([]string{"bamboo toothbrush", "NATURAL TOOTHPASTE"}, order)
		assert.Equal(t, []string{"Bamboo Toothbrush", "Natural Toothpaste"}, got)
	})

	t.Run("canonical casing restored", func(t *testing.T) {
		got := MatchItems([]string{"organic granola"}, order)
		assert.Equal(t, []string{"Organic Granola"}, got)
	})

	t.Run("unknown names dropped silently", func(t *testing.T) {
		got := MatchItems([]string{"bamboo toothbrush", "solar lamp"}, order)
		assert.Equal(t, []string{"Bamboo Toothbrush"}, got)
	})

	t.Run("nothing matches", func(t *testing.T) {
		assert.Nil(t, MatchItems([]string{"solar lamp"}, order))
	})

	t.Run("empty inputs", func(t *testing.T) {
		assert.Nil(t, MatchItems(nil, order))
		assert.Nil(t, MatchItems([]string{"x"}, nil))
	})
}
