package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectLanguage(t *testing.T) {
	cues := RegexCues{}

	tests := []struct {
		text string
		want string
	}{
		{"español", "es"},
		{"espanol por favor", "es"},
		{"Spanish", "es"},
		{"English please", "en"},
		{"inglés", "en"},
		{"INGLES", "en"},
		{"hola", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cues.DetectLanguage(tt.text), "text %q", tt.text)
	}
}

func TestAffirmsAndDeclines(t *testing.T) {
	cues := RegexCues{}

	assert.True(t, cues.Affirms("yes"))
	assert.True(t, cues.Affirms("Sí, adelante"))
	assert.True(t, cues.Affirms("ok sure"))
	assert.True(t, cues.Affirms("claro"))
	assert.False(t, cues.Affirms("maybe"))
	assert.False(t, cues.Affirms(""))

	assert.True(t, cues.Declines("no"))
	assert.True(t, cues.Declines("Nope, thanks"))
	assert.True(t, cues.Declines("negativo"))
	assert.False(t, cues.Declines("not sure yet"))
	assert.False(t, cues.Declines(""))
}

func TestAmbiguousTextSatisfiesBothDetectors(t *testing.T) {
	// "yes, no problem" matches both vocabularies; call sites resolve the
	// conflict by checking Affirms first.
	cues := RegexCues{}
	text := "yes, no problem"
	assert.True(t, cues.Affirms(text))
	assert.True(t, cues.Declines(text))
}

func TestMentionsReturn(t *testing.T) {
	cues := RegexCues{}

	assert.True(t, cues.MentionsReturn("I want to return the toothbrush"))
	assert.True(t, cues.MentionsReturn("quiero hacer una devolución"))
	assert.True(t, cues.MentionsReturn("puedo devolver esto?"))
	assert.False(t, cues.MentionsReturn("returning customer discount"))
	assert.False(t, cues.MentionsReturn("where is my order"))
}

func TestMentionsAnotherOrder(t *testing.T) {
	cues := RegexCues{}

	assert.True(t, cues.MentionsAnotherOrder("can I check another order"))
	assert.True(t, cues.MentionsAnotherOrder("quiero revisar otra orden"))
	// both words must be present, adjacency is not required
	assert.True(t, cues.MentionsAnotherOrder("another one, an order I placed last week"))
	assert.False(t, cues.MentionsAnotherOrder("another question"))
	assert.False(t, cues.MentionsAnotherOrder("my order"))
}
