package translate

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetectLanguage(t *testing.T) {
	req := require.New(t)

	english := "The quick brown fox jumps over the lazy dog and keeps running through the fields."
	req.Equal("en", DetectLanguage(english, "xx"))

	spanish := "Buenos días, espero que tengas una semana maravillosa llena de alegría y tranquilidad."
	req.Equal("es", DetectLanguage(spanish, "xx"))
}

func TestDetectLanguage_FallbackForEmptyText(t *testing.T) {
	req := require.New(t)

	req.Equal("en", DetectLanguage("", "en"))
	req.Equal("en", DetectLanguage("   \t\n", "en"))
}
