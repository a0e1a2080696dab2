package interest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDocument struct {
	pages []string
	err   error
}

func (s *stubDocument) PageTexts(context.Context) ([]string, error) {
	return s.pages, s.err
}

func TestExtractText(t *testing.T) {
	t.Run("joins pages with newlines", func(t *testing.T) {
		doc := &stubDocument{pages: []string{"page one", "page two", "page three"}}

		text, err := ExtractText(context.Background(), doc)
		require.NoError(t, err)
		assert.Equal(t, "page one\npage two\npage three", text)
	})

	t.Run("empty pages keep their slot", func(t *testing.T) {
		doc := &stubDocument{pages: []string{"first", "", "third"}}

		text, err := ExtractText(context.Background(), doc)
		require.NoError(t, err)
		assert.Equal(t, "first\n\nthird", text)
	})

	t.Run("no pages yields empty text", func(t *testing.T) {
		text, err := ExtractText(context.Background(), &stubDocument{})
		require.NoError(t, err)
		assert.Empty(t, text)
	})

	t.Run("extraction errors propagate", func(t *testing.T) {
		wantErr := errors.New("corrupt file")
		_, err := ExtractText(context.Background(), &stubDocument{err: wantErr})
		assert.ErrorIs(t, err, wantErr)
	})
}
