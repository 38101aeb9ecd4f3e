package store

import (
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spetersoncode/lumina"
)

func TestStore_New(t *testing.T) {
	t.Run("keeps seed order", func(t *testing.T) {
		s := New(Seed()...)

		require.Equal(t, len(Seed()), s.Len())
		assert.Equal(t, Seed(), s.List())
	})

	t.Run("skips empty and repeated ids", func(t *testing.T) {
		s := New(
			lumina.Artwork{ID: "a", Title: "first"},
			lumina.Artwork{ID: ""},
			lumina.Artwork{ID: "a", Title: "second"},
		)

		require.Equal(t, 1, s.Len())
		got, err := s.Get("a")
		require.NoError(t, err)
		assert.Equal(t, "first", got.Title)
	})
}

func TestStore_Append(t *testing.T) {
	t.Run("appends to the end", func(t *testing.T) {
		s := New(lumina.Artwork{ID: "a"})

		require.NoError(t, s.Append(lumina.Artwork{ID: "b"}))

		list := s.List()
		require.Len(t, list, 2)
		assert.Equal(t, "b", list[1].ID)
	})

	t.Run("rejects duplicates", func(t *testing.T) {
		s := New(lumina.Artwork{ID: "a"})

		err := s.Append(lumina.Artwork{ID: "a"})

		assert.ErrorIs(t, err, lumina.ErrDuplicateArtwork)
		assert.Equal(t, 1, s.Len())
	})

	t.Run("rejects empty ids", func(t *testing.T) {
		err := New().Append(lumina.Artwork{})

		assert.True(t, lumina.IsUserInput(err))
	})

	t.Run("is safe for concurrent writers", func(t *testing.T) {
		s := New()
		var wg sync.WaitGroup
		for i := range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				s.Append(lumina.Artwork{ID: strconv.Itoa(i)})
			}()
		}
		wg.Wait()

		assert.Equal(t, 50, s.Len())
	})
}

func TestStore_Get(t *testing.T) {
	s := New(Seed()...)

	got, err := s.Get("3")
	require.NoError(t, err)
	assert.Equal(t, "Falling Water", got.Title)

	_, err = s.Get("missing")
	assert.ErrorIs(t, err, lumina.ErrNotFound)
}

func TestStore_ListReturnsCopy(t *testing.T) {
	s := New(lumina.Artwork{ID: "a", Title: "original"})

	list := s.List()
	list[0].Title = "changed"

	got, err := s.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "original", got.Title)
}

func TestSeed_URLsAreRemote(t *testing.T) {
	for _, a := range Seed() {
		assert.False(t, a.IsEmbedded(), a.ID)
		assert.Regexp(t, `^https://`, a.URL)
	}
}
