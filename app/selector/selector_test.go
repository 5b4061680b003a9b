package selector

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/themer/app/document"
	"github.com/umputun/themer/app/selector/mocks"
	"github.com/umputun/themer/app/store"
)

func TestNew(t *testing.T) {
	ctx := context.Background()

	t.Run("fresh store starts in light mode", func(t *testing.T) {
		doc := document.New()
		s := New(ctx, doc, store.NewMemory())
		assert.False(t, s.IsDark())
		assert.False(t, doc.Contains(DarkClass))
		assert.Equal(t, "Dark Mode", s.Label())
		assert.Equal(t, "🌙", s.Icon())
	})

	t.Run("stored dark preference applied", func(t *testing.T) {
		st := store.NewMemory()
		require.NoError(t, st.Set(ctx, ThemeKey, "dark"))
		doc := document.New()

		s := New(ctx, doc, st)
		assert.True(t, s.IsDark())
		assert.True(t, doc.Contains(DarkClass))
		assert.Equal(t, "Light Mode", s.Label())
		assert.Equal(t, "🌞", s.Icon())
	})

	t.Run("dark document without stored preference switches to light", func(t *testing.T) {
		doc := document.New(DarkClass, "antialiased")
		s := New(ctx, doc, store.NewMemory())
		assert.False(t, s.IsDark())
		assert.Equal(t, []string{"antialiased"}, doc.Classes())
	})

	t.Run("stored light or unknown value means light", func(t *testing.T) {
		for _, v := range []string{"light", "system", "neonPink", ""} {
			st := store.NewMemory()
			require.NoError(t, st.Set(ctx, ThemeKey, v))
			doc := document.New(DarkClass)
			s := New(ctx, doc, st)
			assert.False(t, s.IsDark(), "value %q", v)
			assert.False(t, doc.Contains(DarkClass), "value %q", v)
		}
	})

	t.Run("nil storage defaults to light", func(t *testing.T) {
		doc := document.New(DarkClass)
		s := New(ctx, doc, nil)
		assert.False(t, s.IsDark())
		assert.False(t, doc.Contains(DarkClass))
	})

	t.Run("failing storage defaults to light", func(t *testing.T) {
		st := &mocks.StorageMock{
			GetFunc: func(context.Context, string) (string, error) { return "", errors.New("storage broken") },
		}
		doc := document.New()
		s := New(ctx, doc, st)
		assert.False(t, s.IsDark())
		require.Len(t, st.GetCalls(), 1)
		assert.Equal(t, ThemeKey, st.GetCalls()[0].Key)
	})
}

func TestSelector_Toggle(t *testing.T) {
	ctx := context.Background()

	t.Run("light to dark", func(t *testing.T) {
		st, doc := store.NewMemory(), document.New()
		s := New(ctx, doc, st)

		assert.True(t, s.Toggle(ctx))
		assert.True(t, s.IsDark())
		assert.True(t, doc.Contains(DarkClass))
		val, err := st.Get(ctx, ThemeKey)
		require.NoError(t, err)
		assert.Equal(t, "dark", val)
	})

	t.Run("dark to light", func(t *testing.T) {
		st, doc := store.NewMemory(), document.New()
		s := New(ctx, doc, st)

		s.Toggle(ctx)
		assert.False(t, s.Toggle(ctx))
		assert.False(t, s.IsDark())
		assert.False(t, doc.Contains(DarkClass))
		val, err := st.Get(ctx, ThemeKey)
		require.NoError(t, err)
		assert.Equal(t, "light", val)
	})

	t.Run("n toggles end dark when n is odd", func(t *testing.T) {
		for n := 1; n <= 7; n++ {
			st, doc := store.NewMemory(), document.New()
			s := New(ctx, doc, st)
			for range n {
				s.Toggle(ctx)
			}
			assert.Equal(t, n%2 == 1, s.IsDark(), "n=%d", n)
			assert.Equal(t, s.IsDark(), doc.Contains(DarkClass), "n=%d", n)
			val, err := st.Get(ctx, ThemeKey)
			require.NoError(t, err)
			assert.Equal(t, s.Theme().String(), val, "n=%d", n)
		}
	})

	t.Run("nil storage still toggles", func(t *testing.T) {
		doc := document.New()
		s := New(ctx, doc, nil)
		assert.True(t, s.Toggle(ctx))
		assert.True(t, doc.Contains(DarkClass))
		assert.False(t, s.Toggle(ctx))
		assert.False(t, doc.Contains(DarkClass))
	})

	t.Run("failing write is ignored", func(t *testing.T) {
		st := &mocks.StorageMock{
			GetFunc: func(context.Context, string) (string, error) { return "", store.ErrNotFound },
			SetFunc: func(context.Context, string, string) error { return errors.New("quota exceeded") },
		}
		doc := document.New()
		s := New(ctx, doc, st)

		assert.True(t, s.Toggle(ctx))
		assert.True(t, doc.Contains(DarkClass))
		require.Len(t, st.SetCalls(), 1)
		assert.Equal(t, ThemeKey, st.SetCalls()[0].Key)
		assert.Equal(t, "dark", st.SetCalls()[0].Value)
	})
}

func TestSelector_LabelIcon(t *testing.T) {
	ctx := context.Background()
	s := New(ctx, document.New(), store.NewMemory())

	tests := []struct {
		dark  bool
		label string
		icon  string
	}{
		{false, "Dark Mode", "🌙"},
		{true, "Light Mode", "🌞"},
	}

	for _, tc := range tests {
		t.Run(tc.label, func(t *testing.T) {
			if s.IsDark() != tc.dark {
				s.Toggle(ctx)
			}
			assert.Equal(t, tc.label, s.Label())
			assert.Equal(t, tc.icon, s.Icon())
		})
	}
}
