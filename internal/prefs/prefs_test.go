package prefs

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTheme(t *testing.T) {
	got, err := ParseTheme(" Dark ")
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, got)

	got, err = ParseTheme("light")
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, got)

	_, err = ParseTheme("solarized")
	assert.Error(t, err)
}

func TestTheme_Toggle(t *testing.T) {
	assert.Equal(t, ThemeDark, ThemeLight.Toggle())
	assert.Equal(t, ThemeLight, ThemeDark.Toggle())
	assert.True(t, ThemeDark.IsDark())
	assert.False(t, ThemeLight.IsDark())
}

func TestResolve(t *testing.T) {
	assert.Equal(t, ThemeLight, Resolve(ThemeLight, true, true), "saved preference wins")
	assert.Equal(t, ThemeDark, Resolve("", false, true), "system preference used when nothing saved")
	assert.Equal(t, ThemeLight, Resolve("", false, false))
}

func storesUnderTest(t *testing.T) map[string]Store {
	t.Helper()
	sq, err := Open(context.Background(), filepath.Join(t.TempDir(), "prefs", "resumemd.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sq.Close() })

	mem, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { mem.Close() })

	return map[string]Store{
		"sqlite":        sq,
		"sqlite-memory": mem,
		"memory":        NewMemoryStore(),
	}
}

func TestStores_GetSet(t *testing.T) {
	ctx := context.Background()
	for name, st := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := st.Get(ctx, "alice")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, st.Set(ctx, "alice", ThemeDark))
			got, ok, err := st.Get(ctx, "alice")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, ThemeDark, got)

			require.NoError(t, st.Set(ctx, "alice", ThemeLight))
			got, _, err = st.Get(ctx, "alice")
			require.NoError(t, err)
			assert.Equal(t, ThemeLight, got)

			_, ok, err = st.Get(ctx, "bob")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestSQLiteStore_PersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "resumemd.db")

	st, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, st.Set(ctx, "alice", ThemeDark))
	require.NoError(t, st.Close())

	st, err = Open(ctx, path)
	require.NoError(t, err)
	defer st.Close()
	got, ok, err := st.Get(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, ThemeDark, got)
}

func TestService(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryStore())

	cur, err := svc.Current(ctx, "c1", true)
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, cur)

	next, err := svc.Toggle(ctx, "c1", true)
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, next)

	// Saved value now overrides the system preference.
	cur, err = svc.Current(ctx, "c1", true)
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, cur)

	require.NoError(t, svc.Set(ctx, "c1", ThemeDark))
	cur, err = svc.Current(ctx, "c1", false)
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, cur)

	assert.Error(t, svc.Set(ctx, "c1", Theme("blue")))
}

func TestService_SetNormalizesCase(t *testing.T) {
	ctx := context.Background()
	for name, st := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			svc := NewService(st)
			require.NoError(t, svc.Set(ctx, "c1", Theme(" DARK ")))

			saved, ok, err := st.Get(ctx, "c1")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, ThemeDark, saved)
		})
	}
}
