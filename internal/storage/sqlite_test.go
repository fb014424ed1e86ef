package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStorage_GetMissingKey(t *testing.T) {
	s, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer s.Close()

	v, ok, err := s.Get("mealHistory")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestSQLiteStorage_SetOverwrites(t *testing.T) {
	s, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Set("macroGoals", `{"calories_goal":2000}`))
	require.NoError(t, s.Set("macroGoals", `{"calories_goal":1800}`))

	v, ok, err := s.Get("macroGoals")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"calories_goal":1800}`, v)

	keys, err := s.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"macroGoals"}, keys)
}

func TestSQLiteStorage_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "macro-meter.db")

	s, err := NewSQLiteStorage(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("settings", `{"darkMode":true}`))
	require.NoError(t, s.Close())

	s, err = NewSQLiteStorage(path)
	require.NoError(t, err)
	defer s.Close()

	v, ok, err := s.Get("settings")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"darkMode":true}`, v)
}

func TestMemoryStorage(t *testing.T) {
	var kv KeyValue = NewMemoryStorage()

	_, ok, err := kv.Get("userProfile")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set("userProfile", `{}`))
	v, ok, err := kv.Get("userProfile")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{}`, v)
}
