package memory

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_CopiesSeed(t *testing.T) {
	seed := map[string]any{"scan.record_limit": 50}
	store := NewConfigStore(seed)
	seed["scan.record_limit"] = 99

	assert.Equal(t, 50, store.GetInt("scan.record_limit"))
}

func TestNewConfigStore_Empty(t *testing.T) {
	store := NewConfigStore(nil)
	require.NotNil(t, store)

	_, ok := store.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, ":memory:", store.Path())
	assert.NoError(t, store.Load())
	assert.NoError(t, store.Save())
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore(map[string]any{
		"str":    "value",
		"int":    int64(7),
		"float":  2.5,
		"bool":   true,
		"slice":  []any{"a", 1, "b"},
		"tables": []map[string]any{{"id": "r1"}},
	})

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"string", store.GetString("str"), "value"},
		{"string mismatch", store.GetString("int"), ""},
		{"int from int64", store.GetInt("int"), 7},
		{"int from float", store.GetInt("float"), 2},
		{"int mismatch", store.GetInt("str"), 0},
		{"float", store.GetFloat("float"), 2.5},
		{"float from int", store.GetFloat("int"), 7.0},
		{"bool", store.GetBool("bool"), true},
		{"bool mismatch", store.GetBool("str"), false},
		{"slice skips non-strings", store.GetStringSlice("slice"), []string{"a", "b"}},
		{"tables", store.GetTables("tables"), []map[string]any{{"id": "r1"}}},
		{"tables missing", store.GetTables("missing"), []map[string]any(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestConfigStore_GetDuration(t *testing.T) {
	store := NewConfigStore(map[string]any{
		"typed":  90 * time.Second,
		"string": "5m",
		"bad":    "soon",
		"number": 5,
	})

	d, ok, err := store.GetDuration("typed")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 90*time.Second, d)

	d, ok, err = store.GetDuration("string")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 5*time.Minute, d)

	_, ok, err = store.GetDuration("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = store.GetDuration("bad")
	assert.Error(t, err)

	_, _, err = store.GetDuration("number")
	assert.Error(t, err)
}

func TestConfigStore_SetOverwrites(t *testing.T) {
	store := NewConfigStore(nil)

	require.NoError(t, store.Set("key", "original"))
	require.NoError(t, store.Set("key", "updated"))

	assert.Equal(t, "updated", store.GetString("key"))
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore(nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("counter", n)
		}(i)
		go func() {
			defer wg.Done()
			_ = store.GetInt("counter")
		}()
	}
	wg.Wait()

	_, ok := store.Get("counter")
	assert.True(t, ok)
}
