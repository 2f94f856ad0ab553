package adaptertests

import (
	"context"
	"testing"

	"github.com/aidenwallis/go-redis-scripting/scripting/adapters"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// BattletestAdapter is a helper to quickly test that an adapter is functioning correctly
func BattletestAdapter(t *testing.T, mr *miniredis.Miniredis, adapter adapters.Adapter) {
	ctx := context.Background()

	scriptable, ok := adapter.(adapters.Scriptable)
	require.True(t, ok, "adapter must implement adapters.Scriptable")
	assert.True(t, scriptable.SupportsScripting())

	t.Run("status and bulk replies", func(t *testing.T) {
		out, err := adapter.Call(ctx, "set", []string{"foo", "value"}, nil)
		assert.NoError(t, err)
		assert.Equal(t, "OK", out)

		getValue, err := mr.Get("foo")
		assert.NoError(t, err)
		assert.Equal(t, "value", getValue)

		out, err = adapter.Call(ctx, "get", []string{"foo"}, nil)
		assert.NoError(t, err)
		assert.Equal(t, "value", out)
	})

	t.Run("missing value", func(t *testing.T) {
		out, err := adapter.Call(ctx, "get", []string{"missing"}, nil)
		assert.NoError(t, err)
		assert.Nil(t, out)
	})

	t.Run("integer replies", func(t *testing.T) {
		mr.HSet("myhash", "field", "5")

		out, err := adapter.Call(ctx, "hincrby", []string{"myhash", "field", "2"}, nil)
		assert.NoError(t, err)
		assert.EqualValues(t, 7, out)
		assert.Equal(t, "7", mr.HGet("myhash", "field"))
	})

	t.Run("modifier options", func(t *testing.T) {
		for i, member := range []string{"one", "two", "three", "four"} {
			_, err := mr.ZAdd("zset", float64(i+1), member)
			require.NoError(t, err)
		}

		out, err := adapter.Call(ctx, "zrangebyscore", []string{"zset", "2", "4"}, &adapters.Options{
			Limit: &adapters.Limit{Offset: "0", Count: "2"},
		})
		assert.NoError(t, err)
		assert.Equal(t, []interface{}{"two", "three"}, out)

		out, err = adapter.Call(ctx, "zrangebyscore", []string{"zset", "2", "4"}, &adapters.Options{
			Limit:      &adapters.Limit{Offset: "0", Count: "2"},
			WithScores: true,
		})
		assert.NoError(t, err)
		assert.Equal(t, []interface{}{"two", "2", "three", "3"}, out)
	})

	t.Run("error replies", func(t *testing.T) {
		_, err := adapter.Call(ctx, "hget", []string{"zset", "field"}, nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "WRONGTYPE")
	})
}
