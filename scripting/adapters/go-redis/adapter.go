package goredis

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/aidenwallis/go-redis-scripting/scripting/adapters"
	"github.com/redis/go-redis/v9"
)

// Adapter is a [go-redis] implementation compatible with [github.com/aidenwallis/go-redis-scripting/scripting/adapters]
//
// The client should be created with Protocol set to 2, scripts expect RESP2 shaped replies. Clients speaking RESP3
// are still handled on a best effort basis: maps are flattened into key/value sequences sorted by key, and WITHSCORES
// replies that arrive as [member, score] pairs are flattened into a single member/score sequence.
//
// [go-redis]: https://github.com/redis/go-redis
type Adapter struct {
	Client redis.UniversalClient
}

var (
	_ adapters.Adapter    = (*Adapter)(nil)
	_ adapters.Scriptable = (*Adapter)(nil)
)

// NewAdapter creates a new adapter using the [go-redis] client.
//
// [go-redis]: https://github.com/redis/go-redis
func NewAdapter(client redis.UniversalClient) *Adapter {
	return &Adapter{
		Client: client,
	}
}

// Call sends cmd with its arguments through the client.
func (a *Adapter) Call(ctx context.Context, cmd string, args []string, opts *adapters.Options) (interface{}, error) {
	out, err := a.Client.Do(ctx, append([]interface{}{cmd}, adapters.CommandArgs(args, opts)...)...).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	out = normalize(out)
	if opts != nil && opts.WithScores {
		out = flattenPairs(out)
	}
	return out, nil
}

// SupportsScripting reports that go-redis clients can host scripts.
func (a *Adapter) SupportsScripting() bool {
	return true
}

func normalize(v interface{}) interface{} {
	switch value := v.(type) {
	case []interface{}:
		out := make([]interface{}, len(value))
		for i, item := range value {
			out[i] = normalize(item)
		}
		return out

	case map[interface{}]interface{}:
		keys := make([]string, 0, len(value))
		byKey := make(map[string]interface{}, len(value))
		for k, item := range value {
			key := fmt.Sprint(k)
			keys = append(keys, key)
			byKey[key] = item
		}
		sort.Strings(keys)

		out := make([]interface{}, 0, len(keys)*2)
		for _, key := range keys {
			out = append(out, key, normalize(byKey[key]))
		}
		return out

	default:
		return v
	}
}

// flattenPairs turns a RESP3 [[member, score], ...] reply into [member, score, ...]. Anything else is returned as is.
func flattenPairs(v interface{}) interface{} {
	items, ok := v.([]interface{})
	if !ok {
		return v
	}

	out := make([]interface{}, 0, len(items)*2)
	for _, item := range items {
		pair, ok := item.([]interface{})
		if !ok || len(pair) != 2 {
			return v
		}
		out = append(out, pair...)
	}
	return out
}
