package memory

import (
	"fmt"

	"github.com/aidenwallis/go-redis-scripting/scripting/adapters"
	goredisadapter "github.com/aidenwallis/go-redis-scripting/scripting/adapters/go-redis"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// Adapter is an in-process store compatible with [github.com/aidenwallis/go-redis-scripting/scripting/adapters]. It runs an
// embedded [miniredis] server and talks to it over a RESP2 [go-redis] client, which makes it useful for trying scripts
// without a Redis deployment.
//
// [miniredis]: https://github.com/alicebob/miniredis
// [go-redis]: https://github.com/redis/go-redis
type Adapter struct {
	*goredisadapter.Adapter

	// Server is the embedded server, exposed so callers can seed or inspect state directly.
	Server *miniredis.Miniredis

	client *redis.Client
}

var (
	_ adapters.Adapter    = (*Adapter)(nil)
	_ adapters.Scriptable = (*Adapter)(nil)
)

// NewAdapter starts an embedded server and connects to it. Call Close when done.
func NewAdapter() (*Adapter, error) {
	server, err := miniredis.Run()
	if err != nil {
		return nil, fmt.Errorf("starting in-memory server: %w", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     server.Addr(),
		Protocol: 2,
	})

	return &Adapter{
		Adapter: goredisadapter.NewAdapter(client),
		Server:  server,
		client:  client,
	}, nil
}

// Close disconnects the client and stops the embedded server.
func (a *Adapter) Close() error {
	err := a.client.Close()
	a.Server.Close()
	return err
}
