package cli

import (
	"fmt"

	"github.com/aidenwallis/go-redis-scripting/scripting/adapters"
	goredisadapter "github.com/aidenwallis/go-redis-scripting/scripting/adapters/go-redis"
	"github.com/aidenwallis/go-redis-scripting/scripting/adapters/memory"
	redigoadapter "github.com/aidenwallis/go-redis-scripting/scripting/adapters/redigo"
	redigo "github.com/gomodule/redigo/redis"
	goredis "github.com/redis/go-redis/v9"
)

// openAdapter connects the store selected by cfg. The returned func releases it.
func openAdapter(cfg *Config) (adapters.Adapter, func() error, error) {
	switch cfg.Driver {
	case DriverGoRedis:
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Addr,
			Protocol: cfg.Protocol,
		})
		return goredisadapter.NewAdapter(client), client.Close, nil

	case DriverRedigo:
		conn, err := redigo.Dial("tcp", cfg.Addr)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to %s: %w", cfg.Addr, err)
		}
		return redigoadapter.NewAdapter(conn), conn.Close, nil

	case DriverMemory:
		adapter, err := memory.NewAdapter()
		if err != nil {
			return nil, nil, err
		}
		return adapter, adapter.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown driver %q", cfg.Driver)
	}
}
