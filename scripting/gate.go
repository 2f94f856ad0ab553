package scripting

import (
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// allowedCommands is the closed set of commands scripts may call. Server, connection, pubsub, transaction and
// scripting commands are deliberately absent.
var allowedCommands = toSet(
	// hash
	"hdel", "hexists", "hget", "hgetall", "hincrby", "hincrbyfloat", "hkeys", "hlen",
	"hmget", "hmset", "hset", "hsetnx", "hstrlen", "hvals", "hscan",

	// key
	"del", "dump", "exists", "expire", "expireat", "keys", "persist", "pexpire", "pexpireat",
	"pttl", "randomkey", "rename", "renamenx", "sort", "touch", "ttl", "type", "unlink",

	// list
	"blpop", "brpop", "brpoplpush", "lindex", "linsert", "llen", "lpop", "lpush", "lpushx",
	"lrange", "lrem", "lset", "ltrim", "rpop", "rpoplpush", "rpush", "rpushx",

	// set
	"sadd", "scard", "sdiff", "sdiffstore", "sinter", "sinterstore", "sismember", "smembers",
	"smove", "spop", "srandmember", "srem", "sunion", "sunionstore", "sscan",

	// sorted set
	"zadd", "zcard", "zcount", "zincrby", "zinterstore", "zlexcount", "zrange", "zrangebylex",
	"zrevrangebylex", "zrangebyscore", "zrank", "zrem", "zremrangebylex", "zremrangebyrank",
	"zremrangebyscore", "zrevrange", "zrevrangebyscore", "zrevrank", "zscore", "zunionstore",
	"zscan",

	// string
	"append", "bitcount", "bitfield", "bitop", "bitpos", "decr", "decrby", "get", "getbit",
	"getrange", "getset", "incr", "incrby", "incrbyfloat", "mget", "mset", "msetnx", "psetex",
	"set", "setbit", "setex", "setnx", "setrange", "strlen",
)

// limitCommands accept a trailing LIMIT offset count.
var limitCommands = toSet("zrangebyscore", "zrangebylex", "zrevrangebyscore", "zrevrangebylex")

// scoreCommands accept a trailing WITHSCORES.
var scoreCommands = toSet("zrange", "zrangebyscore", "zrevrangebyscore")

func toSet(names ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(names))
	for _, name := range names {
		out[name] = struct{}{}
	}
	return out
}

// IsAllowed reports whether scripts may call the named command. The lookup is case-insensitive.
func IsAllowed(cmd string) bool {
	_, ok := allowedCommands[strings.ToLower(cmd)]
	return ok
}

// modifiers are the keyword arguments stripped off the end of a command's positional arguments.
type modifiers struct {
	// limit holds the offset and count values, nil if there was no LIMIT.
	limit      []lua.LValue
	withScores bool
}

func (m modifiers) present() bool {
	return m.limit != nil || m.withScores
}

// rewriteArguments strips a trailing LIMIT offset count, then a trailing WITHSCORES, from commands that support them.
// cmd must already be lower case.
func rewriteArguments(cmd string, args []lua.LValue) ([]lua.LValue, modifiers) {
	var mods modifiers

	if _, ok := limitCommands[cmd]; ok {
		if n := len(args); n >= 3 && isKeyword(args[n-3], "limit") {
			mods.limit = []lua.LValue{args[n-2], args[n-1]}
			args = args[:n-3]
		}
	}

	if _, ok := scoreCommands[cmd]; ok {
		if n := len(args); n >= 1 && isKeyword(args[n-1], "withscores") {
			mods.withScores = true
			args = args[:n-1]
		}
	}

	return args, mods
}

func isKeyword(v lua.LValue, keyword string) bool {
	s, ok := v.(lua.LString)
	return ok && strings.EqualFold(string(s), keyword)
}
