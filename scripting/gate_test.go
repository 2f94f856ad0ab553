package scripting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	lua "github.com/yuin/gopher-lua"
)

func TestIsAllowed(t *testing.T) {
	for _, cmd := range []string{"get", "SET", "HIncrBy", "zrangebyscore", "lpush", "sadd", "del"} {
		assert.True(t, IsAllowed(cmd), cmd)
	}

	for _, cmd := range []string{"eval", "evalsha", "script", "flushall", "config", "client", "multi", "publish", ""} {
		assert.False(t, IsAllowed(cmd), cmd)
	}
}

func TestRewriteArguments(t *testing.T) {
	testCases := map[string]struct {
		cmd        string
		args       []lua.LValue
		expected   []lua.LValue
		limit      []lua.LValue
		withScores bool
	}{
		"limit": {
			cmd:      "zrangebyscore",
			args:     []lua.LValue{lua.LString("foo"), lua.LNumber(2), lua.LNumber(4), lua.LString("LIMIT"), lua.LNumber(0), lua.LNumber(2)},
			expected: []lua.LValue{lua.LString("foo"), lua.LNumber(2), lua.LNumber(4)},
			limit:    []lua.LValue{lua.LNumber(0), lua.LNumber(2)},
		},
		"lower case limit on lex command": {
			cmd:      "zrevrangebylex",
			args:     []lua.LValue{lua.LString("foo"), lua.LString("+"), lua.LString("-"), lua.LString("limit"), lua.LString("1"), lua.LString("3")},
			expected: []lua.LValue{lua.LString("foo"), lua.LString("+"), lua.LString("-")},
			limit:    []lua.LValue{lua.LString("1"), lua.LString("3")},
		},
		"withscores": {
			cmd:        "zrange",
			args:       []lua.LValue{lua.LString("foo"), lua.LNumber(0), lua.LNumber(-1), lua.LString("withscores")},
			expected:   []lua.LValue{lua.LString("foo"), lua.LNumber(0), lua.LNumber(-1)},
			withScores: true,
		},
		"withscores then limit": {
			cmd:        "zrevrangebyscore",
			args:       []lua.LValue{lua.LString("foo"), lua.LString("+inf"), lua.LString("-inf"), lua.LString("WITHSCORES"), lua.LString("LIMIT"), lua.LNumber(0), lua.LNumber(2)},
			expected:   []lua.LValue{lua.LString("foo"), lua.LString("+inf"), lua.LString("-inf")},
			limit:      []lua.LValue{lua.LNumber(0), lua.LNumber(2)},
			withScores: true,
		},
		"limit unsupported by command": {
			cmd:      "zrange",
			args:     []lua.LValue{lua.LString("foo"), lua.LString("LIMIT"), lua.LNumber(0), lua.LNumber(2)},
			expected: []lua.LValue{lua.LString("foo"), lua.LString("LIMIT"), lua.LNumber(0), lua.LNumber(2)},
		},
		"withscores unsupported by command": {
			cmd:      "zrangebylex",
			args:     []lua.LValue{lua.LString("foo"), lua.LString("-"), lua.LString("+"), lua.LString("WITHSCORES")},
			expected: []lua.LValue{lua.LString("foo"), lua.LString("-"), lua.LString("+"), lua.LString("WITHSCORES")},
		},
		"unrelated command": {
			cmd:      "set",
			args:     []lua.LValue{lua.LString("key"), lua.LString("WITHSCORES")},
			expected: []lua.LValue{lua.LString("key"), lua.LString("WITHSCORES")},
		},
		"too few arguments": {
			cmd:      "zrangebyscore",
			args:     []lua.LValue{lua.LString("LIMIT"), lua.LNumber(0)},
			expected: []lua.LValue{lua.LString("LIMIT"), lua.LNumber(0)},
		},
		"keyword must be a string": {
			cmd:      "zrangebyscore",
			args:     []lua.LValue{lua.LString("foo"), lua.LNumber(1), lua.LNumber(2), lua.LNumber(3)},
			expected: []lua.LValue{lua.LString("foo"), lua.LNumber(1), lua.LNumber(2), lua.LNumber(3)},
		},
	}

	for name, testCase := range testCases {
		testCase := testCase

		t.Run(name, func(t *testing.T) {
			args, mods := rewriteArguments(testCase.cmd, testCase.args)
			assert.Equal(t, testCase.expected, args)
			assert.Equal(t, testCase.limit, mods.limit)
			assert.Equal(t, testCase.withScores, mods.withScores)
			assert.Equal(t, testCase.limit != nil || testCase.withScores, mods.present())
		})
	}
}
