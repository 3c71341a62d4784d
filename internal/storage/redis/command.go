package redis

import "time"

// Command is an ephemeral description of one wire operation: the literal
// argument vector sent to the server. Commands are built per call, consumed
// immediately by the executor, and never persisted. Construction cannot fail.
type Command struct {
	args []interface{}
}

// Args returns the wire-level argument vector
func (c Command) Args() []interface{} {
	return c.args
}

// Name returns the command verb, useful for logging and tests
func (c Command) Name() string {
	if len(c.args) == 0 {
		return ""
	}
	name, _ := c.args[0].(string)
	return name
}

// getCommand reads the string stored under key; absent keys yield no value
func getCommand(key string) Command {
	return Command{args: []interface{}{"GET", key}}
}

// setCommand stores value under key with expiry applied atomically, so the
// value is never visible without its TTL. The GET modifier makes the server
// return the previous value in the same round trip, which is what lets
// Insert report prior state without a separate read.
func setCommand(key, value string, ttl time.Duration) Command {
	return Command{args: []interface{}{"SET", key, value, "EX", int64(ttl / time.Second), "GET"}}
}

// deleteCommand removes key and returns the value it held. Deleting an
// absent key is not an error; it simply yields no value.
func deleteCommand(key string) Command {
	return Command{args: []interface{}{"GETDEL", key}}
}

// existsCommand checks whether key is present
func existsCommand(key string) Command {
	return Command{args: []interface{}{"EXISTS", key}}
}

// ttlCommand queries the remaining lifetime of key in whole seconds.
// The server's sentinels (-1 no expiry, -2 no key) pass through unchanged.
func ttlCommand(key string) Command {
	return Command{args: []interface{}{"TTL", key}}
}
