package redis

import (
	"context"
	"errors"
	"net"

	goredis "github.com/redis/go-redis/v9"

	"kvstore/internal/storage"
)

// commandExecutor runs a Command against the active connection and decodes
// the raw reply. Tables talk to the store only through this boundary, which
// keeps command construction separate from connection lifecycle and lets
// tests substitute an in-process store.
type commandExecutor interface {
	// execString returns the reply as a string; ok is false when the server
	// reported no value (absent key, or no previous value on SET ... GET)
	execString(ctx context.Context, cmd Command) (string, bool, error)

	// execBool returns the reply as a boolean
	execBool(ctx context.Context, cmd Command) (bool, error)

	// execInt returns the reply as an integer
	execInt(ctx context.Context, cmd Command) (int64, error)
}

// Each exec call acquires a dedicated connection and releases it on every
// exit path. No connection is shared or reused across calls - a deliberate
// simplicity-over-throughput tradeoff.

func (d *Database) execString(ctx context.Context, cmd Command) (string, bool, error) {
	val, err := d.run(ctx, cmd).Text()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, wireError(err)
	}
	return val, true, nil
}

func (d *Database) execBool(ctx context.Context, cmd Command) (bool, error) {
	val, err := d.run(ctx, cmd).Bool()
	if err != nil {
		return false, wireError(err)
	}
	return val, nil
}

func (d *Database) execInt(ctx context.Context, cmd Command) (int64, error) {
	val, err := d.run(ctx, cmd).Int64()
	if err != nil {
		return 0, wireError(err)
	}
	return val, nil
}

// run sends one command over a connection of its own
func (d *Database) run(ctx context.Context, cmd Command) *goredis.Cmd {
	conn := d.client.Conn()
	defer func() { _ = conn.Close() }()

	wire := goredis.NewCmd(ctx, cmd.Args()...)
	_ = conn.Process(ctx, wire)
	return wire
}

// wireError maps a client error to the storage taxonomy: failures reaching
// the server are connection errors, everything the server itself reports is
// a query error. Only the message travels upward, never the client's types.
func wireError(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) {
		return storage.NewConnectionError(err.Error())
	}
	return storage.NewQueryError(err.Error())
}
