package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
)

const pgUniqueViolation = "23505"

// ParseDurationEnv parses an env value as time.Duration. It accepts
// time.ParseDuration syntax ("10s", "5m") or a bare number of seconds,
// optionally quoted. Negative durations are rejected.
func ParseDurationEnv(s string) (time.Duration, error) {
	s = strings.Trim(strings.TrimSpace(s), `"'`)
	if s == "" {
		return 0, errors.New("empty duration")
	}

	var d time.Duration
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		d = time.Duration(n) * time.Second
	} else if d, err = time.ParseDuration(s); err != nil {
		return 0, fmt.Errorf("duration must be like 10s, 5m or a number of seconds: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("duration %q must not be negative", s)
	}
	return d, nil
}

// ParseRedisURL extracts host:port, password and DB from a redis:// or
// rediss:// URL.
func ParseRedisURL(s string) (addr, password string, db int, err error) {
	opts, err := redis.ParseURL(strings.TrimSpace(s))
	if err != nil {
		return "", "", 0, err
	}
	return opts.Addr, opts.Password, opts.DB, nil
}

// UniqueViolation reports whether err is a PostgreSQL unique constraint
// violation and names the constraint (or index) that was hit.
func UniqueViolation(err error) (constraint string, ok bool) {
	var pge *pgconn.PgError
	if errors.As(err, &pge) && pge.Code == pgUniqueViolation {
		return pge.ConstraintName, true
	}
	return "", false
}
