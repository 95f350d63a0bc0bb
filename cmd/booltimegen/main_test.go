package main

import (
	"bytes"
	"context"
	stdsql "database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const config = `package: models
target: ./models
types:
  - name: User
    fields:
      - active: activate
      - active: close
`

func writeConfig(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "booltime.yaml")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestGenerateCommand(t *testing.T) {
	path := writeConfig(t, config)
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"-config", path}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.FileExists(t, filepath.Join(filepath.Dir(path), "models", "user_booltime.go"))
	assert.Contains(t, stderr.String(), "generated code")

	stderr.Reset()
	code = run(context.Background(), []string{"generate", "-config", path}, &stdout, &stderr)
	require.Equal(t, 0, code)
	assert.Contains(t, stderr.String(), "up to date")

	stderr.Reset()
	code = run(context.Background(), []string{"generate", "-config", path, "-force", "-v"}, &stdout, &stderr)
	require.Equal(t, 0, code)
	assert.Contains(t, stderr.String(), "file written")
}

func TestGenerateCommandErrors(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-config", filepath.Join(t.TempDir(), "missing.yaml")}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "booltimegen:")

	stderr.Reset()
	path := writeConfig(t, "package: models\ntarget: ./models\ntypes:\n  - name: User\n")
	code = run(context.Background(), []string{"-config", path}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "no fields declared")

	stderr.Reset()
	code = run(context.Background(), []string{"-h"}, &stdout, &stderr)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr.String(), "usage: booltimegen")
}

func TestCheckCommand(t *testing.T) {
	path := writeConfig(t, config)
	dsn := filepath.Join(t.TempDir(), "app.db")
	db, err := stdsql.Open("sqlite", dsn)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE users (id INTEGER PRIMARY KEY, activated_at DATETIME, closed_at DATETIME)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"check", "-config", path, "-dialect", "sqlite", "-dsn", dsn}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), "User (users):")

	t.Run("missing column", func(t *testing.T) {
		path := writeConfig(t, config+"      - active: deny\n")
		stdout.Reset()
		stderr.Reset()
		code := run(context.Background(), []string{"check", "-config", path, "-dialect", "sqlite", "-dsn", dsn}, &stdout, &stderr)
		assert.Equal(t, 1, code)
		assert.Contains(t, stdout.String(), "users.denied_at")
		assert.Contains(t, stderr.String(), "1 of 1 tables failed the check")
	})

	t.Run("missing flags", func(t *testing.T) {
		stderr.Reset()
		code := run(context.Background(), []string{"check", "-config", path}, &stdout, &stderr)
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr.String(), "check requires -dialect and -dsn")
	})
}

func TestWatch(t *testing.T) {
	path := writeConfig(t, config)
	target := filepath.Join(filepath.Dir(path), "models")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var stdout, stderr syncBuffer
	done := make(chan int, 1)
	go func() {
		done <- run(ctx, []string{"-config", path, "-watch"}, &stdout, &stderr)
	}()

	require.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(target, "user_booltime.go"))
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)

	updated := config + "  - name: Order\n    fields:\n      - active: ship\n        passive: shipped\n"
	require.Eventually(t, func() bool {
		// Rewrite until the watcher has been registered and picks it up.
		_ = os.WriteFile(path, []byte(updated), 0o644)
		_, err := os.Stat(filepath.Join(target, "order_booltime.go"))
		return err == nil
	}, 5*time.Second, 200*time.Millisecond)

	cancel()
	select {
	case code := <-done:
		assert.Equal(t, 0, code)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
	assert.Contains(t, stderr.String(), "configuration changed")
}
