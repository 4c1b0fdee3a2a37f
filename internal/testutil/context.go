package testutil

import (
	"context"
	"testing"
	"time"
)

// ContextWithTimeout возвращает context, который истекает через d.
// Отмена регистрируется в t.Cleanup.
func ContextWithTimeout(t testing.TB, d time.Duration) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), d)
	t.Cleanup(cancel)
	return ctx
}

// ContextWithCancel возвращает context для фоновых циклов (Run, Start, Serve).
// Тест может отменить его сам; иначе он отменяется по окончании теста.
func ContextWithCancel(t testing.TB) (context.Context, context.CancelFunc) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx, cancel
}
