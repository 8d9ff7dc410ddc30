// Package docstoretest provides a miniredis-backed Store for tests.
package docstoretest

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/luxbiz/biz-optimizer/internal/docstore"
)

// New starts a miniredis server bound to t and returns a Store on it.
func New(t testing.TB) (*docstore.Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return docstore.New(client), mr
}
