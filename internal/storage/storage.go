package storage

import "errors"

var ErrNotFound = errors.New("key not found in device storage")

// Fixed keys, carried over from the web client's localStorage names so a
// migrated device database stays readable.
const (
	KeyCart     = "cart"
	KeyToken    = "access_token"
	KeyUserData = "user_data"
)

// Storage is the device-local persistence the stores write through after
// every mutation. It is a restore cache, not a ledger: readers must tolerate
// missing or stale values.
type Storage interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Delete(key string) error
	Close() error
}
