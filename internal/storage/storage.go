package storage

// Fixed keys of the persisted credentials.
const (
	KeySession = "appSession"
	KeyRefresh = "appRefresh"
)

// Storage is a durable string key/value store. A missing key reads as "".
type Storage interface {
	Get(key string) string
	Set(key string, value string) error
	Remove(key string) error
	Close() error
}
