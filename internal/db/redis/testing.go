package redis

import "github.com/redis/rueidis"

// NewStoreForTest wraps an existing rueidis client. Intended for tests with a mock client.
func NewStoreForTest(c rueidis.Client) *Store {
	return &Store{client: c}
}
