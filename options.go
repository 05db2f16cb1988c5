package pointfield

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// FieldType is the numeric type of a field.
type FieldType string

// Field types.
const (
	Int32   FieldType = "int32"
	Int64   FieldType = "int64"
	Float32 FieldType = "float32"
	Float64 FieldType = "float64"
	Date    FieldType = "date"
)

// Flag enables one representation of a field.
type Flag uint8

// Field flags.
const (
	Indexed Flag = 1 << iota
	Stored
	DocValues
	MultiValued
)

// FieldInfo describes a declared field.
type FieldInfo struct {
	Name  string
	Type  FieldType
	Flags Flag
}

// Has reports whether every bit of f is set.
func (i FieldInfo) Has(f Flag) bool { return i.Flags&f == f }

// Option configures a Client.
type Option func(*clientConfig)

type clientConfig struct {
	name         string
	fields       []FieldInfo
	driver       string
	addrs        []string
	username     string
	password     string
	indexName    string
	keyPrefix    string
	defaultLimit int
	maxLimit     int
	logger       *zap.Logger
	metricsReg   prometheus.Registerer
}

// WithName sets the schema name. Defaults to "default".
func WithName(name string) Option {
	return func(c *clientConfig) {
		c.name = name
	}
}

// WithField declares a numeric field.
func WithField(name string, ft FieldType, flags ...Flag) Option {
	return func(c *clientConfig) {
		var all Flag
		for _, f := range flags {
			all |= f
		}
		c.fields = append(c.fields, FieldInfo{Name: name, Type: ft, Flags: all})
	}
}

// WithRedis mirrors documents to Redis and answers eligible point queries there.
func WithRedis(addrs ...string) Option {
	return func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = addrs
	}
}

// WithCredentials sets the Redis ACL user and password.
func WithCredentials(username, password string) Option {
	return func(c *clientConfig) {
		c.username = username
		c.password = password
	}
}

// WithIndex overrides the Redis search index name and key prefix.
func WithIndex(indexName, keyPrefix string) Option {
	return func(c *clientConfig) {
		c.indexName = indexName
		c.keyPrefix = keyPrefix
	}
}

// WithLimits overrides the default and maximum hit counts.
func WithLimits(defaultLimit, maxLimit int) Option {
	return func(c *clientConfig) {
		c.defaultLimit = defaultLimit
		c.maxLimit = maxLimit
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *clientConfig) {
		c.logger = l
	}
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on reg.
func WithPrometheus(reg prometheus.Registerer) Option {
	return func(c *clientConfig) {
		c.metricsReg = reg
	}
}
