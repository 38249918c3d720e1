package dispatcher

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// Config configures a Dispatcher.
type Config struct {
	// Logger receives tree mutations and dispatches at debug level.
	// Default: logrus.StandardLogger()
	Logger logrus.FieldLogger

	// Registerer is where the dispatcher's metrics are registered.
	// Dispatchers sharing a registerer share the event counters and the
	// path histogram; the nodes gauge has one series per dispatcher,
	// labelled tree="<n>", until Close is called.
	// Default: a private registry per Dispatcher.
	Registerer prometheus.Registerer

	// Namespace prefixes every metric name (default: "domsim").
	Namespace string

	// Buckets are the histogram buckets for propagation path lengths.
	Buckets []float64
}

type Option func(*Config)

func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

func WithRegisterer(r prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registerer = r
	}
}

func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

func defaultConfig() Config {
	return Config{
		Logger:    logrus.StandardLogger(),
		Namespace: "domsim",
		Buckets:   prometheus.LinearBuckets(1, 2, 10),
	}
}

func newConfig(opts []Option) Config {
	c := defaultConfig()
	for _, o := range opts {
		o(&c)
	}
	if c.Logger == nil {
		c.Logger = logrus.StandardLogger()
	}
	if c.Registerer == nil {
		c.Registerer = prometheus.NewRegistry()
	}
	return c
}
