// Package metrics holds the Prometheus collectors shared by the client.
package metrics

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every metric exported by the client.
const Namespace = "appsearch"

// RegisterOrReuse registers a collector or reuses an existing one, so two
// clients sharing a registerer report into the same series.
func RegisterOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			existing, ok := are.ExistingCollector.(T)
			if !ok {
				return fmt.Errorf("appsearch: metric already registered with incompatible type: %T", are.ExistingCollector)
			}
			*c = existing
			return nil
		}
		return fmt.Errorf("appsearch: register metric: %w", err)
	}
	return nil
}
