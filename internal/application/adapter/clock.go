// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import "time"

// Clock supplies the current time to use cases that depend on it.
type Clock interface {
	Now() time.Time
}
