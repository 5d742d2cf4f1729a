package api

import (
	"github.com/JaimeStill/visage/internal/relay"
	"github.com/JaimeStill/visage/internal/runs"
)

// Domain holds all domain systems that comprise the API.
// Runs is nil when run history is disabled.
type Domain struct {
	Relay relay.System
	Runs  runs.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	domain := &Domain{}

	var recorder relay.Recorder
	if runtime.Database != nil {
		domain.Runs = runs.New(
			runtime.Database,
			runtime.Logger,
			runtime.Pagination,
		)
		recorder = domain.Runs
	}

	domain.Relay = relay.New(
		runtime.Dify,
		recorder,
		runtime.Logger,
	)

	return domain
}
