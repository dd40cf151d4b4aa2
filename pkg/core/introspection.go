package core

import (
	"github.com/aretw0/introspection"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	EventBufferSize int    `json:"event_buffer_size"`
	RepositoryType  string `json:"repository_type"`
	HasPayment      bool   `json:"has_payment"`
	HasNotifier     bool   `json:"has_notifier"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	repoType := "none"
	if s.repo != nil {
		repoType = "repository"
		if comp, ok := s.repo.(introspection.Component); ok {
			repoType = comp.ComponentType()
		}
	}

	return ServiceState{
		EventBufferSize: s.eventBufferSize,
		RepositoryType:  repoType,
		HasPayment:      s.payment != nil,
		HasNotifier:     s.notifier != nil,
	}
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "service"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
