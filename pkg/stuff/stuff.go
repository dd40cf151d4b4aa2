// Package stuff is the architectural template: one port, one adapter and one
// application service. Copy it and rename things to start a new hexagon.
package stuff

import (
	"context"
	"errors"
)

// ErrNotImplemented is returned by the placeholder adapter.
var ErrNotImplemented = errors.New("adapter implementation goes here")

// Stuff is the domain value.
type Stuff struct {
	Value uint32
}

// Handler is the port.
type Handler interface {
	Handle(ctx context.Context, s Stuff) error
}

// MyAdapter is the placeholder adapter.
type MyAdapter struct{}

// Handle implements Handler.
func (MyAdapter) Handle(ctx context.Context, s Stuff) error {
	return ErrNotImplemented
}

// Service is the application service.
type Service struct {
	handler Handler
}

// NewService wires the service to its handler.
func NewService(h Handler) *Service {
	return &Service{handler: h}
}

// Process builds a Stuff from value and hands it to the port.
func (s *Service) Process(ctx context.Context, value uint32) (Stuff, error) {
	st := Stuff{Value: value}
	if err := s.handler.Handle(ctx, st); err != nil {
		return Stuff{}, err
	}
	return st, nil
}
