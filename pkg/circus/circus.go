// Package circus is the order service wearing a clown nose: the same
// ports and adapters shape with a different vocabulary.
package circus

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
)

// ErrClownTrippedOnBanana is what an Announcer returns when the act cannot go on.
var ErrClownTrippedOnBanana = errors.New("clown tripped on a banana")

// ClownAct is a scheduled performance.
type ClownAct struct {
	ActNumber      uint32
	SillinessLevel uint32
}

// Announcer is the port through which acts are announced.
type Announcer interface {
	Announce(ctx context.Context, act ClownAct) error
}

// MegaphoneAnnouncer shouts acts into W.
type MegaphoneAnnouncer struct {
	W io.Writer
}

// Announce implements Announcer.
func (m MegaphoneAnnouncer) Announce(ctx context.Context, act ClownAct) error {
	_, err := fmt.Fprintf(m.W, "[Megaphone] 🎪 Act #%d is ON! Silliness level: %d\n", act.ActNumber, act.SillinessLevel)
	return err
}

// Service schedules acts and announces them.
type Service struct {
	announcer Announcer

	mu      sync.Mutex
	nextAct uint32
}

// NewService creates a circus service announcing through a.
func NewService(a Announcer) *Service {
	return &Service{announcer: a, nextAct: 1}
}

// ScheduleAct books the next act. Act numbers start at 1 and are consumed
// even when the announcement fails.
func (s *Service) ScheduleAct(ctx context.Context, silliness uint32) (ClownAct, error) {
	s.mu.Lock()
	act := ClownAct{ActNumber: s.nextAct, SillinessLevel: silliness}
	s.nextAct++
	s.mu.Unlock()

	if err := s.announcer.Announce(ctx, act); err != nil {
		return ClownAct{}, fmt.Errorf("announce act #%d: %w", act.ActNumber, err)
	}
	return act, nil
}
