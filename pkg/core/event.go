package core

import (
	"fmt"
	"time"
)

// EventType represents the type of change in a repository.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change in a repository.
type Event struct {
	Type      EventType
	ID        OrderID
	Timestamp time.Time
}

func (e Event) String() string {
	return fmt.Sprintf("%s order %s", e.Type, e.ID)
}
