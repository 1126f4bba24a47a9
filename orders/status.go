package orders

import (
	"errors"
	"fmt"

	"pizzeria-service/models"
)

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUnknownStatus     = errors.New("unknown order status")
	ErrUnknownAction     = errors.New("unknown status action")
)

const (
	ActionAdvance  = "advance"
	ActionCancel   = "cancel"
	ActionComplete = "complete"
)

var next = map[models.OrderStatus]models.OrderStatus{
	models.StatusReceived:  models.StatusPreparing,
	models.StatusPreparing: models.StatusReady,
	models.StatusReady:     models.StatusDelivered,
}

// Next returns the single forward step from s along the kitchen flow.
func Next(s models.OrderStatus) (models.OrderStatus, bool) {
	n, ok := next[s]
	return n, ok
}

func IsTerminal(s models.OrderStatus) bool {
	return s == models.StatusCompleted || s == models.StatusCancelled
}

// CanTransition reports whether an operator may move an order from one
// status to another: one step forward, cancel from any open status, or
// complete a delivered order.
func CanTransition(from, to models.OrderStatus) bool {
	if !from.Valid() || !to.Valid() || IsTerminal(from) {
		return false
	}
	if n, ok := next[from]; ok && n == to {
		return true
	}
	switch to {
	case models.StatusCancelled:
		return true
	case models.StatusCompleted:
		return from == models.StatusDelivered
	}
	return false
}

// Apply resolves an operator action against the current status.
func Apply(current models.OrderStatus, action string) (models.OrderStatus, error) {
	if !current.Valid() {
		return "", fmt.Errorf("%q: %w", current, ErrUnknownStatus)
	}
	var to models.OrderStatus
	switch action {
	case ActionAdvance:
		n, ok := Next(current)
		if !ok {
			return "", fmt.Errorf("%s has no next step: %w", current, ErrInvalidTransition)
		}
		to = n
	case ActionCancel:
		to = models.StatusCancelled
	case ActionComplete:
		to = models.StatusCompleted
	default:
		return "", fmt.Errorf("%q: %w", action, ErrUnknownAction)
	}
	if !CanTransition(current, to) {
		return "", fmt.Errorf("%s -> %s: %w", current, to, ErrInvalidTransition)
	}
	return to, nil
}
