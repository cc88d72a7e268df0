package order

import "neonfood/internal/models"

// The lifecycle is strictly linear and forward-only:
// pending -> preparing -> ready -> completed. There is no cancellation or
// reversal path; a mis-click cannot be corrected through the state machine.

var successor = map[models.OrderStatus]models.OrderStatus{
	models.StatusPending:   models.StatusPreparing,
	models.StatusPreparing: models.StatusReady,
	models.StatusReady:     models.StatusCompleted,
}

// NextStatus returns the immediate successor of s, or "" when s is terminal
// or unknown.
func NextStatus(s models.OrderStatus) models.OrderStatus {
	return successor[s]
}

// CheckTransition validates a requested transition. It returns nil only when
// target is the immediate successor of current; any other request, including
// re-entering the current status, skipping a stage or moving backward, yields
// a TransitionError.
func CheckTransition(current, target models.OrderStatus) error {
	if next := successor[current]; next != "" && next == target {
		return nil
	}
	return &models.TransitionError{From: current, To: target}
}
