package view

import (
	"errors"
	"fmt"
)

var ErrInvalidTransition = errors.New("invalid checkout transition")

// Stage is the position of the user in the checkout flow
type Stage string

const (
	StageClosed          Stage = "closed"
	StageDeliveryEditing Stage = "delivery"
	StageDeliveryValid   Stage = "delivery-valid"
	StageContactEditing  Stage = "contact"
	StageContactValid    Stage = "contact-valid"
	StageSubmitting      Stage = "submitting"
	StageConfirmed       Stage = "confirmed"
)

// validTransitions defines allowed stage changes. A failed submission returns to StageContactValid.
var validTransitions = map[Stage][]Stage{
	StageClosed:          {StageDeliveryEditing, StageDeliveryValid},
	StageDeliveryEditing: {StageDeliveryValid, StageClosed},
	StageDeliveryValid:   {StageDeliveryEditing, StageContactEditing, StageContactValid, StageClosed},
	StageContactEditing:  {StageContactValid, StageClosed},
	StageContactValid:    {StageContactEditing, StageSubmitting, StageClosed},
	StageSubmitting:      {StageConfirmed, StageContactValid},
	StageConfirmed:       {StageClosed},
}

// CanTransitionTo checks whether the checkout may move to the target stage
func (s Stage) CanTransitionTo(target Stage) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// InDelivery reports whether the delivery form is showing
func (s Stage) InDelivery() bool {
	return s == StageDeliveryEditing || s == StageDeliveryValid
}

// InContact reports whether the contact form is showing
func (s Stage) InContact() bool {
	return s == StageContactEditing || s == StageContactValid || s == StageSubmitting
}

// Checkout tracks the checkout stage
type Checkout struct {
	stage Stage
}

func NewCheckout() *Checkout {
	return &Checkout{stage: StageClosed}
}

func (c *Checkout) Stage() Stage {
	return c.stage
}

// Transition moves to the target stage. Moving to the current stage is a no-op.
func (c *Checkout) Transition(target Stage) error {
	if c.stage == target {
		return nil
	}
	if !c.stage.CanTransitionTo(target) {
		return fmt.Errorf("%w: cannot transition from %s to %s", ErrInvalidTransition, c.stage, target)
	}
	c.stage = target
	return nil
}
