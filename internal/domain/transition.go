package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SalonBookingService/pkg/types"
)

// SideEffect is an action attached to a status transition
type SideEffect string

const (
	// EffectNormalizeDate re-normalizes appointmentDate before save
	EffectNormalizeDate SideEffect = "normalize_date"
	// EffectStampStart sets actualStartTime if it is not set yet
	EffectStampStart SideEffect = "stamp_actual_start"
	// EffectStampEnd sets actualEndTime if it is not set yet
	EffectStampEnd SideEffect = "stamp_actual_end"
	// EffectRecordRevenue creates one revenue record per service line
	EffectRecordRevenue SideEffect = "record_revenue"
)

var (
	toInProgress = []SideEffect{EffectNormalizeDate, EffectStampStart}
	toCompleted  = []SideEffect{EffectNormalizeDate, EffectStampEnd, EffectRecordRevenue}
	plain        = []SideEffect{EffectNormalizeDate}
)

// transitions разрешенные переходы (from -> to -> побочные эффекты).
// Completed, Cancelled и No-Show конечные. Переход в тот же статус
// разрешен всегда и только нормализует дату.
var transitions = map[Status]map[Status][]SideEffect{
	StatusPending: {
		StatusApproved:   plain,
		StatusInProgress: toInProgress,
		StatusCompleted:  toCompleted,
		StatusCancelled:  plain,
		StatusNoShow:     plain,
	},
	StatusApproved: {
		StatusPending:    plain,
		StatusInProgress: toInProgress,
		StatusCompleted:  toCompleted,
		StatusCancelled:  plain,
		StatusNoShow:     plain,
	},
	StatusInProgress: {
		StatusApproved:  plain,
		StatusCompleted: toCompleted,
		StatusCancelled: plain,
		StatusNoShow:    plain,
	},
	StatusStaffBlocked: {
		StatusCancelled: plain,
	},
}

// TransitionEffects returns the side effects of from -> to or ErrInvalidTransition
func TransitionEffects(from, to Status) ([]SideEffect, error) {
	if !from.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, from)
	}
	if !to.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, to)
	}
	if from == to {
		return plain, nil
	}
	effects, ok := transitions[from][to]
	if !ok {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return effects, nil
}

// CanTransition reports whether from -> to is allowed
func CanTransition(from, to Status) bool {
	_, err := TransitionEffects(from, to)
	return err == nil
}

// TransitionResult describes an applied status change
type TransitionResult struct {
	From    Status
	To      Status
	Effects []SideEffect
}

// RevenueDue returns true if revenue records must be created for this change
func (r *TransitionResult) RevenueDue() bool {
	return r.Has(EffectRecordRevenue)
}

// Has returns true if the effect was part of the transition
func (r *TransitionResult) Has(effect SideEffect) bool {
	for _, e := range r.Effects {
		if e == effect {
			return true
		}
	}
	return false
}

// ApplyStatus mutates a in place: sets the new status and runs the in-memory
// side effects of the transition. Revenue creation is left to the caller and
// is signalled by TransitionResult.RevenueDue. On error a is unchanged.
func ApplyStatus(a *Appointment, to Status, now time.Time) (*TransitionResult, error) {
	from := a.Status
	effects, err := TransitionEffects(from, to)
	if err != nil {
		return nil, err
	}

	next := *a
	next.Status = to
	for _, effect := range effects {
		switch effect {
		case EffectNormalizeDate:
			if err := next.RecalculateSchedule(); err != nil {
				return nil, err
			}
		case EffectStampStart:
			if next.ActualStartTime.IsZero() {
				next.ActualStartTime = types.NewTimeString(now)
			}
		case EffectStampEnd:
			if next.ActualEndTime.IsZero() {
				next.ActualEndTime = types.NewTimeString(now)
			}
		}
	}

	*a = next
	return &TransitionResult{From: from, To: to, Effects: effects}, nil
}
