// Package orchestrator routes wizard events to the per-stage machines and
// owns the top-level stage progression. Stage machines validate and apply
// events; the orchestrator enforces stage scoping, advances the session on
// stage completion and keeps the session's bookkeeping current.
package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cleanline/cleanline/internal/application/session"
	"github.com/cleanline/cleanline/internal/domain/wizard"
)

// ErrUnknownStage is returned when a status query names a stage no machine
// serves.
var ErrUnknownStage = errors.New("unknown wizard stage")

// StageMachine is one of the four per-stage services.
type StageMachine interface {
	Stage() wizard.Stage
	CompletionEvent() wizard.Event
	Handle(ctx context.Context, sess *wizard.Session, ev wizard.Event, payload json.RawMessage) wizard.Result
	Ready(sess *wizard.Session) bool
	Status(sess *wizard.Session) interface{}
}

// Orchestrator owns the session store and the stage machines.
type Orchestrator struct {
	store    *session.Store
	machines map[wizard.Stage]StageMachine
	logger   zerolog.Logger
}

// New wires the orchestrator. Every wizard stage must have a machine.
func New(store *session.Store, logger zerolog.Logger, machines ...StageMachine) *Orchestrator {
	byStage := make(map[wizard.Stage]StageMachine, len(machines))
	for _, m := range machines {
		byStage[m.Stage()] = m
	}
	return &Orchestrator{
		store:    store,
		machines: byStage,
		logger:   logger.With().Str("service", "orchestrator").Logger(),
	}
}

// StartSession opens a fresh wizard session at stage 1.
func (o *Orchestrator) StartSession() *wizard.Session {
	return o.store.Create()
}

// AbandonSession discards a session and all of its unsaved state.
func (o *Orchestrator) AbandonSession(id uuid.UUID) {
	o.store.Remove(id)
}

// Transition applies one event to a session. Infrastructure conditions
// (unknown session, concurrent transition) travel as Go errors; business
// failures are carried inside the Result envelope.
func (o *Orchestrator) Transition(ctx context.Context, id uuid.UUID, ev wizard.Event, payload json.RawMessage) (wizard.Result, error) {
	sess, release, err := o.store.Acquire(id)
	if err != nil {
		return wizard.Result{}, err
	}
	defer release()

	if !sess.Active {
		return wizard.IllegalTransition(sess.Stage, sess.Substate, "session is already finished"), nil
	}

	evStage, known := wizard.StageOf(ev)
	if !known {
		return wizard.IllegalTransition(sess.Stage, sess.Substate, "unknown event "+string(ev)), nil
	}
	if evStage != sess.Stage {
		return wizard.IllegalTransition(sess.Stage, sess.Substate,
			"event "+string(ev)+" belongs to "+string(evStage)+" while "+string(sess.Stage)+" is active"), nil
	}

	machine := o.machines[sess.Stage]
	res := machine.Handle(ctx, sess, ev, payload)
	transitionsTotal.WithLabelValues(string(sess.Stage), strconv.FormatBool(res.Success)).Inc()

	sess.UpdatedAt = time.Now().UTC()
	if res.Success {
		sess.Substate = res.State
		if ev == machine.CompletionEvent() {
			o.advance(sess)
		}
	} else {
		code := ""
		if len(res.Errors) > 0 {
			code = res.Errors[0].Code
		}
		o.logger.Debug().
			Str("session_id", sess.ID.String()).
			Str("event", string(ev)).
			Str("code", code).
			Msg("transition rejected")
	}
	return res, nil
}

// advance moves the session to the next stage, or finishes it after the last.
func (o *Orchestrator) advance(sess *wizard.Session) {
	next, ok := wizard.NextStage(sess.Stage)
	if !ok {
		sess.Active = false
		o.logger.Info().Str("session_id", sess.ID.String()).Msg("wizard completed")
		return
	}
	sess.Stage = next
	sess.Substate = "NOT_STARTED"
	o.logger.Info().
		Str("session_id", sess.ID.String()).
		Str("stage", string(next)).
		Msg("stage advanced")
}

// StatusView is the aggregate session snapshot returned by status queries.
type StatusView struct {
	SessionID  uuid.UUID                    `json:"sessionId"`
	OrderID    *uuid.UUID                   `json:"orderId,omitempty"`
	Stage      wizard.Stage                 `json:"currentStage"`
	Substate   string                       `json:"currentSubstate"`
	Active     bool                         `json:"isActive"`
	StageReady bool                         `json:"stageReady"`
	CreatedAt  time.Time                    `json:"createdAt"`
	UpdatedAt  time.Time                    `json:"updatedAt"`
	Stages     map[wizard.Stage]interface{} `json:"stages"`
}

// Status builds a consistent snapshot of the whole session. It takes the
// per-session lock, so a snapshot never observes a half-applied transition.
func (o *Orchestrator) Status(id uuid.UUID) (*StatusView, error) {
	sess, release, err := o.store.Acquire(id)
	if err != nil {
		return nil, err
	}
	defer release()

	view := &StatusView{
		SessionID:  sess.ID,
		OrderID:    sess.OrderID,
		Stage:      sess.Stage,
		Substate:   sess.Substate,
		Active:     sess.Active,
		StageReady: o.machines[sess.Stage].Ready(sess),
		CreatedAt:  sess.CreatedAt,
		UpdatedAt:  sess.UpdatedAt,
		Stages:     make(map[wizard.Stage]interface{}, len(o.machines)),
	}
	for stage, m := range o.machines {
		view.Stages[stage] = m.Status(sess)
	}
	return view, nil
}

// StageStatus returns one stage's detail view.
func (o *Orchestrator) StageStatus(id uuid.UUID, stage wizard.Stage) (interface{}, error) {
	m, ok := o.machines[stage]
	if !ok {
		return nil, ErrUnknownStage
	}
	sess, release, err := o.store.Acquire(id)
	if err != nil {
		return nil, err
	}
	defer release()
	return m.Status(sess), nil
}
