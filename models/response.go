package models

import "time"

// DeferKind selects how an interaction is acknowledged before slow work
type DeferKind string

const (
	DeferReply          DeferKind = "reply"           // "thinking…" placeholder, public
	DeferReplyEphemeral DeferKind = "reply_ephemeral" // "thinking…" placeholder, only the user sees it
	DeferUpdate         DeferKind = "update"          // keep the clicked message, edit it later
)

// ResponseMode says how a Response is delivered
type ResponseMode string

const (
	ResponseNone     ResponseMode = "none"
	ResponseReply    ResponseMode = "reply"
	ResponseFollowUp ResponseMode = "follow_up"
	ResponseEdit     ResponseMode = "edit"
)

// Outcome records which terminal state a dispatch ended in
type Outcome string

const (
	OutcomeResponded       Outcome = "responded"
	OutcomeBlocked         Outcome = "blocked"
	OutcomeCommandNotFound Outcome = "command_not_found"
	OutcomeFailed          Outcome = "failed"
	OutcomeIgnored         Outcome = "ignored"
)

// Response is the value a dispatch produces; handlers turn it into platform calls.
// When View is set its actions replace any existing buttons on the message.
type Response struct {
	Mode      ResponseMode
	Content   string
	View      *ViewModel
	Ephemeral bool
	Outcome   Outcome
	RetryAt   time.Time
}

// NoResponse is returned for events that must not be answered
func NoResponse() Response {
	return Response{Mode: ResponseNone, Outcome: OutcomeIgnored}
}
