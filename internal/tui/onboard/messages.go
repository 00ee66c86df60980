package onboard

import (
	"github.com/fieldline/onboard/internal/nickname"
	"github.com/fieldline/onboard/internal/submit"
	steps "github.com/fieldline/onboard/internal/wizard"
)

// Availability messages shared with the step gate, so the checker can retract
// exactly the error it set.
const (
	nicknameTakenMessage    = steps.MsgNicknameTaken
	nicknameCheckingMessage = steps.MsgNicknameChecking
)

// NicknameStateMsg carries an availability-checker transition into the event
// loop. The checker's notify callback runs on its own goroutine; this message
// is how the verdict reaches the model safely.
type NicknameStateMsg struct {
	State nickname.State
}

// NextRequestedMsg is sent when the user asks to advance (enter on a step or
// the Next button).
type NextRequestedMsg struct{}

// BackRequestedMsg is sent when the user asks to go back one step.
type BackRequestedMsg struct{}

// SubmitRequestedMsg is sent when the user confirms submission on the review
// step.
type SubmitRequestedMsg struct{}

// SubmitResultMsg carries the submission outcome back to the model.
type SubmitResultMsg struct {
	Outcome *submit.Outcome
	Err     error
}
