package onboard

import (
	"strings"
	"testing"

	"github.com/fieldline/onboard/internal/form"
	"github.com/fieldline/onboard/internal/nickname"
)

func TestNicknameStep_TakenVerdictSetsError(t *testing.T) {
	st := form.NewState()
	st.SetString(form.FieldNickname, "takennick")
	errs := form.NewErrors()

	step := NewNicknameStep(st, errs, nil, "")
	step.Update(NicknameStateMsg{State: nickname.State{
		Status:       nickname.StatusTaken,
		CheckedValue: "takennick",
	}})

	if errs.Get(form.FieldNickname) != nicknameTakenMessage {
		t.Error("Expected a fresh taken verdict to set the field error")
	}
}

func TestNicknameStep_StaleTakenVerdictIgnored(t *testing.T) {
	st := form.NewState()
	st.SetString(form.FieldNickname, "newer_nick")
	errs := form.NewErrors()

	step := NewNicknameStep(st, errs, nil, "")
	step.Update(NicknameStateMsg{State: nickname.State{
		Status:       nickname.StatusTaken,
		CheckedValue: "old_nick",
	}})

	if errs.Get(form.FieldNickname) != "" {
		t.Error("Expected a stale taken verdict to leave the error map alone")
	}
}

func TestNicknameStep_AvailableVerdictRetractsTakenError(t *testing.T) {
	st := form.NewState()
	st.SetString(form.FieldNickname, "freenick")
	errs := form.NewErrors()
	errs.Set(form.FieldNickname, nicknameTakenMessage)

	step := NewNicknameStep(st, errs, nil, "")
	step.Update(NicknameStateMsg{State: nickname.State{
		Status:       nickname.StatusAvailable,
		CheckedValue: "freenick",
	}})

	if errs.Get(form.FieldNickname) != "" {
		t.Error("Expected an available verdict to retract the taken error")
	}
}

func TestNicknameStep_AvailableVerdictKeepsUnrelatedError(t *testing.T) {
	st := form.NewState()
	errs := form.NewErrors()
	errs.Set(form.FieldNickname, "Nickname must be 3-30 characters")

	step := NewNicknameStep(st, errs, nil, "")
	step.Update(NicknameStateMsg{State: nickname.State{
		Status:       nickname.StatusAvailable,
		CheckedValue: "ab",
	}})

	if errs.Get(form.FieldNickname) != "Nickname must be 3-30 characters" {
		t.Error("Expected the availability verdict to only retract its own message")
	}
}

func TestNicknameStep_ViewShowsVerdict(t *testing.T) {
	st := form.NewState()
	st.SetString(form.FieldNickname, "freenick")
	errs := form.NewErrors()

	step := NewNicknameStep(st, errs, nil, "")
	step.SetSize(60, 20)
	step.Update(NicknameStateMsg{State: nickname.State{
		Status:       nickname.StatusAvailable,
		CheckedValue: "freenick",
	}})

	if !strings.Contains(step.View(), "freenick is available") {
		t.Error("Expected the availability line under the input")
	}
}

func TestNicknameStep_ViewShowsFailOpenNotice(t *testing.T) {
	st := form.NewState()
	st.SetString(form.FieldNickname, "freenick")
	errs := form.NewErrors()

	step := NewNicknameStep(st, errs, nil, "")
	step.Update(NicknameStateMsg{State: nickname.State{
		Status:       nickname.StatusErrored,
		CheckedValue: "freenick",
	}})

	if !strings.Contains(step.View(), "Could not verify availability") {
		t.Error("Expected the fail-open notice when the check errored")
	}
}

func TestNicknameStep_SuggestionPrefillsEmptyField(t *testing.T) {
	st := form.NewState()
	errs := form.NewErrors()

	NewNicknameStep(st, errs, nil, "ada_lovelace")

	if st.String(form.FieldNickname) != "ada_lovelace" {
		t.Error("Expected the suggestion to prefill an empty nickname")
	}
}

func TestNicknameStep_SuggestionNeverOverwrites(t *testing.T) {
	st := form.NewState()
	st.SetString(form.FieldNickname, "typed")
	errs := form.NewErrors()

	NewNicknameStep(st, errs, nil, "ada_lovelace")

	if st.String(form.FieldNickname) != "typed" {
		t.Error("Expected the user's nickname to win over the suggestion")
	}
}
