package session

import "testing"

func TestStateString(t *testing.T) {
	cases := []struct {
		state State
		want  string
	}{
		{StateInit, "init"},
		{StateDeinit, "deinit"},
		{StateActive, "active"},
		{StateIdle, "idle"},
		{StateError, "error"},
		{State(0x42), "unknown"},
	}
	for _, c := range cases {
		if got := c.state.String(); got != c.want {
			t.Errorf("State(%#x).String() = %q, want %q", uint8(c.state), got, c.want)
		}
	}
}

func TestStateIsValid(t *testing.T) {
	for _, s := range []State{StateInit, StateDeinit, StateActive, StateIdle, StateError} {
		if !s.IsValid() {
			t.Errorf("State(%#x) not valid", uint8(s))
		}
	}
	if State(0x42).IsValid() {
		t.Error("State(0x42) reported valid")
	}
}

func TestStatusString(t *testing.T) {
	if got := StatusOk.String(); got == "" || got == "unknown" {
		t.Errorf("StatusOk.String() = %q", got)
	}
	if got := StatusMulticastListFull.String(); got == "" || got == "unknown" {
		t.Errorf("StatusMulticastListFull.String() = %q", got)
	}
}

func TestReasonString(t *testing.T) {
	if got := ReasonMaxRangingRoundRetryCountReached.String(); got == "" || got == "unknown" {
		t.Errorf("Reason.String() = %q", got)
	}
}
