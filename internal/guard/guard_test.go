package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecide_TruthTable(t *testing.T) {
	opts := Options{Fallback: "/auth/login", Landing: "/admin"}

	cases := []struct {
		name  string
		state SessionState
		class PageClass
		want  Decision
	}{
		{"protected without session", SessionAbsent, Protected, Decision{Action: Redirect, Target: "/auth/login"}},
		{"protected with session", SessionPresent, Protected, Decision{Action: Render}},
		{"guest-only with session", SessionPresent, GuestOnly, Decision{Action: Redirect, Target: "/admin"}},
		{"guest-only without session", SessionAbsent, GuestOnly, Decision{Action: Render}},
		{"protected loading", SessionLoading, Protected, Decision{Action: Loading}},
		{"guest-only loading", SessionLoading, GuestOnly, Decision{Action: Loading}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Decide(tc.state, tc.class, opts))
		})
	}
}

func TestDecide_Defaults(t *testing.T) {
	assert.Equal(t, "/", Decide(SessionAbsent, Protected, Options{}).Target)
	assert.Equal(t, "/admin", Decide(SessionPresent, GuestOnly, Options{}).Target)
}

func TestDecide_OnlyRedirectHasTarget(t *testing.T) {
	for _, st := range []SessionState{SessionLoading, SessionAbsent, SessionPresent} {
		for _, pc := range []PageClass{Protected, GuestOnly} {
			d := Decide(st, pc, Options{})
			if d.Action == Redirect {
				assert.NotEmpty(t, d.Target)
			} else {
				assert.Empty(t, d.Target)
			}
		}
	}
}
