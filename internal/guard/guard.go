// Package guard decides what a page request sees given its session state.
package guard

// SessionState is what is known about the caller's session.
type SessionState int

const (
	SessionLoading SessionState = iota
	SessionAbsent
	SessionPresent
)

// PageClass marks a page as requiring a session or forbidding one.
// Public pages are not routed through the guard.
type PageClass int

const (
	Protected PageClass = iota
	GuestOnly
)

type Action int

const (
	Render Action = iota
	Redirect
	Loading
)

func (a Action) String() string {
	switch a {
	case Render:
		return "render"
	case Redirect:
		return "redirect"
	case Loading:
		return "loading"
	}
	return "unknown"
}

type Options struct {
	// Fallback is where protected pages send visitors without a session.
	Fallback string
	// Landing is where guest-only pages send signed-in users.
	Landing string
}

func (o Options) withDefaults() Options {
	if o.Fallback == "" {
		o.Fallback = "/"
	}
	if o.Landing == "" {
		o.Landing = "/admin"
	}
	return o
}

// Decision is exactly one outcome; Target is set only for Redirect.
type Decision struct {
	Action Action
	Target string
}

// Decide maps a session state and page class to a single outcome.
// While the session is loading nothing is rendered and nothing redirects.
func Decide(state SessionState, class PageClass, opts Options) Decision {
	opts = opts.withDefaults()

	if state == SessionLoading {
		return Decision{Action: Loading}
	}

	switch class {
	case Protected:
		if state == SessionPresent {
			return Decision{Action: Render}
		}
		return Decision{Action: Redirect, Target: opts.Fallback}
	case GuestOnly:
		if state == SessionPresent {
			return Decision{Action: Redirect, Target: opts.Landing}
		}
		return Decision{Action: Render}
	}
	return Decision{Action: Render}
}
