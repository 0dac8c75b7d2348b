package signal

import (
	"github.com/blaubaer/talk-practice/pkg/session"
)

type Context interface {
	State() State
	Snapshot() session.Snapshot
}

// NewContext creates a Context whose State is derived from the given
// snapshot.
func NewContext(s session.Snapshot) Context {
	return snapshotContext{s, StateOf(s)}
}

type snapshotContext struct {
	snapshot session.Snapshot
	state    State
}

func (this snapshotContext) State() State {
	return this.state
}

func (this snapshotContext) Snapshot() session.Snapshot {
	return this.snapshot
}
