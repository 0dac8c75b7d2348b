package tui

import (
	"time"

	"github.com/blaubaer/talk-practice/pkg/session"
)

// snapshotMsg carries the latest state of the session runner.
type snapshotMsg session.Snapshot

// runnerStoppedMsg is sent once the session runner does not publish any
// snapshots anymore.
type runnerStoppedMsg struct{}

// commandDoneMsg is the outcome of a command sent to the session runner.
type commandDoneMsg struct {
	name string
	err  error
}

type logTickMsg time.Time
