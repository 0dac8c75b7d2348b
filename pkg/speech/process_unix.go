//go:build !windows

package speech

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

func suspendProcess(p *os.Process) error {
	if err := unix.Kill(p.Pid, unix.SIGSTOP); err != nil {
		return fmt.Errorf("cannot suspend process %d: %w", p.Pid, err)
	}
	return nil
}

func continueProcess(p *os.Process) error {
	if err := unix.Kill(p.Pid, unix.SIGCONT); err != nil {
		return fmt.Errorf("cannot continue process %d: %w", p.Pid, err)
	}
	return nil
}
