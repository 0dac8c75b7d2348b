package speech

import (
	"fmt"
	"os"

	"golang.org/x/sys/windows"
)

var (
	ntdll                = windows.NewLazySystemDLL("ntdll.dll")
	procNtSuspendProcess = ntdll.NewProc("NtSuspendProcess")
	procNtResumeProcess  = ntdll.NewProc("NtResumeProcess")
)

func suspendProcess(p *os.Process) error {
	return callWithProcessHandle(procNtSuspendProcess, p)
}

func continueProcess(p *os.Process) error {
	return callWithProcessHandle(procNtResumeProcess, p)
}

func callWithProcessHandle(proc *windows.LazyProc, p *os.Process) error {
	if err := proc.Find(); err != nil {
		return ErrPauseUnsupported
	}

	h, err := windows.OpenProcess(windows.PROCESS_SUSPEND_RESUME, false, uint32(p.Pid))
	if err != nil {
		return fmt.Errorf("cannot open process %d: %w", p.Pid, err)
	}
	defer func() {
		_ = windows.CloseHandle(h)
	}()

	if status, _, _ := proc.Call(uintptr(h)); status != 0 {
		return fmt.Errorf("%s of process %d failed with status 0x%x", proc.Name, p.Pid, status)
	}
	return nil
}
