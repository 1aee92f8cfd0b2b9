//go:build windows

package timer

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	jobObjectBasicAccountingInformation = 1
	hundredNSTicks                      = 100
)

type jobAccountingInfo struct {
	TotalUserTime             int64
	TotalKernelTime           int64
	ThisPeriodTotalUserTime   int64
	ThisPeriodTotalKernelTime int64
	TotalPageFaultCount       uint32
	TotalProcesses            uint32
	ActiveProcesses           uint32
	TotalTerminatedProcesses  uint32
}

// jobTimer reads the CPU time the OS accumulates for a job object holding
// the child and everything it spawns.
type jobTimer struct {
	job windows.Handle
}

var _ cpuTimer = (*jobTimer)(nil)

// spawn creates cmd suspended, starts the wall clock, starts the CPU timer
// and only then lets the child run. Nothing the child executes can fall
// outside the measured window.
func spawn(cmd *exec.Cmd) (cpuTimer, WallClockTimer, error) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.CreationFlags |= windows.CREATE_SUSPENDED

	wall := StartWallClock()
	if err := cmd.Start(); err != nil {
		return nil, wall, newError(SpawnFailure, cmd.String(), err)
	}

	cpu, err := startSuspendedProcess(uint32(cmd.Process.Pid))
	if err != nil {
		cmd.Process.Kill()
		cmd.Wait()
		return nil, wall, newError(TimerFailure, cmd.String(), err)
	}
	return cpu, wall, nil
}

func startSuspendedProcess(pid uint32) (*jobTimer, error) {
	job, err := windows.CreateJobObject(nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create job object: %w", err)
	}
	t := &jobTimer{job: job}

	hProcess, err := windows.OpenProcess(windows.PROCESS_SET_QUOTA|windows.PROCESS_TERMINATE, false, pid)
	if err != nil {
		t.close()
		return nil, fmt.Errorf("open process %d: %w", pid, err)
	}
	err = windows.AssignProcessToJobObject(job, hProcess)
	windows.CloseHandle(hProcess)
	if err != nil {
		t.close()
		return nil, fmt.Errorf("assign process %d to job: %w", pid, err)
	}

	hThread, err := mainThreadOf(pid)
	if err != nil {
		t.close()
		return nil, fmt.Errorf("main thread of %d: %w", pid, err)
	}
	defer windows.CloseHandle(hThread)

	if _, err := windows.ResumeThread(hThread); err != nil {
		t.close()
		return nil, fmt.Errorf("resume process %d: %w", pid, err)
	}
	return t, nil
}

func (t *jobTimer) stop() (user, system Second, err error) {
	var info jobAccountingInfo
	err = windows.QueryInformationJobObject(t.job,
		jobObjectBasicAccountingInformation,
		uintptr(unsafe.Pointer(&info)),
		uint32(unsafe.Sizeof(info)), nil)
	if err != nil {
		return 0, 0, fmt.Errorf("query job accounting: %w", err)
	}
	user = float64(info.TotalUserTime*hundredNSTicks) / 1e9
	system = float64(info.TotalKernelTime*hundredNSTicks) / 1e9
	return user, system, nil
}

// peakMemory reports the peak committed memory of any process in the job.
// Windows keeps no peak working set for a job.
func (t *jobTimer) peakMemory(*os.ProcessState) (uint64, error) {
	var info windows.JOBOBJECT_EXTENDED_LIMIT_INFORMATION
	err := windows.QueryInformationJobObject(t.job,
		int32(windows.JobObjectExtendedLimitInformation),
		uintptr(unsafe.Pointer(&info)),
		uint32(unsafe.Sizeof(info)), nil)
	if err != nil {
		return 0, fmt.Errorf("query job memory: %w", err)
	}
	return uint64(info.PeakProcessMemoryUsed), nil
}

// close releases the job handle. The job has no kill-on-close limit, so
// processes the child left behind keep running.
func (t *jobTimer) close() {
	windows.CloseHandle(t.job)
}

// mainThreadOf opens the first thread owned by pid. A process created
// suspended has exactly one.
func mainThreadOf(pid uint32) (windows.Handle, error) {
	hSnapshot, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPTHREAD, 0)
	if err != nil {
		return windows.InvalidHandle, err
	}
	defer windows.CloseHandle(hSnapshot)

	var entry windows.ThreadEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))

	for err = windows.Thread32First(hSnapshot, &entry); err == nil; err = windows.Thread32Next(hSnapshot, &entry) {
		if entry.OwnerProcessID == pid {
			return windows.OpenThread(windows.THREAD_SUSPEND_RESUME, false, entry.ThreadID)
		}
	}
	return windows.InvalidHandle, err
}
