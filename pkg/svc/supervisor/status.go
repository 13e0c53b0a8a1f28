package supervisor

import (
	"fmt"
	"strings"
)

// State is a supervisord program state.
type State string

// Program states reported by supervisorctl.
const (
	StateRunning  State = "RUNNING"
	StateStarting State = "STARTING"
	StateStopped  State = "STOPPED"
	StateFatal    State = "FATAL"
	StateBackoff  State = "BACKOFF"
	StateExited   State = "EXITED"
	StateUnknown  State = "UNKNOWN"
)

// ProgramStatus describes one managed program as reported by the supervisor
// daemon.
type ProgramStatus struct {
	Name   string
	State  State
	Detail string
}

// Running reports whether the program is up.
func (s ProgramStatus) Running() bool {
	return s.State == StateRunning
}

// ParseStatus interprets supervisorctl status output for the named program.
//
// Expected forms:
//
//	pymbserver    RUNNING   pid 1234, uptime 0:05:01
//	pymbserver    STOPPED   Not started
//	pymbserver: ERROR (no such process)
func ParseStatus(output, program string) (ProgramStatus, error) {
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.Contains(line, "ERROR (no such process)") {
			return ProgramStatus{}, fmt.Errorf("%w: %s", ErrProgramNotFound, program)
		}

		fields := strings.Fields(line)
		if len(fields) < 2 || fields[0] != program {
			continue
		}

		return ProgramStatus{
			Name:   fields[0],
			State:  toState(fields[1]),
			Detail: strings.Join(fields[2:], " "),
		}, nil
	}

	return ProgramStatus{}, fmt.Errorf("%w: %s", ErrProgramNotFound, program)
}

func toState(raw string) State {
	switch State(raw) {
	case StateRunning, StateStarting, StateStopped, StateFatal, StateBackoff, StateExited:
		return State(raw)
	default:
		return StateUnknown
	}
}
