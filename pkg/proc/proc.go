package proc

import (
	"bytes"
	"os/exec"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/BiAPoL/biapol-taurus/pkg/errors"
)

// ExitUnknown is the exit code reported by Wait when the deadline elapsed
// before the job completed. The underlying process is left running.
const ExitUnknown = -1

// Runner launches external commands without blocking.
type Runner interface {
	Launch(argv []string) (*Job, error)
}

type osRunner struct {
	clock clockwork.Clock
}

// NewRunner returns a Runner backed by os/exec.
func NewRunner() Runner {
	return osRunner{clock: clockwork.NewRealClock()}
}

// NewRunnerWithClock returns a Runner whose wait deadlines are driven by
// the given clock. Tests use this with clockwork.NewFakeClock().
func NewRunnerWithClock(clock clockwork.Clock) Runner {
	return osRunner{clock: clock}
}

// Job is the handle to one in-flight external command. Its output is
// buffered as the process runs and can be collected at most once via
// Drain, mirroring the one-shot nature of the underlying process pipes.
type Job struct {
	argv  []string
	clock clockwork.Clock

	cmd            *exec.Cmd
	stdout, stderr bytes.Buffer
	done           chan struct{}
	exitCode       int
	drained        bool
}

// Launch starts the command described by argv and returns immediately.
func (r osRunner) Launch(argv []string) (*Job, error) {
	if len(argv) == 0 {
		return nil, errors.New("empty argument vector")
	}

	job := &Job{
		argv:  argv,
		clock: r.clock,
		done:  make(chan struct{}),
	}

	job.cmd = exec.Command(argv[0], argv[1:]...)
	job.cmd.Stdout = &job.stdout
	job.cmd.Stderr = &job.stderr
	if err := job.cmd.Start(); err != nil {
		return nil, errors.WithContext(err, "start command")
	}

	go func() {
		err := job.cmd.Wait()
		if exitErr, ok := err.(*exec.ExitError); ok {
			job.exitCode = exitErr.ExitCode()
		} else if err != nil {
			// The command couldn't be reaped at all. Report it like a
			// failed command rather than crashing the caller.
			job.exitCode = ExitUnknown
		}
		close(job.done)
	}()
	return job, nil
}

// Argv returns the argument vector the job was launched with.
func (job *Job) Argv() []string {
	return job.argv
}

// Poll reports whether the job has completed. The exit code is only
// meaningful when the returned bool is true.
func (job *Job) Poll() (int, bool) {
	select {
	case <-job.done:
		return job.exitCode, true
	default:
		return 0, false
	}
}

// Wait blocks until the job completes or the timeout elapses. A
// non-positive timeout waits indefinitely. On timeout it returns
// ExitUnknown and an errors.Timeout; the process is not killed, so a
// caller that retries must be prepared for the original job to still land
// its result later. A non-zero exit code is reported, not returned as an
// error.
func (job *Job) Wait(timeout time.Duration) (int, error) {
	if timeout <= 0 {
		<-job.done
		return job.exitCode, nil
	}

	select {
	case <-job.done:
		return job.exitCode, nil
	case <-job.clock.After(timeout):
		return ExitUnknown, errors.Timeout{Op: job.argv[0], After: timeout}
	}
}

// Drain returns the job's captured stdout and stderr. It may be called at
// most once, and only after the job has completed.
func (job *Job) Drain() (stdout, stderr []byte, err error) {
	select {
	case <-job.done:
	default:
		return nil, nil, errors.New("job still running")
	}

	if job.drained {
		return nil, nil, errors.New("job output already drained")
	}
	job.drained = true
	return job.stdout.Bytes(), job.stderr.Bytes(), nil
}
