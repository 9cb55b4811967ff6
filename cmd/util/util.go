package util

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/BiAPoL/biapol-taurus/pkg/config"
	"github.com/BiAPoL/biapol-taurus/pkg/errors"
	"github.com/BiAPoL/biapol-taurus/pkg/stage"
)

// defaultWorkspaceName is the cache workspace used by CLI invocations
// when the config doesn't pin one. CLI processes are short-lived, so they
// share a persistent workspace instead of allocating and releasing one
// per command -- the workspace expiry reclaims it eventually.
const defaultWorkspaceName = "taurus-cache"

// HandleFatalError prints err in the most helpful form available and
// exits.
func HandleFatalError(err error) {
	log.WithError(err).Debug("Fatal error")
	fmt.Fprintln(os.Stderr, errors.GetPrintableMessage(err))
	os.Exit(1)
}

// HandlePanic turns panics into a bug-report request instead of a bare
// stack trace. Meant to be deferred from main.
func HandlePanic() {
	if r := recover(); r != nil {
		fmt.Fprintf(os.Stderr,
			"The CLI crashed. This is a bug -- please report it, including "+
				"the trace below.\n\n%v\n%s", r, debug.Stack())
		os.Exit(1)
	}
}

// NewStager builds a Stager from the user's configuration.
func NewStager(project config.Project) (*stage.Stager, error) {
	workspaceName := project.WorkspaceName
	if workspaceName == "" {
		workspaceName = defaultWorkspaceName
	}

	return stage.New(stage.Config{
		FileserverDir: project.Fileserver,
		ProjectDir:    project.ProjectSpace,
		DatamoverDir:  project.DatamoverBin,
		WorkspaceDir:  project.WorkspaceBin,
		WorkspaceName: workspaceName,
		ExpireInDays:  project.CacheExpireDays,
		Timeout:       project.Timeout(),
	})
}

// ProgressPrinter writes a message followed by a dot every second until
// stopped, so long-running transfer jobs don't look hung.
type ProgressPrinter struct {
	out     io.Writer
	msg     string
	stop    chan struct{}
	stopped chan struct{}
}

// NewProgressPrinter creates a ProgressPrinter that writes to out.
func NewProgressPrinter(out io.Writer, msg string) *ProgressPrinter {
	return &ProgressPrinter{
		out:     out,
		msg:     msg,
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Run prints until Stop is called. Meant to be run in a goroutine.
func (pp *ProgressPrinter) Run() {
	defer close(pp.stopped)
	fmt.Fprint(pp.out, pp.msg)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			fmt.Fprint(pp.out, ".")
		case <-pp.stop:
			fmt.Fprintln(pp.out)
			return
		}
	}
}

// Stop terminates the printer and waits for its final newline.
func (pp *ProgressPrinter) Stop() {
	close(pp.stop)
	<-pp.stopped
}
