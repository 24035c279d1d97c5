package runner

import (
	"sync"

	"github.com/redhatinsights/uwsgiconf/internal/envs"
	"github.com/redhatinsights/uwsgiconf/pkg/core"
)

// EntryPoint runs the server in-process with command line arguments.
type EntryPoint func(args []string) error

var (
	entryMu    sync.Mutex
	entryPoint EntryPoint
)

// RegisterEntryPoint sets the in-process server entry point used by
// embedded spawns.
func RegisterEntryPoint(ep EntryPoint) {
	entryMu.Lock()
	defer entryMu.Unlock()
	entryPoint = ep
}

func stub([]string) error {
	return core.RuntimeErrorf("server entry point is not available; is the process running inside the server?")
}

func runEmbedded(args []string) error {
	entryMu.Lock()
	ep := entryPoint
	entryMu.Unlock()

	if ep == nil || envs.StubForced() {
		ep = stub
	}
	return ep(args)
}
