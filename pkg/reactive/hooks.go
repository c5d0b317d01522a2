package reactive

import "github.com/Tajigaqzh/vue-core/pkg/scheduler"

// Hooks are the seams between the core and its host. The defaults target
// the process-wide scheduler queue; a host embedding the runtime replaces
// them to route jobs into its own flush cycle.
var (
	// QueueJob receives pre-flush watcher jobs.
	QueueJob = func(j *scheduler.Job) {
		scheduler.Enqueue(j)
	}

	// QueuePost receives post-flush watcher jobs.
	QueuePost = func(j *scheduler.Job) {
		scheduler.EnqueuePost(j)
	}

	// OwnerID identifies the instance owning newly created watchers; pre
	// jobs of the same owner flush in creation order. The default owner is
	// the current scope.
	OwnerID = func() uint64 {
		if s := CurrentScope(); s != nil {
			return s.ID()
		}
		return 0
	}
)
