package client

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// WatchEvent is one observation delivered by a RunWatcher: a status
// transition, a batch of fresh logs, or graph progress. Graph is the full
// current snapshot, replaced wholesale on every event.
type WatchEvent struct {
	Run   *Run
	Logs  []LogEntry
	Graph *Graph
}

// WatchOptions configure a RunWatcher.
type WatchOptions struct {
	// Interval between polls. Defaults to 2 seconds.
	Interval time.Duration
}

// RunWatcher polls one run until it reaches a terminal status, delivering
// status changes and incremental log batches. Logs already delivered are
// not repeated; delivery order follows the event timestamps.
type RunWatcher struct {
	client *Client
	runID  uuid.UUID
	opts   WatchOptions

	lastStatus string
	lastSeen   time.Time
	lastNodes  int
	lastEdges  int
}

// NewRunWatcher builds a watcher for one run.
func (c *Client) NewRunWatcher(runID uuid.UUID, opts WatchOptions) *RunWatcher {
	if opts.Interval <= 0 {
		opts.Interval = 2 * time.Second
	}
	return &RunWatcher{client: c, runID: runID, opts: opts}
}

// Watch polls until the run is terminal or ctx is done. Events stream to
// the returned channel; it closes when watching ends. The error channel
// receives at most one value.
func (w *RunWatcher) Watch(ctx context.Context) (<-chan WatchEvent, <-chan error) {
	events := make(chan WatchEvent)
	errc := make(chan error, 1)

	go func() {
		defer close(events)
		defer close(errc)

		ticker := time.NewTicker(w.opts.Interval)
		defer ticker.Stop()

		for {
			done, err := w.poll(ctx, events)
			if err != nil {
				errc <- err
				return
			}
			if done {
				return
			}
			select {
			case <-ctx.Done():
				errc <- ctx.Err()
				return
			case <-ticker.C:
			}
		}
	}()

	return events, errc
}

// poll performs one observation cycle. It reports done once the run is
// terminal, after delivering the final state.
func (w *RunWatcher) poll(ctx context.Context, events chan<- WatchEvent) (bool, error) {
	run, err := w.client.GetRun(ctx, w.runID)
	if err != nil {
		return false, err
	}

	logs, err := w.client.RunLogs(ctx, w.runID)
	if err != nil {
		return false, err
	}
	fresh := w.freshLogs(logs)

	graph, err := w.client.RunGraph(ctx, w.runID)
	if err != nil {
		return false, err
	}
	graphGrew := len(graph.Nodes) != w.lastNodes || len(graph.Edges) != w.lastEdges
	w.lastNodes, w.lastEdges = len(graph.Nodes), len(graph.Edges)

	statusChanged := run.Status != w.lastStatus
	w.lastStatus = run.Status

	if statusChanged || len(fresh) > 0 || graphGrew {
		select {
		case events <- WatchEvent{Run: run, Logs: fresh, Graph: graph}:
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}
	return run.Terminal(), nil
}

// freshLogs filters out entries at or before the last delivered event
// timestamp. Entries arrive in ascending event order.
func (w *RunWatcher) freshLogs(logs []LogEntry) []LogEntry {
	var fresh []LogEntry
	for _, entry := range logs {
		if entry.Timestamp.After(w.lastSeen) {
			fresh = append(fresh, entry)
			w.lastSeen = entry.Timestamp
		}
	}
	return fresh
}
