package cli

import (
	"context"
	"fmt"
	"sync"
	"text/tabwriter"

	"github.com/dmitrijs2005/safedocs/internal/client/models"
	"github.com/dmitrijs2005/safedocs/internal/client/upload"
)

var progressMu sync.Mutex

// Add inspects and queues files. Files that fail validation are reported
// and never reach the network.
func (a *App) Add(_ context.Context, paths []string) error {
	var cands []upload.Candidate
	for _, p := range paths {
		c, err := upload.Inspect(p)
		if err != nil {
			printlnFn("Skipped:", err)
			continue
		}
		cands = append(cands, c)
	}

	added, rejected := a.queue.Add(cands...)
	for _, r := range rejected {
		printlnFn("Rejected:", r.Err)
	}
	for _, t := range added {
		printlnFn(fmt.Sprintf("Queued %s  %s  %s  %s", shortID(t.ID), t.Name, t.Metadata.Size, t.Metadata.Type))
	}
	return nil
}

// Upload queues the given files, then uploads every pending task in order.
func (a *App) Upload(ctx context.Context, paths []string) error {
	if len(paths) > 0 {
		_ = a.Add(ctx, paths)
	}

	if len(a.queue.Pending()) == 0 {
		printlnFn("Nothing to upload.")
		return nil
	}

	sum, err := a.uploader.Run(ctx, a.queue)
	printlnFn(fmt.Sprintf("Uploaded %d file(s), %d failed.", sum.Completed, sum.Failed))
	if err != nil {
		return err
	}

	if sum.Completed > 0 {
		_ = a.dashboard.Refresh(ctx)
	}
	return nil
}

func (a *App) Queue(_ context.Context) error {
	tasks := a.queue.Tasks()
	if len(tasks) == 0 {
		printlnFn("The upload queue is empty.")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TASK\tNAME\tSIZE\tMODIFIED\tSTATUS\tPROGRESS\tERROR")
	for _, t := range tasks {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d%%\t%s\n",
			shortID(t.ID), t.Name, t.Metadata.Size, t.Metadata.LastModified, t.Status, t.Progress, t.ErrorMessage)
	}
	return w.Flush()
}

// Remove drops a pending task. The id may be abbreviated as shown by queue.
func (a *App) Remove(_ context.Context, id string) error {
	full := id
	for _, t := range a.queue.Tasks() {
		if shortID(t.ID) == id {
			full = t.ID
			break
		}
	}

	if err := a.queue.Remove(full); err != nil {
		printlnFn("Error:", err)
		return err
	}
	printlnFn("Removed.")
	return nil
}

func (a *App) printProgress(t models.UploadTask) {
	progressMu.Lock()
	defer progressMu.Unlock()

	switch t.Status {
	case models.UploadError:
		printlnFn(fmt.Sprintf("  %s  %-5s %s: %s", shortID(t.ID), "fail", t.Name, t.ErrorMessage))
	default:
		printlnFn(fmt.Sprintf("  %s  %3d%%  %s", shortID(t.ID), t.Progress, t.Name))
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
