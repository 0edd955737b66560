package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/safedocs/internal/client/models"
	"github.com/dmitrijs2005/safedocs/internal/client/services"
)

const dateLayout = "2006-01-02 15:04"

// List prints the documents. Without a query the list is fetched again;
// with one the current list is filtered by name.
func (a *App) List(ctx context.Context, query string) error {
	if query == "" || a.dashboard.FetchedAt().IsZero() {
		if err := a.Refresh(ctx); err != nil {
			return err
		}
	}

	docs := a.dashboard.Search(query)
	if len(docs) == 0 {
		if query != "" {
			printlnFn("No documents match your search.")
		} else {
			printlnFn("No documents yet. Use 'upload <path>' to add one.")
		}
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTYPE\tSIZE\tUPLOADED")
	for _, d := range docs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			d.ID, d.OriginalName, models.FileTypeLabel(d.FileType),
			models.FormatSize(d.FileSize), d.UploadDate.Local().Format(dateLayout))
	}
	return w.Flush()
}

func (a *App) Stats(ctx context.Context) error {
	if a.dashboard.FetchedAt().IsZero() {
		if err := a.Refresh(ctx); err != nil {
			return err
		}
	}

	s := a.dashboard.Stats()
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Documents:\t%d\n", s.TotalDocuments)
	fmt.Fprintf(w, "Storage used:\t%s\n", s.TotalStorage)
	fmt.Fprintf(w, "Uploaded in the last %d days:\t%d\n", models.RecentDays, s.RecentUploads)
	fmt.Fprintf(w, "Updated:\t%s\n", a.dashboard.FetchedAt().Local().Format(time.TimeOnly))
	return w.Flush()
}

func (a *App) Refresh(ctx context.Context) error {
	if err := a.dashboard.Refresh(ctx); err != nil {
		printlnFn("Could not load documents:", userMessage(err))
		return err
	}
	return nil
}

// Delete removes a document after a y/N confirmation.
func (a *App) Delete(ctx context.Context, arg string) error {
	id, err := parseID(arg)
	if err != nil {
		return err
	}

	name := fmt.Sprintf("document %d", id)
	if doc, ok := a.dashboard.Find(id); ok {
		name = fmt.Sprintf("%q", doc.OriginalName)
	}

	ask := func() bool {
		ok, err := confirm(a.reader, fmt.Sprintf("Delete %s? This cannot be undone.", name), a.out)
		return err == nil && ok
	}

	deleted, err := a.dashboard.Delete(ctx, id, ask)
	if err != nil {
		printlnFn("Error:", userMessage(err))
		return err
	}
	if deleted {
		printlnFn("Deleted.")
	}
	return nil
}

// Share generates a fresh link for a document and offers to copy it.
func (a *App) Share(ctx context.Context, arg string) error {
	id, err := parseID(arg)
	if err != nil {
		return err
	}

	doc, ok := a.dashboard.Find(id)
	if !ok {
		if err := a.Refresh(ctx); err != nil {
			return err
		}
		if doc, ok = a.dashboard.Find(id); !ok {
			printlnFn("No document with id", id)
			return fmt.Errorf("document %d not found", id)
		}
	}

	a.share.Open(doc)
	defer a.share.Close()

	link, err := a.share.Generate(ctx)
	if err != nil {
		printlnFn("Error:", userMessage(a.share.Err()))
		return err
	}

	url, _ := a.share.URL()
	status, days, _ := a.share.Status()

	printlnFn(fmt.Sprintf("Share link for %q:", doc.OriginalName))
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  URL:\t%s\n", url)
	fmt.Fprintf(w, "  Status:\t%s\n", status)
	fmt.Fprintf(w, "  Expires:\t%s (%d days left)\n", link.ExpiresAt.Local().Format(dateLayout), days)
	fmt.Fprintf(w, "  Accesses:\t%d\n", link.AccessCount)
	fmt.Fprintf(w, "  Created:\t%s\n", link.CreatedAt.Local().Format(dateLayout))
	_ = w.Flush()

	yes, err := confirm(a.reader, "Copy link to clipboard?", a.out)
	if err != nil || !yes {
		return nil
	}
	if err := a.share.Copy(ctx); err != nil {
		printlnFn("Error:", err)
		return err
	}
	if a.share.Copied() {
		printlnFn("Copied!")
	}
	return nil
}

// Get saves one of the user's documents into dir through a fresh share link.
func (a *App) Get(ctx context.Context, arg, dir string) error {
	id, err := parseID(arg)
	if err != nil {
		return err
	}

	path, err := a.viewer.Fetch(ctx, id, dir)
	if err != nil {
		if errors.Is(err, services.ErrDownloadLink) {
			printlnFn("Error:", services.ErrDownloadLink)
		} else {
			printlnFn("Download failed:", err)
		}
		return err
	}
	printlnFn("Saved to", path)
	return nil
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		printlnFn("Invalid document id:", arg)
		return 0, fmt.Errorf("invalid document id %q", arg)
	}
	return id, nil
}
