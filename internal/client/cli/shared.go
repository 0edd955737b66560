package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/safedocs/internal/client/models"
	"github.com/dmitrijs2005/safedocs/internal/common"
)

// Open shows what a share link points to. No session is needed.
func (a *App) Open(ctx context.Context, arg string) error {
	doc, err := a.viewer.Resolve(ctx, tokenFromArg(arg))
	if err != nil {
		printlnFn("Error:", err)
		return err
	}

	printlnFn("Shared document")
	if doc.Document != nil {
		printlnFn(fmt.Sprintf("  Name: %s", doc.Document.OriginalName))
		printlnFn(fmt.Sprintf("  Type: %s", models.FileTypeLabel(doc.Document.FileType)))
		printlnFn(fmt.Sprintf("  Size: %s", models.FormatSize(doc.Document.FileSize)))
	}
	printlnFn("Use 'download", arg+"' to save it.")
	return nil
}

// Download resolves a share link and saves the file into dir.
func (a *App) Download(ctx context.Context, arg, dir string) error {
	doc, err := a.viewer.Resolve(ctx, tokenFromArg(arg))
	if err != nil {
		printlnFn("Error:", err)
		return err
	}

	path, err := a.viewer.Download(ctx, doc, dir)
	if err != nil {
		printlnFn("Download failed:", err)
		return err
	}
	printlnFn("Saved to", path)
	return nil
}

// tokenFromArg accepts a bare token or a full share URL.
func tokenFromArg(arg string) string {
	if i := strings.LastIndex(arg, common.SharePathPrefix); i >= 0 {
		arg = arg[i+len(common.SharePathPrefix):]
	}
	arg, _, _ = strings.Cut(arg, "?")
	return strings.Trim(arg, "/ ")
}
