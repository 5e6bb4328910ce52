package segment

import (
	"log/slog"

	"github.com/ppichler/issuedoc/content"
)

// DistributeUnlinked assigns every extracted image that no issue already
// references to the finalized issues in round-robin order: the i-th
// unlinked image goes to issues[i mod len(issues)]. Callers must run
// segmentation first; with zero issues this is a no-op.
func DistributeUnlinked(images []content.Image, issues []Finalized) {
	if len(issues) == 0 || len(images) == 0 {
		return
	}

	linked := make(map[string]bool)
	for i := range issues {
		for _, img := range issues[i].Images {
			linked[img.Filename] = true
		}
	}

	n := 0
	for _, img := range images {
		if linked[img.Filename] {
			continue
		}
		idx := n % len(issues)
		issues[idx].Images = append(issues[idx].Images, img)
		slog.Debug("segment: distributed unlinked image", "filename", img.Filename, "issue_index", idx)
		n++
	}
	if n > 0 {
		slog.Info("segment: distributed unlinked images", "count", n, "issues", len(issues))
	}
}
