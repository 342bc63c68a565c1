package render

import (
	"os"
	"strings"

	"underlog/internal/infra/logging"
)

// pageMarker is the literal token whose occurrence on a line starts a new
// page. Matches the opening tag of an embedded page element.
const pageMarker = "<svg"

// splitPages persists the raw source verbatim into the workspace and
// partitions it into numbered per-page files, one per marker occurrence.
// Lines preceding the first marker belong to no page and are discarded.
// Page N contains its own marker line and every line up to, not including,
// page N+1's marker line. Returns the number of pages written.
func splitPages(ws *workspace, svg string) (int, error) {
	if err := os.WriteFile(ws.path(sourceFileName), []byte(svg), 0o644); err != nil {
		return 0, err
	}

	var (
		count int
		page  strings.Builder
	)
	flush := func() error {
		if count == 0 {
			return nil
		}
		return os.WriteFile(ws.path(pageFileName(count, ".svg")), []byte(page.String()), 0o644)
	}

	for _, line := range strings.Split(svg, "\n") {
		if strings.Contains(line, pageMarker) {
			if err := flush(); err != nil {
				return count, err
			}
			count++
			page.Reset()
		}
		if count > 0 {
			page.WriteString(line)
			page.WriteByte('\n')
		}
	}
	if err := flush(); err != nil {
		return count, err
	}

	logging.Debug("Source split into pages", "pages", count)
	return count, nil
}
