package render

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

const (
	sourceFileName = "underlog.svg"
	outputFileName = "underlog.pdf"
	pagePrefix     = "input_"
)

// pageFileName returns the per-page file name for index n, e.g. input_3.svg.
// Indices start at 1.
func pageFileName(n int, ext string) string {
	return fmt.Sprintf("%s%d%s", pagePrefix, n, ext)
}

// pageIndex parses the page index out of a page file name. Returns -1 for
// names that do not match the page pattern.
func pageIndex(name string) int {
	base := filepath.Base(name)
	rest, ok := strings.CutPrefix(base, pagePrefix)
	if !ok {
		return -1
	}
	rest = strings.TrimSuffix(rest, filepath.Ext(rest))
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 {
		return -1
	}
	return n
}

// listPages returns the workspace's page files with the given extension in
// ascending numeric page order. A lexicographic sort would put page 10
// between 1 and 2, so ordering is always by the parsed index.
func listPages(ws *workspace, ext string) ([]string, error) {
	matches, err := filepath.Glob(ws.path(pagePrefix + "*" + ext))
	if err != nil {
		return nil, err
	}
	pages := matches[:0]
	for _, m := range matches {
		if pageIndex(m) > 0 {
			pages = append(pages, m)
		}
	}
	sort.Slice(pages, func(i, j int) bool {
		return pageIndex(pages[i]) < pageIndex(pages[j])
	})
	return pages, nil
}
