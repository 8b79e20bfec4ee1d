package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/kennygrant/sanitize"
)

// artifactName matches the sequential artifacts produced by a Writer,
// capturing the save index.
var artifactName = regexp.MustCompile(`^page_(\d+)\.txt$`)

// DefaultDir returns the conventional output directory for a target
// host, for example "nepali_corpus_www-example-com-np" for the host
// www.example.com.np.
func DefaultDir(host string) string {
	return "nepali_corpus_" + sanitize.BaseName(host)
}

// Writer saves page text under one directory as page_1.txt,
// page_2.txt, and so on in save order.
//
// Design decision: on open the writer scans the directory and resumes
// numbering after the highest artifact already present instead of
// trusting a restored counter. A resumed crawl never overwrites pages
// saved by an earlier run, even when the checkpoint and the directory
// have drifted apart.
type Writer struct {
	dir  string
	next int
}

// NewWriter opens the output directory, creating it if absent, and
// positions the sequence after the highest page_N.txt found there.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan output directory: %w", err)
	}
	highest := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := artifactName.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= highest {
			continue
		}
		highest = n
	}

	return &Writer{dir: dir, next: highest + 1}, nil
}

// Dir returns the output directory.
func (w *Writer) Dir() string {
	return w.dir
}

// Save writes text as the next sequential artifact and returns the
// artifact name. The sequence advances only when the write succeeds.
func (w *Writer) Save(text string) (string, error) {
	name := fmt.Sprintf("page_%d.txt", w.next)
	if err := os.WriteFile(filepath.Join(w.dir, name), []byte(text), 0640); err != nil {
		return "", fmt.Errorf("save %s: %w", name, err)
	}
	w.next++
	return name, nil
}
