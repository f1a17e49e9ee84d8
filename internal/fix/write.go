package fix

import (
	"fmt"
	"os"

	"pyrewrite/internal/source"
)

// WriteFile replaces f on disk with content. The content is re-encoded the
// way the file was read (coding cookie, BOM, CRLF) and the file mode is kept.
func WriteFile(f *source.File, content []byte) error {
	if f == nil {
		return fmt.Errorf("fix: nil file")
	}
	if f.Flags&source.FileVirtual != 0 {
		return fmt.Errorf("fix: %s is virtual", f.Path)
	}
	raw, err := f.Encode(content)
	if err != nil {
		return fmt.Errorf("encode %s: %w", f.Path, err)
	}

	mode := os.FileMode(0o644)
	if info, err := os.Stat(f.Path); err == nil {
		mode = info.Mode()
	}
	if err := os.WriteFile(f.Path, raw, mode); err != nil {
		return fmt.Errorf("write %s: %w", f.Path, err)
	}
	return nil
}
