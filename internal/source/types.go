package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
	// FileFlags records how the on-disk bytes were normalized on load.
	FileFlags uint8
)

const (
	// FileVirtual indicates the file was added from memory (test, stdin, etc.).
	FileVirtual FileFlags = 1 << iota // не с диска
	FileHadBOM
	FileNormalizedCRLF
	// FileDecoded means Content was transcoded to UTF-8 from File.Encoding.
	FileDecoded
)

// File captures metadata and content for a single Python source file.
// Content is always UTF-8 with LF line endings.
type File struct {
	ID       FileID
	Path     string
	Content  []byte
	LineIdx  []uint32
	Hash     [32]byte
	Flags    FileFlags
	Encoding string // from the coding cookie, "utf-8" when absent
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 0-based byte offset, the way Python reports col_offset
}
