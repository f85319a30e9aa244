package scanner

import "os"

// WithReadDir replaces the directory lister, for failures file modes
// cannot produce when tests run as root.
func (s *FileScanner) WithReadDir(readDir func(string) ([]os.DirEntry, error)) *FileScanner {
	s.readDir = readDir
	return s
}
