package staticcompress

import (
	"errors"
	"io/fs"
	"strings"
	"time"
)

// ModTime returns the modification time of name. When originals are
// removed after compression, the time is read from whichever file now
// stands for name (see AlternateName).
func (s *Store) ModTime(name string) (time.Time, error) {
	return s.timeOf(name, s.caps.modTime)
}

// AccessTime returns the access time of name, resolved like ModTime
func (s *Store) AccessTime(name string) (time.Time, error) {
	return s.timeOf(name, s.caps.accessTime)
}

// CreateTime returns the creation time of name, resolved like ModTime
func (s *Store) CreateTime(name string) (time.Time, error) {
	return s.timeOf(name, s.caps.createTime)
}

func (s *Store) timeOf(name string, get func(string) (time.Time, error)) (time.Time, error) {
	if s.config.KeepOriginal {
		return get(name)
	}
	target, err := s.metadataTarget(name)
	if err != nil {
		return time.Time{}, err
	}
	return get(target)
}

// metadataTarget picks the physical file that answers time queries for
// name: the first existing artifact, else name itself for files that
// were never compressed.
func (s *Store) metadataTarget(name string) (string, error) {
	alt, err := s.AlternateName(name)
	if err == nil {
		return alt, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}

	exists, existsErr := s.caps.exists(name)
	if existsErr != nil {
		return "", existsErr
	}
	if exists {
		return name, nil
	}
	return "", err
}

// AlternateName returns the first existing artifact for name, trying
// compressors in order. A name that already carries a compressor's
// extension is its own candidate for that compressor.
func (s *Store) AlternateName(name string) (string, error) {
	for _, c := range s.compressors {
		candidate := name
		if !strings.HasSuffix(name, "."+c.Extension()) {
			candidate = ArtifactName(name, c.Extension())
		}
		exists, err := s.caps.exists(candidate)
		if err != nil {
			return "", err
		}
		if exists {
			return candidate, nil
		}
	}
	return "", &fs.PathError{Op: "lookup", Path: name, Err: fs.ErrNotExist}
}
