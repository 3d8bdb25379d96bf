package staticcompress

import (
	"errors"
	"io"
	"io/fs"
	"time"
)

// Storage is the destination backend published files live in
type Storage interface {
	Open(name string) (io.ReadSeekCloser, error)
	// Save stores the contents of r under name and returns the name
	// actually used.
	Save(name string, r io.Reader) (string, error)
	Delete(name string) error
}

// Optional capabilities. When a storage lacks one, the Store resolves
// the name with Pather and queries the file system directly; without
// Pather the query fails with a ConfigError.
type (
	Exister interface {
		Exists(name string) (bool, error)
	}
	Sizer interface {
		Size(name string) (int64, error)
	}
	ModTimer interface {
		ModTime(name string) (time.Time, error)
	}
	AccessTimer interface {
		AccessTime(name string) (time.Time, error)
	}
	CreateTimer interface {
		CreateTime(name string) (time.Time, error)
	}
	// Pather maps a storage name to a local file system path. Storages
	// that are not file system backed return ErrNotSupported.
	Pather interface {
		Path(name string) (string, error)
	}
)

// capabilities holds the query functions chosen for a storage when the
// Store is built.
type capabilities struct {
	exists     func(name string) (bool, error)
	size       func(name string) (int64, error)
	modTime    func(name string) (time.Time, error)
	accessTime func(name string) (time.Time, error)
	createTime func(name string) (time.Time, error)
}

func probe(base Storage) capabilities {
	pather, _ := base.(Pather)

	c := capabilities{
		exists:     viaPath(pather, "Exists", rawExists),
		size:       viaPath(pather, "Size", rawSize),
		modTime:    viaPath(pather, "ModTime", rawModTime),
		accessTime: viaPath(pather, "AccessTime", rawAccessTime),
		createTime: viaPath(pather, "CreateTime", rawCreateTime),
	}
	if e, ok := base.(Exister); ok {
		c.exists = e.Exists
	}
	if sz, ok := base.(Sizer); ok {
		c.size = sz.Size
	}
	if mt, ok := base.(ModTimer); ok {
		c.modTime = mt.ModTime
	}
	if at, ok := base.(AccessTimer); ok {
		c.accessTime = at.AccessTime
	}
	if ct, ok := base.(CreateTimer); ok {
		c.createTime = ct.CreateTime
	}
	return c
}

func viaPath[T any](pather Pather, capability string, raw func(path string) (T, error)) func(string) (T, error) {
	return func(name string) (T, error) {
		var zero T
		if pather == nil {
			return zero, missingCapability(capability, name)
		}
		p, err := pather.Path(name)
		if errors.Is(err, ErrNotSupported) {
			return zero, missingCapability(capability, name)
		}
		if err != nil {
			return zero, err
		}
		return raw(p)
	}
}

// Open opens a file of the underlying storage
func (s *Store) Open(name string) (io.ReadSeekCloser, error) {
	return s.base.Open(name)
}

// Save stores a file in the underlying storage
func (s *Store) Save(name string, r io.Reader) (string, error) {
	return s.base.Save(name, r)
}

// Delete removes name. Deleting a file that does not exist succeeds.
func (s *Store) Delete(name string) error {
	err := s.base.Delete(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Exists reports whether name exists in the underlying storage
func (s *Store) Exists(name string) (bool, error) {
	return s.caps.exists(name)
}

// Size returns the size of name in the underlying storage
func (s *Store) Size(name string) (int64, error) {
	return s.caps.size(name)
}
