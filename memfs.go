package staticcompress

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/absfs/absfs"
)

// normalizePath cleans name and strips leading slashes so absolute and
// relative spellings address the same entry.
func normalizePath(name string) string {
	name = path.Clean(strings.ReplaceAll(name, "\\", "/"))
	name = strings.TrimLeft(name, "/")
	if name == "" {
		return "."
	}
	return name
}

// MemFS is an in-memory absfs file system. It keeps modification times
// settable through Chtimes, which makes it the test bed for staleness
// decisions.
type MemFS struct {
	mu    sync.RWMutex
	files map[string]*memNode
	dirs  map[string]time.Time
}

type memNode struct {
	data    []byte
	mode    fs.FileMode
	modTime time.Time
}

// NewMemFS creates an empty in-memory file system
func NewMemFS() *MemFS {
	return &MemFS{
		files: make(map[string]*memNode),
		dirs:  map[string]time.Time{".": time.Now()},
	}
}

// WriteFile replaces the content of name, creating it if needed
func (m *MemFS) WriteFile(name string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[normalizePath(name)] = &memNode{
		data:    append([]byte(nil), data...),
		mode:    0644,
		modTime: time.Now(),
	}
}

func (m *MemFS) Open(name string) (absfs.File, error) {
	return m.OpenFile(name, os.O_RDONLY, 0)
}

func (m *MemFS) Create(name string) (absfs.File, error) {
	return m.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0666)
}

func (m *MemFS) OpenFile(name string, flag int, perm fs.FileMode) (absfs.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	name = normalizePath(name)
	if _, ok := m.dirs[name]; ok {
		return &memFile{fs: m, name: name, dir: true}, nil
	}

	node, exists := m.files[name]
	switch {
	case !exists && flag&os.O_CREATE == 0:
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	case exists && flag&os.O_CREATE != 0 && flag&os.O_EXCL != 0:
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrExist}
	case !exists:
		node = &memNode{mode: perm, modTime: time.Now()}
		m.files[name] = node
	}

	if flag&os.O_TRUNC != 0 && flag&(os.O_WRONLY|os.O_RDWR) != 0 {
		node.data = nil
		node.modTime = time.Now()
	}

	f := &memFile{fs: m, name: name, node: node, flag: flag}
	if flag&os.O_APPEND != 0 {
		f.pos = int64(len(node.data))
	}
	return f, nil
}

func (m *MemFS) Mkdir(name string, perm fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	name = normalizePath(name)
	if _, ok := m.dirs[name]; ok {
		return &fs.PathError{Op: "mkdir", Path: name, Err: fs.ErrExist}
	}
	if _, ok := m.files[name]; ok {
		return &fs.PathError{Op: "mkdir", Path: name, Err: fs.ErrExist}
	}
	m.dirs[name] = time.Now()
	return nil
}

func (m *MemFS) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	name = normalizePath(name)
	if _, ok := m.files[name]; ok {
		delete(m.files, name)
		return nil
	}
	if _, ok := m.dirs[name]; ok && name != "." {
		delete(m.dirs, name)
		return nil
	}
	return &fs.PathError{Op: "remove", Path: name, Err: fs.ErrNotExist}
}

func (m *MemFS) Rename(oldpath, newpath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	oldpath = normalizePath(oldpath)
	newpath = normalizePath(newpath)
	node, ok := m.files[oldpath]
	if !ok {
		return &fs.PathError{Op: "rename", Path: oldpath, Err: fs.ErrNotExist}
	}
	m.files[newpath] = node
	delete(m.files, oldpath)
	return nil
}

func (m *MemFS) Stat(name string) (fs.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stat(normalizePath(name))
}

func (m *MemFS) stat(name string) (fs.FileInfo, error) {
	if node, ok := m.files[name]; ok {
		return &memFileInfo{
			name:    path.Base(name),
			size:    int64(len(node.data)),
			mode:    node.mode,
			modTime: node.modTime,
		}, nil
	}
	if modTime, ok := m.dirs[name]; ok {
		return &memFileInfo{name: path.Base(name), mode: fs.ModeDir | 0755, modTime: modTime}, nil
	}
	return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
}

func (m *MemFS) Chmod(name string, mode fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	node, ok := m.files[normalizePath(name)]
	if !ok {
		return &fs.PathError{Op: "chmod", Path: name, Err: fs.ErrNotExist}
	}
	node.mode = mode
	return nil
}

// Chtimes sets the modification time; access times are not tracked
func (m *MemFS) Chtimes(name string, atime time.Time, mtime time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	node, ok := m.files[normalizePath(name)]
	if !ok {
		return &fs.PathError{Op: "chtimes", Path: name, Err: fs.ErrNotExist}
	}
	node.modTime = mtime
	return nil
}

func (m *MemFS) Chown(name string, uid, gid int) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, err := m.stat(normalizePath(name)); err != nil {
		return &fs.PathError{Op: "chown", Path: name, Err: fs.ErrNotExist}
	}
	return nil
}

// ReadDir lists the entries directly under name, sorted by name
func (m *MemFS) ReadDir(name string) ([]fs.DirEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.readDir(normalizePath(name))
}

func (m *MemFS) readDir(dir string) ([]fs.DirEntry, error) {
	if _, ok := m.dirs[dir]; !ok {
		return nil, &fs.PathError{Op: "readdir", Path: dir, Err: fs.ErrNotExist}
	}

	var entries []fs.DirEntry
	add := func(p string) {
		if p != dir && path.Dir(p) == dir {
			info, _ := m.stat(p)
			entries = append(entries, fs.FileInfoToDirEntry(info))
		}
	}
	for p := range m.files {
		add(p)
	}
	for p := range m.dirs {
		add(p)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})
	return entries, nil
}

func (m *MemFS) ReadFile(name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	node, ok := m.files[normalizePath(name)]
	if !ok {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrNotExist}
	}
	return append([]byte(nil), node.data...), nil
}

// Sub returns an io/fs view of the subtree rooted at dir
func (m *MemFS) Sub(dir string) (fs.FS, error) {
	return fs.Sub(memIOFS{m}, dir)
}

type memIOFS struct{ m *MemFS }

func (f memIOFS) Open(name string) (fs.File, error) {
	file, err := f.m.Open(name)
	if err != nil {
		return nil, err
	}
	return file, nil
}

// memFile is an open handle with its own offset over a shared node
type memFile struct {
	fs     *MemFS
	name   string
	node   *memNode
	dir    bool
	flag   int
	pos    int64
	closed bool
}

func (f *memFile) Name() string { return f.name }

func (f *memFile) Read(p []byte) (int, error) {
	n, err := f.ReadAt(p, f.pos)
	f.pos += int64(n)
	if err == io.EOF && n > 0 {
		err = nil
	}
	return n, err
}

func (f *memFile) ReadAt(b []byte, off int64) (int, error) {
	if err := f.check(); err != nil {
		return 0, err
	}
	if off < 0 {
		return 0, errors.New("negative offset")
	}

	f.fs.mu.RLock()
	defer f.fs.mu.RUnlock()
	if off >= int64(len(f.node.data)) {
		return 0, io.EOF
	}
	n := copy(b, f.node.data[off:])
	if n < len(b) {
		return n, io.EOF
	}
	return n, nil
}

func (f *memFile) Write(p []byte) (int, error) {
	n, err := f.WriteAt(p, f.pos)
	f.pos += int64(n)
	return n, err
}

func (f *memFile) WriteAt(b []byte, off int64) (int, error) {
	if err := f.check(); err != nil {
		return 0, err
	}
	if f.flag&(os.O_WRONLY|os.O_RDWR) == 0 {
		return 0, &fs.PathError{Op: "write", Path: f.name, Err: fs.ErrPermission}
	}
	if off < 0 {
		return 0, errors.New("negative offset")
	}

	f.fs.mu.Lock()
	defer f.fs.mu.Unlock()
	if end := off + int64(len(b)); end > int64(len(f.node.data)) {
		grown := make([]byte, end)
		copy(grown, f.node.data)
		f.node.data = grown
	}
	n := copy(f.node.data[off:], b)
	f.node.modTime = time.Now()
	return n, nil
}

func (f *memFile) WriteString(s string) (int, error) {
	return f.Write([]byte(s))
}

func (f *memFile) Seek(offset int64, whence int) (int64, error) {
	if err := f.check(); err != nil {
		return 0, err
	}

	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = f.pos + offset
	case io.SeekEnd:
		f.fs.mu.RLock()
		pos = int64(len(f.node.data)) + offset
		f.fs.mu.RUnlock()
	default:
		return 0, errors.New("invalid whence")
	}
	if pos < 0 {
		return 0, errors.New("negative position")
	}
	f.pos = pos
	return pos, nil
}

func (f *memFile) Truncate(size int64) error {
	if err := f.check(); err != nil {
		return err
	}

	f.fs.mu.Lock()
	defer f.fs.mu.Unlock()
	if size < int64(len(f.node.data)) {
		f.node.data = f.node.data[:size]
	} else {
		grown := make([]byte, size)
		copy(grown, f.node.data)
		f.node.data = grown
	}
	f.node.modTime = time.Now()
	return nil
}

func (f *memFile) Stat() (fs.FileInfo, error) {
	f.fs.mu.RLock()
	defer f.fs.mu.RUnlock()
	return f.fs.stat(f.name)
}

func (f *memFile) Sync() error { return nil }

func (f *memFile) Close() error {
	f.closed = true
	return nil
}

func (f *memFile) Readdir(n int) ([]os.FileInfo, error) {
	entries, err := f.ReadDir(n)
	if err != nil {
		return nil, err
	}
	infos := make([]os.FileInfo, 0, len(entries))
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func (f *memFile) Readdirnames(n int) ([]string, error) {
	entries, err := f.ReadDir(n)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return names, nil
}

func (f *memFile) ReadDir(n int) ([]fs.DirEntry, error) {
	if !f.dir {
		return nil, os.ErrInvalid
	}

	f.fs.mu.RLock()
	entries, err := f.fs.readDir(f.name)
	f.fs.mu.RUnlock()
	if err != nil {
		return nil, err
	}
	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries, nil
}

func (f *memFile) check() error {
	if f.closed {
		return fs.ErrClosed
	}
	if f.dir {
		return &fs.PathError{Op: "read", Path: f.name, Err: os.ErrInvalid}
	}
	return nil
}

type memFileInfo struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
}

func (fi *memFileInfo) Name() string       { return fi.name }
func (fi *memFileInfo) Size() int64        { return fi.size }
func (fi *memFileInfo) Mode() fs.FileMode  { return fi.mode }
func (fi *memFileInfo) ModTime() time.Time { return fi.modTime }
func (fi *memFileInfo) IsDir() bool        { return fi.mode.IsDir() }
func (fi *memFileInfo) Sys() interface{}   { return nil }
