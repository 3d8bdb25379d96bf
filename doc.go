// Package staticcompress precompresses published static files so a
// front-end server can hand out .gz or .br siblings instead of
// compressing on every request.
//
// A Store wraps the storage files are published to. After each publish
// run, PostProcess walks the just-published records and, per file and
// per configured method, decides whether an artifact is needed, still
// fresh, or stale:
//
//   - files with an extension outside Config.Extensions are left alone
//   - files smaller than Config.MinSizeKB lose any artifacts left from
//     earlier runs and get no new ones
//   - an artifact whose modification time (in whole seconds) is not
//     older than its source is kept as is
//   - absent or stale artifacts are deleted and written again
//   - with KeepOriginal off, the source is removed once its artifacts
//     are written
//
// Running PostProcess twice over unchanged files writes nothing the
// second time.
//
// # Quick Start
//
//	base := staticcompress.NewDirStorage("/srv/static")
//
//	store, err := staticcompress.New(base, &staticcompress.Config{
//	    Extensions:   []string{"js", "css", "svg"},
//	    Methods:      []string{"gz", "br"},
//	    KeepOriginal: true,
//	    MinSizeKB:    1,
//	})
//	if err != nil {
//	    log.Fatal(err) // bad method list, nothing touched yet
//	}
//
//	records := []staticcompress.Record{{Name: "app.js", Path: "app.js"}}
//	for res, err := range store.PostProcess(records, false) {
//	    if err != nil {
//	        log.Print(err)
//	        continue
//	    }
//	    fmt.Println(res.Source, "->", res.Artifact)
//	}
//
// # Methods
//
//   - gz:      gzip at maximum compression (klauspost/compress)
//   - gz+zlib: gzip from the standard library; excludes gz
//   - br:      Brotli level 11 (andybalholm/brotli)
//   - zst:     Zstandard (klauspost/compress/zstd)
//   - lz4:     LZ4 frames (pierrec/lz4)
//   - sz:      framed Snappy (golang/snappy)
//
// # Storage
//
// A Storage only has to open, save and delete files. Existence, size and
// time queries are taken from the optional Exister, Sizer, ModTimer,
// AccessTimer and CreateTimer interfaces when implemented, otherwise
// from the local file system through Pather. NewDirStorage and
// NewAferoStorage cover afero file systems, NewFilerStorage any absfs
// file system, and NewMemFS is an in-memory absfs file system.
package staticcompress
