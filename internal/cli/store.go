package cli

import (
	"io/fs"
	"log/slog"
	"maps"
	"slices"

	"github.com/absfs/staticcompress"
)

// openStore builds the store over the configured root, wired to the
// hashing manifest when one is configured.
func (a *app) openStore(logger *slog.Logger) (*staticcompress.Store, *staticcompress.AferoStorage, *staticcompress.Manifest, error) {
	st := staticcompress.NewDirStorage(a.cfg.Root)
	opts := []staticcompress.Option{staticcompress.WithLogger(logger)}

	var manifest *staticcompress.Manifest
	if a.cfg.Manifest != "" {
		m, err := staticcompress.LoadManifest(st, a.cfg.Manifest)
		if err != nil {
			return nil, nil, nil, err
		}
		manifest = m
		opts = append(opts, staticcompress.WithAliaser(m))
	}

	store, err := staticcompress.New(st, a.cfg.Policy(), opts...)
	if err != nil {
		return nil, nil, nil, err
	}
	return store, st, manifest, nil
}

// publishRecords lists the files of one run: the manifest's logical
// names whose hashed copy is still under the root when there is a
// manifest, else every file under the root.
func (a *app) publishRecords(st *staticcompress.AferoStorage, manifest *staticcompress.Manifest) ([]staticcompress.Record, error) {
	var origin staticcompress.ModTimer
	if a.cfg.Source != "" {
		origin = staticcompress.NewDirStorage(a.cfg.Source)
	}

	var names []string
	if manifest != nil {
		for _, name := range slices.Sorted(maps.Keys(manifest.Paths)) {
			ok, err := st.Exists(manifest.Paths[name])
			if err != nil {
				return nil, err
			}
			if ok {
				names = append(names, name)
			}
		}
	} else {
		err := st.Walk(func(name string, _ fs.FileInfo) error {
			names = append(names, name)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	records := make([]staticcompress.Record, len(names))
	for i, name := range names {
		records[i] = staticcompress.Record{Name: name, Origin: origin, Path: name}
	}
	return records, nil
}
