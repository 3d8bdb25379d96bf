package staticcompress

import (
	"bytes"
	"errors"
	"io"
	"iter"
	"time"
)

// Record is one just-published file
type Record struct {
	// Name is the logical (served) name, checked against the eligible
	// extensions.
	Name string

	// Origin is the pre-publish storage the file was copied from. A nil
	// Origin means the file was published in place and the store's own
	// modification times are used.
	Origin ModTimer

	// Path is the file's name within Origin. The destination is Path,
	// or its alias when a hashing stage renamed it.
	Path string
}

// Result reports one artifact written for a source file
type Result struct {
	Source     string
	Artifact   string
	Method     string
	Compressed bool
}

// PostProcessor is a pipeline stage run over just-published files
type PostProcessor interface {
	PostProcess(records []Record, dryRun bool) iter.Seq2[Result, error]
}

// PostProcess compresses the eligible files among records and yields a
// Result per artifact written. Results of an upstream stage are
// forwarded first. A dry run touches nothing and yields only upstream
// results.
//
// Results for a record are yielded once all of its writes, including
// removal of the original, are done; stopping iteration leaves every
// finished record consistent and skips the rest. A failure confined to
// one record is yielded as a *RecordError and the run goes on; a
// configuration error is yielded last and ends the run.
func (s *Store) PostProcess(records []Record, dryRun bool) iter.Seq2[Result, error] {
	return func(yield func(Result, error) bool) {
		if s.upstream != nil {
			for r, err := range s.upstream.PostProcess(records, dryRun) {
				if !yield(r, err) {
					return
				}
			}
		}
		if dryRun {
			return
		}

		for _, rec := range records {
			results, err := s.processRecord(rec)
			for _, r := range results {
				if !yield(r, nil) {
					return
				}
			}
			if err == nil {
				continue
			}

			s.stats.recordsFailed.Add(1)
			if errors.Is(err, ErrImproperlyConfigured) {
				yield(Result{Source: rec.Name}, err)
				return
			}
			s.logger.Warn("post-processing failed", "name", rec.Name, "error", err)
			if !yield(Result{Source: rec.Name}, err) {
				return
			}
		}
	}
}

// job is an artifact that must be (re)generated
type job struct {
	compressor Compressor
	artifact   string
}

func (s *Store) processRecord(rec Record) ([]Result, error) {
	s.stats.recordsSeen.Add(1)

	if !s.allowed.allows(rec.Name) {
		s.stats.recordsIneligible.Add(1)
		return nil, nil
	}

	dest := s.destination(rec.Path)
	size, err := s.caps.size(dest)
	if err != nil {
		return nil, recordError(dest, "size", err)
	}

	if size < s.config.MinSizeBytes() {
		// A shrunk file keeps no artifacts from earlier runs, otherwise a
		// front-end server would keep serving them.
		s.stats.recordsBelowThreshold.Add(1)
		for _, c := range s.compressors {
			if err := s.purge(ArtifactName(dest, c.Extension())); err != nil {
				return nil, recordError(dest, "delete", err)
			}
		}
		return nil, nil
	}

	srcTime, err := s.sourceModTime(rec, dest)
	if err != nil {
		return nil, recordError(dest, "modtime", err)
	}

	jobs, err := s.pendingJobs(dest, srcTime)
	if err != nil {
		return nil, recordError(dest, "stat", err)
	}
	if len(jobs) == 0 {
		return nil, nil
	}

	results, err := s.runJobs(dest, size, jobs)
	if err != nil {
		return results, err
	}
	if len(results) > 0 && !s.config.KeepOriginal {
		err = s.removeOriginal(dest)
	}
	return results, err
}

func (s *Store) destination(name string) string {
	if s.aliases != nil {
		if alias, ok := s.aliases.Alias(name); ok {
			return alias
		}
	}
	return name
}

// sourceModTime reads the pre-publish time from Origin, or from the
// published destination when the record was published in place.
func (s *Store) sourceModTime(rec Record, dest string) (time.Time, error) {
	if rec.Origin == nil {
		return s.caps.modTime(dest)
	}
	return rec.Origin.ModTime(rec.Path)
}

func (s *Store) pendingJobs(dest string, srcTime time.Time) ([]job, error) {
	var jobs []job
	for _, c := range s.compressors {
		artifact := ArtifactName(dest, c.Extension())
		exists, err := s.caps.exists(artifact)
		if err != nil {
			return nil, err
		}

		var artTime time.Time
		var readErr error
		if exists {
			artTime, readErr = s.caps.modTime(artifact)
			if errors.Is(readErr, ErrImproperlyConfigured) {
				return nil, readErr
			}
		}

		if Classify(srcTime, exists, artTime, readErr) == Fresh {
			s.stats.artifactsFresh.Add(1)
			continue
		}
		jobs = append(jobs, job{compressor: c, artifact: artifact})
	}
	return jobs, nil
}

// runJobs opens dest once and feeds it to every pending compressor,
// rewinding before each one.
func (s *Store) runJobs(dest string, size int64, jobs []job) ([]Result, error) {
	f, err := s.base.Open(dest)
	if err != nil {
		return nil, recordError(dest, "open", err)
	}
	defer f.Close()

	var results []Result
	for _, j := range jobs {
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return results, recordError(dest, "seek", err)
		}

		// The old artifact goes before the new one is written, so no
		// outdated bytes sit next to the newer source.
		if err := s.purge(j.artifact); err != nil {
			return results, recordError(j.artifact, "delete", err)
		}

		out, err := j.compressor.Compress(f)
		s.stats.bytesRead.Add(size)
		if err != nil {
			return results, recordError(dest, "compress", err)
		}
		if len(out) == 0 {
			continue
		}

		saved, err := s.base.Save(j.artifact, bytes.NewReader(out))
		if err != nil {
			return results, recordError(j.artifact, "save", err)
		}
		if saved == "" {
			saved = j.artifact
		}

		s.stats.artifactsWritten.Add(1)
		s.stats.bytesWritten.Add(int64(len(out)))
		s.stats.incrementMethod(j.compressor.Method())
		s.logger.Debug("artifact written",
			"source", dest,
			"artifact", saved,
			"method", j.compressor.Method(),
			"size", len(out))

		results = append(results, Result{
			Source:     dest,
			Artifact:   saved,
			Method:     j.compressor.Method(),
			Compressed: true,
		})
	}
	return results, nil
}

// purge deletes artifact if it exists
func (s *Store) purge(artifact string) error {
	exists, err := s.caps.exists(artifact)
	if err != nil || !exists {
		return err
	}
	if err := s.Delete(artifact); err != nil {
		return err
	}
	s.stats.artifactsDeleted.Add(1)
	s.logger.Debug("artifact deleted", "artifact", artifact)
	return nil
}

// removeOriginal deletes dest once all of its artifacts are written
func (s *Store) removeOriginal(dest string) error {
	if err := s.Delete(dest); err != nil {
		return recordError(dest, "delete", err)
	}
	s.stats.originalsDeleted.Add(1)
	s.logger.Debug("original deleted", "name", dest)
	return nil
}
