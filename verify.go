package staticcompress

import (
	"errors"
	"fmt"
	"io"

	"github.com/zeebo/blake3"
)

// Verify checks that every existing artifact of dest decompresses to the
// current content of dest. Mismatching artifacts are reported as
// *RecordError wrapping ErrArtifactMismatch; missing artifacts are fine.
func (s *Store) Verify(dest string) error {
	want, err := s.digest(dest, "")
	if err != nil {
		return recordError(dest, "verify", err)
	}

	var errs []error
	for _, c := range s.compressors {
		artifact := ArtifactName(dest, c.Extension())
		exists, err := s.caps.exists(artifact)
		if err != nil {
			errs = append(errs, recordError(artifact, "verify", err))
			continue
		}
		if !exists {
			continue
		}

		got, err := s.digest(artifact, c.Extension())
		if err != nil {
			errs = append(errs, recordError(artifact, "verify", fmt.Errorf("%w: %v", ErrArtifactMismatch, err)))
			continue
		}
		if got != want {
			errs = append(errs, &RecordError{Name: artifact, Op: "verify", Err: ErrArtifactMismatch})
		}
	}
	return errors.Join(errs...)
}

// digest hashes the content of name, decompressing it first when ext is
// set.
func (s *Store) digest(name, ext string) ([32]byte, error) {
	var sum [32]byte

	f, err := s.base.Open(name)
	if err != nil {
		return sum, err
	}
	defer f.Close()

	var r io.Reader = f
	if ext != "" {
		d, err := Decompress(ext, f)
		if err != nil {
			return sum, err
		}
		defer d.Close()
		r = d
	}

	h := blake3.New()
	if _, err := io.Copy(h, r); err != nil {
		return sum, err
	}
	copy(sum[:], h.Sum(nil))
	return sum, nil
}
