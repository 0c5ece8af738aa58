package entropy

import (
	"errors"
	"fmt"
	"io"
)

type readerSource struct {
	r io.Reader
}

// FromReader adapts an io.Reader. Each Fetch is exactly one Read call; an
// io.EOF (or io.ErrUnexpectedEOF) with partial data is a short read, any other
// error means the source is unreachable.
func FromReader(r io.Reader) Source {
	return &readerSource{r: r}
}

func (s *readerSource) Fetch(p []byte) (int, error) {
	if s.r == nil {
		return 0, ErrNoEntropySource
	}
	n, err := s.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return n, fmt.Errorf("%w: %w", ErrNoEntropySource, err)
	}
	return n, nil
}
