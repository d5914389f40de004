package offline

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const entryExt = ".entry"

var errCorruptEntry = errors.New("offline: corrupt entry")

// DirStore is a Store keeping one file per entry in a directory.
// Files are written to a temporary name and renamed, so readers never see
// a partially written entry.
type DirStore struct {
	dir string
}

type entryMeta struct {
	Method string      `json:"method"`
	URL    string      `json:"url"`
	Status int         `json:"status"`
	Header http.Header `json:"header"`
	Stored time.Time   `json:"stored"`
	Size   int         `json:"size"`
	SHA256 string      `json:"sha256"`
}

func NewDirStore(dir string) (*DirStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DirStore{dir: dir}, nil
}

func (s *DirStore) Dir() string {
	return s.dir
}

func (s *DirStore) path(k Key) string {
	h := sha256.Sum256([]byte(k.String()))
	return filepath.Join(s.dir, hex.EncodeToString(h[:])+entryExt)
}

func (s *DirStore) Match(_ context.Context, k Key) (*Entry, bool, error) {
	f, err := os.Open(s.path(k))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return nil, false, err
	}

	e, err := readEntry(f, fi.Size())
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", k, err)
	}
	if e.Key != k {
		// hash collision
		return nil, false, nil
	}
	return e, true, nil
}

func (s *DirStore) Put(_ context.Context, e *Entry) error {
	tmp, err := s.writeTemp(e)
	if err != nil {
		return err
	}
	if err := os.Rename(tmp, s.path(e.Key)); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

func (s *DirStore) PutAll(ctx context.Context, ee []*Entry) error {
	tmps := make([]string, 0, len(ee))
	cleanup := func() {
		for _, tmp := range tmps {
			os.Remove(tmp)
		}
	}
	for _, e := range ee {
		if err := ctx.Err(); err != nil {
			cleanup()
			return err
		}
		tmp, err := s.writeTemp(e)
		if err != nil {
			cleanup()
			return err
		}
		tmps = append(tmps, tmp)
	}
	for i, e := range ee {
		if err := os.Rename(tmps[i], s.path(e.Key)); err != nil {
			cleanup()
			return err
		}
	}
	return nil
}

func (s *DirStore) writeTemp(e *Entry) (string, error) {
	if e == nil {
		return "", errNilEntry
	}
	f, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return "", err
	}
	if err := writeEntry(f, e); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

// writeEntry writes a JSON metadata line followed by the raw body.
func writeEntry(w io.Writer, e *Entry) error {
	sum := sha256.Sum256(e.Body)
	meta, err := json.Marshal(&entryMeta{
		Method: e.Key.Method,
		URL:    e.Key.URL,
		Status: e.Status,
		Header: e.Header,
		Stored: e.Stored,
		Size:   len(e.Body),
		SHA256: hex.EncodeToString(sum[:]),
	})
	if err != nil {
		return err
	}
	if _, err := w.Write(append(meta, '\n')); err != nil {
		return err
	}
	_, err = w.Write(e.Body)
	return err
}

// readEntry reads an entry file of the given size.
func readEntry(r io.Reader, size int64) (*Entry, error) {
	br := bufio.NewReader(r)
	line, err := br.ReadBytes('\n')
	if err != nil {
		return nil, errCorruptEntry
	}
	var meta entryMeta
	if err := json.Unmarshal(bytes.TrimSpace(line), &meta); err != nil {
		return nil, errCorruptEntry
	}
	if meta.Size < 0 || int64(meta.Size) > size-int64(len(line)) {
		return nil, errCorruptEntry
	}
	body := make([]byte, meta.Size)
	if _, err := io.ReadFull(br, body); err != nil {
		return nil, errCorruptEntry
	}
	if n, _ := br.Read(make([]byte, 1)); n != 0 {
		return nil, errCorruptEntry
	}
	sum := sha256.Sum256(body)
	if hex.EncodeToString(sum[:]) != meta.SHA256 {
		return nil, errCorruptEntry
	}
	return &Entry{
		Key:    Key{Method: meta.Method, URL: meta.URL},
		Status: meta.Status,
		Header: meta.Header,
		Body:   body,
		Stored: meta.Stored,
	}, nil
}
