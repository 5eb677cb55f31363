package sim

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

const recordingVersion = 1

// Snapshot is the state digest taken when a step starts.
type Snapshot struct {
	Turn   int
	Step   string
	Digest string
}

// Recording is the sequence of step digests of one run, enough to check
// that a rerun with the same seed and decks plays out identically.
type Recording struct {
	Seed      uint64
	Turns     int
	Players   []string
	Snapshots []Snapshot
}

type recordingHeader struct {
	Version   int
	Timestamp time.Time
	Snapshots int
}

// Save writes the recording gzipped and gob encoded.
func (r *Recording) Save(w io.Writer) error {
	zw := gzip.NewWriter(w)
	enc := gob.NewEncoder(zw)

	header := recordingHeader{
		Version:   recordingVersion,
		Timestamp: time.Now().UTC(),
		Snapshots: len(r.Snapshots),
	}
	if err := enc.Encode(&header); err != nil {
		return fmt.Errorf("encode recording header: %w", err)
	}
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode recording: %w", err)
	}
	return zw.Close()
}

// SaveFile writes the recording to path, creating parent directories.
func (r *Recording) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create recording directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create recording: %w", err)
	}
	if err := r.Save(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadRecording reads a recording written by Save.
func LoadRecording(rd io.Reader) (*Recording, error) {
	zr, err := gzip.NewReader(rd)
	if err != nil {
		return nil, fmt.Errorf("open recording: %w", err)
	}
	defer zr.Close()
	dec := gob.NewDecoder(zr)

	var header recordingHeader
	if err := dec.Decode(&header); err != nil {
		return nil, fmt.Errorf("decode recording header: %w", err)
	}
	if header.Version != recordingVersion {
		return nil, fmt.Errorf("unsupported recording version %d", header.Version)
	}
	var rec Recording
	if err := dec.Decode(&rec); err != nil {
		return nil, fmt.Errorf("decode recording: %w", err)
	}
	if len(rec.Snapshots) != header.Snapshots {
		return nil, fmt.Errorf("recording holds %d snapshots, header says %d", len(rec.Snapshots), header.Snapshots)
	}
	return &rec, nil
}

// LoadRecordingFile reads the recording at path.
func LoadRecordingFile(path string) (*Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open recording: %w", err)
	}
	defer f.Close()
	return LoadRecording(f)
}

// Divergence is the first step at which two recordings differ.
type Divergence struct {
	Index    int
	Want     Snapshot
	Got      Snapshot
	Truncate bool
}

func (d *Divergence) Error() string {
	if d.Truncate {
		return fmt.Sprintf("recordings differ in length at step %d (turn %d %s)", d.Index, d.Want.Turn, d.Want.Step)
	}
	return fmt.Sprintf("step %d (turn %d %s): digest %s, want %s",
		d.Index, d.Got.Turn, d.Got.Step, d.Got.Digest, d.Want.Digest)
}

// Compare returns a *Divergence when got doesn't replay r step for step,
// nil otherwise.
func (r *Recording) Compare(got *Recording) error {
	n := min(len(r.Snapshots), len(got.Snapshots))
	for i := 0; i < n; i++ {
		if r.Snapshots[i] != got.Snapshots[i] {
			return &Divergence{Index: i, Want: r.Snapshots[i], Got: got.Snapshots[i]}
		}
	}
	if len(r.Snapshots) != len(got.Snapshots) {
		d := &Divergence{Index: n, Truncate: true}
		if n < len(r.Snapshots) {
			d.Want = r.Snapshots[n]
		} else {
			d.Want = got.Snapshots[n]
		}
		return d
	}
	return nil
}
