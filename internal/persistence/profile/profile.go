package profile

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"

	"randoexport/internal/export"
)

const Version = 1

// Header is the first line of a profile file; readers can inspect it without
// decoding the body.
type Header struct {
	Version    int       `json:"version"`
	ID         string    `json:"id"`
	Seed       int64     `json:"seed"`
	CreatedAt  time.Time `json:"created_at"`
	Placements int       `json:"placements"`
}

// Write stores p as zstd-compressed JSON: a header line, then the profile.
func Write(path string, p *export.Profile) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}

	bw := bufio.NewWriterSize(enc, 256*1024)
	hb, _ := json.Marshal(Header{
		Version:    Version,
		ID:         p.ID,
		Seed:       p.Seed,
		CreatedAt:  p.CreatedAt,
		Placements: len(p.Placements),
	})
	if _, err := bw.Write(hb); err != nil {
		_ = enc.Close()
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		_ = enc.Close()
		return err
	}
	if err := json.NewEncoder(bw).Encode(p); err != nil {
		_ = enc.Close()
		return fmt.Errorf("json encode: %w", err)
	}
	if err := bw.Flush(); err != nil {
		_ = enc.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return f.Sync()
}

func Read(path string) (Header, *export.Profile, error) {
	var h Header
	f, err := os.Open(path)
	if err != nil {
		return h, nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return h, nil, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 256*1024)
	line, err := br.ReadBytes('\n')
	if err != nil {
		return h, nil, fmt.Errorf("read header: %w", err)
	}
	if err := json.Unmarshal(line, &h); err != nil {
		return h, nil, fmt.Errorf("decode header: %w", err)
	}
	if h.Version != Version {
		return h, nil, fmt.Errorf("unsupported profile version %d", h.Version)
	}

	var p export.Profile
	if err := json.NewDecoder(br).Decode(&p); err != nil {
		return h, nil, fmt.Errorf("json decode: %w", err)
	}
	return h, &p, nil
}
