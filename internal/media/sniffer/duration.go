package sniffer

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

var (
	ErrNoDuration       = errors.New("duration not found")
	ErrMalformedBoxTree = errors.New("malformed iso-bmff box tree")
)

// MP4Duration reads the presentation duration in seconds from the movie
// header (moov/mvhd) of an MP4 or QuickTime file.
func MP4Duration(r io.ReadSeeker) (float64, error) {
	end, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, fmt.Errorf("seek end: %w", err)
	}

	moovStart, moovEnd, err := findBox(r, 0, end, "moov")
	if err != nil {
		return 0, err
	}
	mvhdStart, mvhdEnd, err := findBox(r, moovStart, moovEnd, "mvhd")
	if err != nil {
		return 0, err
	}

	if _, err := r.Seek(mvhdStart, io.SeekStart); err != nil {
		return 0, fmt.Errorf("seek mvhd: %w", err)
	}
	payload := make([]byte, min(mvhdEnd-mvhdStart, 32))
	if _, err := io.ReadFull(r, payload); err != nil {
		return 0, fmt.Errorf("read mvhd: %w", err)
	}

	if len(payload) == 0 {
		return 0, fmt.Errorf("%w: empty mvhd", ErrMalformedBoxTree)
	}

	var timescale uint32
	var duration uint64
	switch payload[0] {
	case 0:
		if len(payload) < 20 {
			return 0, ErrMalformedBoxTree
		}
		timescale = binary.BigEndian.Uint32(payload[12:16])
		duration = uint64(binary.BigEndian.Uint32(payload[16:20]))
	case 1:
		if len(payload) < 32 {
			return 0, ErrMalformedBoxTree
		}
		timescale = binary.BigEndian.Uint32(payload[20:24])
		duration = binary.BigEndian.Uint64(payload[24:32])
	default:
		return 0, fmt.Errorf("%w: mvhd version %d", ErrMalformedBoxTree, payload[0])
	}

	if timescale == 0 {
		return 0, ErrNoDuration
	}
	return float64(duration) / float64(timescale), nil
}

// findBox scans the sibling boxes in [start, end) and returns the payload
// range of the first box of the given type.
func findBox(r io.ReadSeeker, start, end int64, boxType string) (int64, int64, error) {
	header := make([]byte, 16)
	offset := start

	for offset+8 <= end {
		if _, err := r.Seek(offset, io.SeekStart); err != nil {
			return 0, 0, fmt.Errorf("seek box: %w", err)
		}
		if _, err := io.ReadFull(r, header[:8]); err != nil {
			return 0, 0, fmt.Errorf("read box header: %w", err)
		}

		size := int64(binary.BigEndian.Uint32(header[:4]))
		typ := string(header[4:8])
		headerLen := int64(8)

		switch size {
		case 0:
			size = end - offset
		case 1:
			if _, err := io.ReadFull(r, header[8:16]); err != nil {
				return 0, 0, fmt.Errorf("read large size: %w", err)
			}
			size = int64(binary.BigEndian.Uint64(header[8:16]))
			headerLen = 16
		}

		if size < headerLen || offset+size > end {
			return 0, 0, ErrMalformedBoxTree
		}
		if typ == boxType {
			return offset + headerLen, offset + size, nil
		}
		offset += size
	}

	return 0, 0, ErrNoDuration
}
