package sniffer

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"
)

type MediaType string

const (
	TypeJPEG MediaType = "jpeg"
	TypePNG  MediaType = "png"
	TypeGIF  MediaType = "gif"
	TypeWEBP MediaType = "webp"
	TypeAVIF MediaType = "avif"
	TypeSVG  MediaType = "svg"
	TypeMP4  MediaType = "mp4"
	TypeMOV  MediaType = "mov"
	TypeWEBM MediaType = "webm"
	TypeMKV  MediaType = "mkv"
)

type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

var ErrUnknownType = errors.New("unknown media type")

type Result struct {
	Type MediaType
	MIME string
	Kind Kind
}

// Ext is the file extension used for stored objects of this type.
func (r Result) Ext() string {
	if r.Type == TypeJPEG {
		return "jpg"
	}
	return string(r.Type)
}

func Detect(r io.Reader) (Result, []byte, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return Result{}, nil, err
	}
	head = head[:n]

	result, err := DetectHead(head)
	return result, head, err
}

func DetectHead(head []byte) (Result, error) {
	if len(head) == 0 {
		return Result{}, ErrUnknownType
	}

	switch {
	case isJPEG(head):
		return Result{Type: TypeJPEG, MIME: "image/jpeg", Kind: KindImage}, nil
	case isPNG(head):
		return Result{Type: TypePNG, MIME: "image/png", Kind: KindImage}, nil
	case isGIF(head):
		return Result{Type: TypeGIF, MIME: "image/gif", Kind: KindImage}, nil
	case isWEBP(head):
		return Result{Type: TypeWEBP, MIME: "image/webp", Kind: KindImage}, nil
	case isAVIF(head):
		return Result{Type: TypeAVIF, MIME: "image/avif", Kind: KindImage}, nil
	case isQuickTime(head):
		return Result{Type: TypeMOV, MIME: "video/quicktime", Kind: KindVideo}, nil
	case isMP4(head):
		return Result{Type: TypeMP4, MIME: "video/mp4", Kind: KindVideo}, nil
	case isEBML(head):
		if bytes.Contains(head, []byte("webm")) {
			return Result{Type: TypeWEBM, MIME: "video/webm", Kind: KindVideo}, nil
		}
		return Result{Type: TypeMKV, MIME: "video/x-matroska", Kind: KindVideo}, nil
	case isSVG(head):
		return Result{Type: TypeSVG, MIME: "image/svg+xml", Kind: KindImage}, nil
	}

	return Result{}, ErrUnknownType
}

// KindFromExt infers the resource kind from a file name or URL suffix.
func KindFromExt(name string) Kind {
	name = strings.ToLower(name)
	if idx := strings.IndexAny(name, "?#"); idx >= 0 {
		name = name[:idx]
	}
	for _, ext := range []string{".mp4", ".mov", ".webm", ".mkv"} {
		if strings.HasSuffix(name, ext) {
			return KindVideo
		}
	}
	return KindImage
}

func isJPEG(head []byte) bool {
	return len(head) > 3 &&
		head[0] == 0xff &&
		head[1] == 0xd8 &&
		head[2] == 0xff
}

func isPNG(head []byte) bool {
	pngMagic := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	return len(head) >= len(pngMagic) && bytes.Equal(head[:len(pngMagic)], pngMagic)
}

func isGIF(head []byte) bool {
	return len(head) >= 6 && (bytes.Equal(head[:6], []byte("GIF87a")) || bytes.Equal(head[:6], []byte("GIF89a")))
}

func isWEBP(head []byte) bool {
	return len(head) >= 12 &&
		bytes.Equal(head[:4], []byte("RIFF")) &&
		bytes.Equal(head[8:12], []byte("WEBP"))
}

func isFtyp(head []byte) bool {
	return len(head) >= 12 && string(head[4:8]) == "ftyp"
}

func isAVIF(head []byte) bool {
	return isFtyp(head) && bytes.Contains(head[8:], []byte("avif"))
}

func isQuickTime(head []byte) bool {
	return isFtyp(head) && string(head[8:12]) == "qt  "
}

func isMP4(head []byte) bool {
	return isFtyp(head)
}

func isEBML(head []byte) bool {
	return len(head) >= 4 && bytes.Equal(head[:4], []byte{0x1a, 0x45, 0xdf, 0xa3})
}

func isSVG(head []byte) bool {
	trimmed := strings.TrimSpace(string(head))
	return strings.HasPrefix(trimmed, "<svg") || strings.HasPrefix(trimmed, "<?xml")
}

func MimeTypeFromHTTP(header http.Header) string {
	contentType := header.Get("Content-Type")
	if contentType == "" {
		return ""
	}
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		return strings.TrimSpace(contentType[:idx])
	}
	return strings.TrimSpace(contentType)
}
