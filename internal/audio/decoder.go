package audio

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/wav"
	playerrors "github.com/jscyril/playlist_manager/pkg/errors"
	"github.com/samber/lo"
)

const (
	extMP3  = ".mp3"
	extWAV  = ".wav"
	extFLAC = ".flac"
)

// SupportedFormats returns list of supported audio formats
func SupportedFormats() []string {
	return []string{extMP3, extWAV, extFLAC}
}

// IsSupported checks if a file format is supported
func IsSupported(filePath string) bool {
	return lo.Contains(SupportedFormats(), strings.ToLower(filepath.Ext(filePath)))
}

// detectFormat returns the container extension for r. Known extensions are trusted;
// anything else is sniffed from the header. r is rewound before returning.
func detectFormat(r io.ReadSeeker, filePath string) (string, error) {
	if IsSupported(filePath) {
		return strings.ToLower(filepath.Ext(filePath)), nil
	}

	_, fileType, err := tag.Identify(r)
	if _, serr := r.Seek(0, io.SeekStart); serr != nil {
		return "", fmt.Errorf("rewind: %w", serr)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %s", playerrors.ErrInvalidFormat, filepath.Base(filePath))
	}

	switch fileType {
	case tag.MP3:
		return extMP3, nil
	case tag.FLAC:
		return extFLAC, nil
	default:
		return "", fmt.Errorf("%w: %s", playerrors.ErrInvalidFormat, fileType)
	}
}

// DecodeAudio decodes an audio file based on its extension or header
func DecodeAudio(r io.ReadSeekCloser, filePath string) (beep.StreamSeekCloser, beep.Format, error) {
	ext, err := detectFormat(r, filePath)
	if err != nil {
		return nil, beep.Format{}, err
	}

	switch ext {
	case extMP3:
		return mp3.Decode(r)
	case extWAV:
		return wav.Decode(r)
	case extFLAC:
		return flac.Decode(r)
	default:
		return nil, beep.Format{}, fmt.Errorf("%w: %s", playerrors.ErrInvalidFormat, ext)
	}
}
