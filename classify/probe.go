package classify

import (
	"io"
	"os"
	"unicode/utf8"
)

// probeSize is the number of leading bytes read to test text-decodability.
const probeSize = 1024

// Prober tests whether a file's leading bytes decode as text. Abstracted
// so the walker can be exercised without a real filesystem.
type Prober interface {
	// ProbeText returns nil if the file's leading bytes decode as text,
	// or an error for binary content, a missing file, or any I/O failure.
	ProbeText(path string) error
}

// FileProber probes files on the local filesystem.
type FileProber struct{}

// ProbeText reads the first kilobyte of the file and checks that it is
// valid UTF-8 with no NUL bytes. This is the sole signal for "is this
// text"; there is no further content sniffing.
func (FileProber) ProbeText(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	buf := make([]byte, probeSize)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return err
	}

	if !isText(buf[:n]) {
		return errNotText
	}
	return nil
}

type probeError string

func (e probeError) Error() string { return string(e) }

const errNotText = probeError("content does not decode as text")

// isText reports whether data looks like UTF-8 text. A multi-byte rune
// truncated by the probe boundary is tolerated; NUL bytes and invalid
// sequences are not.
func isText(data []byte) bool {
	for i := 0; i < len(data); {
		if data[i] == 0 {
			return false
		}
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			// Allow a rune cut off at the end of the probe window.
			if len(data)-i < utf8.UTFMax && utf8.RuneStart(data[i]) {
				return true
			}
			return false
		}
		i += size
	}
	return true
}
