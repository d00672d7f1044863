// Package textenc turns raw bytes of unknown encoding into text.
//
// The charset is guessed statistically. When the guess fails, or names a
// charset that cannot be decoded, the bytes are read as UTF-8 and every byte
// that is not part of a valid sequence is written as a \xNN escape, so
// decoding never fails.
package textenc

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode/utf32"
)

// Fallback is the charset used when detection does not produce a usable guess.
const Fallback = "UTF-8"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Detector guesses the charset of b. An empty name with a nil error means
// there is no guess.
type Detector interface {
	Detect(b []byte) (string, error)
}

// DetectorFunc adapts a function to Detector.
type DetectorFunc func(b []byte) (string, error)

func (f DetectorFunc) Detect(b []byte) (string, error) { return f(b) }

type chardetDetector struct{}

// NewDetector returns the statistical detector backed by chardet.
func NewDetector() Detector { return chardetDetector{} }

func (chardetDetector) Detect(b []byte) (string, error) {
	if len(b) == 0 {
		return "", nil
	}
	res, err := chardet.NewTextDetector().DetectBest(b)
	if err != nil {
		return "", err
	}
	return res.Charset, nil
}

// Decoded is the outcome of decoding a byte slice.
type Decoded struct {
	Text string
	// Charset is the charset that produced Text.
	Charset string
	// Detected is false when Text was produced by the fallback.
	Detected bool
}

type Decoder struct {
	detector Detector
}

func NewDecoder(d Detector) *Decoder {
	if d == nil {
		d = NewDetector()
	}
	return &Decoder{detector: d}
}

var std = NewDecoder(nil)

// Decode decodes b with the default detector.
func Decode(b []byte) Decoded { return std.Decode(b) }

func (d *Decoder) Decode(b []byte) Decoded {
	name, err := d.detector.Detect(b)
	if err != nil || name == "" {
		return fallback(b)
	}
	text, err := DecodeAs(name, b)
	if err != nil {
		return fallback(b)
	}
	return Decoded{Text: text, Charset: name, Detected: true}
}

func fallback(b []byte) Decoded {
	return Decoded{Text: EscapeInvalid(b), Charset: Fallback}
}

// DecodeAs decodes b as the named charset.
func DecodeAs(name string, b []byte) (string, error) {
	if isUTF8(name) {
		return EscapeInvalid(bytes.TrimPrefix(b, utf8BOM)), nil
	}
	enc, err := lookup(name)
	if err != nil {
		return "", err
	}
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("decode as %s: %w", name, err)
	}
	return string(out), nil
}

func isUTF8(name string) bool {
	switch strings.ToLower(name) {
	case "utf-8", "utf8", "utf-8-sig":
		return true
	}
	return false
}

// aliases covers chardet names that neither index knows.
var aliases = map[string]encoding.Encoding{
	"gb-18030": simplifiedchinese.GB18030,
	"utf-32be": utf32.UTF32(utf32.BigEndian, utf32.UseBOM),
	"utf-32le": utf32.UTF32(utf32.LittleEndian, utf32.UseBOM),
}

func lookup(name string) (encoding.Encoding, error) {
	if enc, ok := aliases[strings.ToLower(name)]; ok {
		return enc, nil
	}
	if enc, err := htmlindex.Get(name); err == nil {
		return enc, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("unknown charset %q: %w", name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported charset %q", name)
	}
	return enc, nil
}

// EscapeInvalid reads b as UTF-8 and replaces every byte that does not
// belong to a valid sequence with a \xNN escape.
func EscapeInvalid(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	var sb strings.Builder
	sb.Grow(len(b) + 8)
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r == utf8.RuneError && size == 1 {
			fmt.Fprintf(&sb, `\x%02x`, b[0])
		} else {
			sb.Write(b[:size])
		}
		b = b[size:]
	}
	return sb.String()
}
