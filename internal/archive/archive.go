// Package archive pulls the readable members out of zip and jar submissions.
package archive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/klauspost/compress/zip"
	"github.com/programme-lv/answers/internal/banner"
	"github.com/programme-lv/answers/internal/format"
	"github.com/programme-lv/answers/internal/textenc"
)

// NoSourceFile is the text returned for an archive without qualifying members.
const NoSourceFile = "no source file"

// UndetectedNote prefixes a member whose charset could not be guessed.
const UndetectedNote = "Character encoding could not be detected; undecodable bytes were replaced with escape sequences.\n"

var (
	DefaultMemberSuffixes = []string{".java", ".txt"}
	DefaultFormatSuffixes = []string{".java"}
)

// Extraction is the concatenated text of the selected members.
type Extraction struct {
	Text    string
	Members []string
}

type Extractor struct {
	members   mapset.Set[string]
	formatted mapset.Set[string]
	formatter format.Formatter
	decoder   *textenc.Decoder
}

type Option func(*Extractor)

// WithMemberSuffixes selects the members to extract by file suffix.
func WithMemberSuffixes(suffixes ...string) Option {
	return func(e *Extractor) { e.members = mapset.NewSet(suffixes...) }
}

// WithFormatSuffixes selects the extracted members that are beautified.
func WithFormatSuffixes(suffixes ...string) Option {
	return func(e *Extractor) { e.formatted = mapset.NewSet(suffixes...) }
}

func WithFormatter(f format.Formatter) Option {
	return func(e *Extractor) { e.formatter = f }
}

func WithDecoder(d *textenc.Decoder) Option {
	return func(e *Extractor) { e.decoder = d }
}

func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		members:   mapset.NewSet(DefaultMemberSuffixes...),
		formatted: mapset.NewSet(DefaultFormatSuffixes...),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.decoder == nil {
		e.decoder = textenc.NewDecoder(nil)
	}
	return e
}

// Extract opens the zip container at p.
func (e *Extractor) Extract(ctx context.Context, p string) (*Extraction, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", p, err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat archive %s: %w", p, err)
	}
	res, err := e.ExtractReader(ctx, f, st.Size())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	return res, nil
}

// ExtractReader reads a zip container of the given size from r.
func (e *Extractor) ExtractReader(ctx context.Context, r io.ReaderAt, size int64) (*Extraction, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	return e.extract(ctx, zr)
}

func (e *Extractor) extract(ctx context.Context, zr *zip.Reader) (*Extraction, error) {
	res := &Extraction{Members: []string{}}
	var sb strings.Builder

	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		name := e.memberName(f)
		if !hasSuffix(e.members, name) {
			continue
		}

		b, err := readMember(f)
		if err != nil {
			return nil, err
		}

		dec := e.decoder.Decode(b)
		text := strings.TrimSpace(dec.Text)
		if hasSuffix(e.formatted, name) {
			text = format.BestEffort(ctx, e.formatter, text)
		}
		if !dec.Detected {
			text = UndetectedNote + text
		}

		base := path.Base(name)
		fmt.Fprintf(&sb, "%s\n%s\n\n", banner.Line(base, '-'), text)
		res.Members = append(res.Members, base)
	}

	if len(res.Members) == 0 {
		res.Text = NoSourceFile
		return res, nil
	}
	res.Text = strings.TrimSpace(sb.String())
	return res, nil
}

// memberName normalises separators and decodes names that were not stored
// as UTF-8.
func (e *Extractor) memberName(f *zip.File) string {
	name := f.Name
	if f.NonUTF8 {
		name = e.decoder.Decode([]byte(name)).Text
	}
	return strings.ReplaceAll(name, `\`, "/")
}

func readMember(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open member %s: %w", f.Name, err)
	}
	defer rc.Close()

	b, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read member %s: %w", f.Name, err)
	}
	return b, nil
}

func hasSuffix(set mapset.Set[string], name string) bool {
	if ext := path.Ext(name); ext != "" && set.Contains(ext) {
		return true
	}
	found := false
	set.Each(func(s string) bool {
		found = s != "" && strings.HasSuffix(name, s)
		return found
	})
	return found
}
