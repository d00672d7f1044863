package textenc_test

import (
	"errors"
	"testing"

	"github.com/programme-lv/answers/internal/textenc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode/utf32"
)

func fixed(name string, err error) textenc.Detector {
	return textenc.DetectorFunc(func([]byte) (string, error) { return name, err })
}

func TestEscapeInvalid(t *testing.T) {
	assert.Equal(t, "héllo", textenc.EscapeInvalid([]byte("héllo")))
	assert.Equal(t, `ab\xffc`, textenc.EscapeInvalid([]byte("ab\xffc")))
	assert.Equal(t, `\xe3\x81`, textenc.EscapeInvalid([]byte{0xe3, 0x81}))
	assert.Equal(t, "", textenc.EscapeInvalid(nil))
}

func TestDecodeFallsBackWithoutGuess(t *testing.T) {
	d := textenc.NewDecoder(fixed("", nil))
	got := d.Decode([]byte("int x;\xfe"))
	assert.False(t, got.Detected)
	assert.Equal(t, textenc.Fallback, got.Charset)
	assert.Equal(t, `int x;\xfe`, got.Text)
}

func TestDecodeFallsBackOnDetectorError(t *testing.T) {
	d := textenc.NewDecoder(fixed("", errors.New("not detected")))
	got := d.Decode([]byte("abc"))
	assert.False(t, got.Detected)
	assert.Equal(t, "abc", got.Text)
}

func TestDecodeFallsBackOnUnknownCharset(t *testing.T) {
	d := textenc.NewDecoder(fixed("x-klingon", nil))
	got := d.Decode([]byte("abc\x80"))
	assert.False(t, got.Detected)
	assert.Equal(t, `abc\x80`, got.Text)
}

func TestDecodeShiftJIS(t *testing.T) {
	raw, err := japanese.ShiftJIS.NewEncoder().String("こんにちは")
	require.NoError(t, err)

	d := textenc.NewDecoder(fixed("Shift_JIS", nil))
	got := d.Decode([]byte(raw))
	assert.True(t, got.Detected)
	assert.Equal(t, "Shift_JIS", got.Charset)
	assert.Equal(t, "こんにちは", got.Text)
}

func TestDecodeGB18030(t *testing.T) {
	src := "这是一个用于测试字符编码检测的中文句子。学生提交的程序里经常包含中文注释，" +
		"检测器应该能够正确识别这种编码，而不是把它们变成转义字符。"
	raw, err := simplifiedchinese.GB18030.NewEncoder().String(src)
	require.NoError(t, err)

	got := textenc.Decode([]byte(raw))
	assert.True(t, got.Detected)
	assert.Equal(t, "GB-18030", got.Charset)
	assert.Equal(t, src, got.Text)
}

func TestDecodeChardetOnlyNames(t *testing.T) {
	raw, err := utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM).NewEncoder().String("class Ā {}")
	require.NoError(t, err)
	got := textenc.NewDecoder(fixed("UTF-32BE", nil)).Decode([]byte(raw))
	assert.True(t, got.Detected)
	assert.Equal(t, "class Ā {}", got.Text)

	raw, err = utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM).NewEncoder().String("x = 1")
	require.NoError(t, err)
	got = textenc.NewDecoder(fixed("UTF-32LE", nil)).Decode([]byte(raw))
	assert.True(t, got.Detected)
	assert.Equal(t, "x = 1", got.Text)

	// EBCDIC Arabic has no decoder.
	got = textenc.NewDecoder(fixed("IBM420_rtl", nil)).Decode([]byte("abc"))
	assert.False(t, got.Detected)
	assert.Equal(t, "abc", got.Text)
}

func TestDecodeStripsUTF8BOM(t *testing.T) {
	d := textenc.NewDecoder(fixed("UTF-8", nil))
	got := d.Decode([]byte("\xef\xbb\xbfclass A {}"))
	assert.True(t, got.Detected)
	assert.Equal(t, "class A {}", got.Text)
}

func TestDecodeASCIIWithDefaultDetector(t *testing.T) {
	src := "public class Main {\n  public static void main(String[] args) {\n    System.out.println(\"hello\");\n  }\n}\n"
	assert.Equal(t, src, textenc.Decode([]byte(src)).Text)
}

func TestDecodeNeverPanics(t *testing.T) {
	inputs := [][]byte{
		nil,
		{},
		{0x00},
		{0xff, 0xfe, 0xfd, 0xfc},
		{0xc3, 0x28, 0xa0, 0xa1, 0xe2, 0x28, 0xa1},
		[]byte("plain"),
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() { _ = textenc.Decode(in) })
	}
}
