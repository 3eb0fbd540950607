package textdecoder

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/require"
)

func TestReader(t *testing.T) {
	for _, tc := range samples {
		t.Run(tc.name, func(t *testing.T) {
			for _, size := range []int{1, 2, 3, 5, 64} {
				s, err := New(tc.label, true)
				require.NoError(t, err)

				r := NewReader(bytes.NewReader(tc.raw), s, WithBufferSize(size))
				b := bytes.NewBuffer(nil)
				_, err = io.Copy(b, r)
				require.NoError(t, err)
				require.Equal(t, tc.expected, b.String(), "buffer size %d", size)
			}
		})
	}
}

func TestReaderSmallDestination(t *testing.T) {
	raw := []byte(strings.Repeat("\xe4\xb8\xad\xe6\x96\x87 text ", 500))

	s, err := New("utf-8", false)
	require.NoError(t, err)

	// OneByteReader forces the caller side to drain the queue a byte at a time.
	got, err := io.ReadAll(iotest.OneByteReader(NewReader(bytes.NewReader(raw), s, WithBufferSize(7))))
	require.NoError(t, err)
	require.Equal(t, string(raw), string(got))
}

func TestReaderHalfReader(t *testing.T) {
	raw := []byte("\x93\xfa\x96\x7b\x8c\xea \x83\x65\x83\x4c\x83\x58\x83\x67")

	s, err := New("shift_jis", true)
	require.NoError(t, err)

	got, err := io.ReadAll(NewReader(iotest.HalfReader(bytes.NewReader(raw)), s))
	require.NoError(t, err)
	require.Equal(t, "日本語 テキスト", string(got))
}

func TestReaderFlushesAtEOF(t *testing.T) {
	s, err := New("utf-8", true)
	require.NoError(t, err)

	_, err = io.ReadAll(NewReader(bytes.NewReader([]byte("ok\xe4\xb8")), s, WithBufferSize(2)))
	require.ErrorIs(t, err, ErrEncoding)
	require.ErrorContains(t, err, "end of stream at byte 4")

	s, err = New("utf-8", false)
	require.NoError(t, err)

	got, err := io.ReadAll(NewReader(bytes.NewReader([]byte("ok\xe4\xb8")), s, WithBufferSize(2)))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(got), "ok�"))
}

func TestReaderMalformedChunk(t *testing.T) {
	s, err := New("utf-8", true)
	require.NoError(t, err)

	r := NewReader(bytes.NewReader([]byte("abcd\xffefgh")), s, WithBufferSize(4))
	got, err := io.ReadAll(r)
	require.ErrorIs(t, err, ErrEncoding)
	require.ErrorContains(t, err, "chunk at byte 4")
	require.Equal(t, "abcd", string(got))

	// The error sticks.
	n, err := r.Read(make([]byte, 8))
	require.Equal(t, 0, n)
	require.ErrorIs(t, err, ErrEncoding)
}

func TestReaderUnderlyingError(t *testing.T) {
	boom := errors.New("boom")

	s, err := New("utf-8", false)
	require.NoError(t, err)

	r := NewReader(io.MultiReader(strings.NewReader("abc"), iotest.ErrReader(boom)), s)
	got, err := io.ReadAll(r)
	require.ErrorIs(t, err, boom)
	require.Equal(t, "abc", string(got))
}

func TestReaderEmptyRead(t *testing.T) {
	s, err := New("utf-8", false)
	require.NoError(t, err)

	n, err := NewReader(strings.NewReader("abc"), s).Read(nil)
	require.NoError(t, err)
	require.Equal(t, 0, n)
}

func BenchmarkReader(b *testing.B) {
	raw := []byte(strings.Repeat("mostly ascii with some \xe4\xb8\xad\xe6\x96\x87 ", 30000))

	b.ResetTimer()
	for b.Loop() {
		s, err := New("utf-8", false)
		require.NoError(b, err)
		_, err = io.Copy(io.Discard, NewReader(bytes.NewReader(raw), s))
		require.NoError(b, err)
	}
}
