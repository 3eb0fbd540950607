package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"
	"go.llib.dev/frameless/pkg/cli"
)

func serve(t *testing.T, stdin []byte, args ...string) *cli.ResponseRecorder {
	t.Helper()

	rr := &cli.ResponseRecorder{}
	cli.ServeCLI(Command{}, rr, &cli.Request{
		Args: args,
		Body: bytes.NewReader(stdin),
	})
	return rr
}

func TestCommand(t *testing.T) {
	cases := []struct {
		name     string
		args     []string
		stdin    string
		expected string
	}{
		{"default utf-8", nil, "h\xc3\xa9llo", "héllo"},
		{"shift_jis", []string{"-label", "shift_jis"}, "\x93\xfa\x96\x7b", "日本"},
		{"replacement", []string{"-label", "utf-8"}, "a\xffb", "a�b"},
		{"small chunks", []string{"-chunk", "1"}, "\xe4\xb8\xad\xe6\x96\x87", "中文"},
		{"stdin dash", []string{"-label", "latin1", "-"}, "caf\xe9", "café"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := serve(t, []byte(tc.stdin), tc.args...)
			require.Equal(t, cli.ExitCodeOK, rr.Code, rr.Err.String())
			require.Equal(t, tc.expected, rr.Out.String())
		})
	}
}

func TestCommandGzipFile(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte("\xc7\xd1\xb1\xdb"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	path := filepath.Join(t.TempDir(), "input.gz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	rr := serve(t, nil, "-label", "euc-kr", "-coding", "gzip", path)
	require.Equal(t, cli.ExitCodeOK, rr.Code, rr.Err.String())
	require.Equal(t, "한글", rr.Out.String())
}

func TestCommandFatal(t *testing.T) {
	rr := serve(t, []byte("ok\xff"), "-fatal")
	require.Equal(t, cli.ExitCodeError, rr.Code)
	require.Contains(t, rr.Err.String(), "decoding failed")
}

func TestCommandUnsupportedEncoding(t *testing.T) {
	rr := serve(t, []byte("x"), "-label", "bogus-label")
	require.Equal(t, cli.ExitCodeBadRequest, rr.Code)
	require.Contains(t, rr.Err.String(), "not supported")
}

func TestCommandMissingFile(t *testing.T) {
	rr := serve(t, nil, filepath.Join(t.TempDir(), "missing.txt"))
	require.Equal(t, cli.ExitCodeError, rr.Code)
}

func TestCommandList(t *testing.T) {
	rr := serve(t, nil, "-list")
	require.Equal(t, cli.ExitCodeOK, rr.Code)

	out := rr.Out.String()
	for _, name := range []string{"utf-8", "shift_jis", "iso-2022-jp", "gzip", "zstd"} {
		require.True(t, strings.Contains(out, "  "+name+"\n"), name)
	}
}
