// Command textdecode decodes a file or stdin from a legacy or Unicode encoding
// to UTF-8, optionally removing a content coding such as gzip first.
//
//	textdecode -label shift_jis -coding gzip page.html.gz
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	herrors "github.com/hexbee-net/errors"
	"go.llib.dev/frameless/pkg/cli"
	"go.llib.dev/frameless/pkg/logger"
	"go.llib.dev/frameless/pkg/logging"

	"github.com/mnightingale/textdecoder"
	"github.com/mnightingale/textdecoder/contentcoding"
)

func main() {
	cli.Main(context.Background(), Command{})
}

type Command struct {
	Label  string `flag:"label,l" env:"TEXTDECODE_LABEL" default:"utf-8" desc:"encoding label of the input"`
	Fatal  bool   `flag:"fatal" env:"TEXTDECODE_FATAL" default:"false" desc:"fail on malformed input instead of replacing it with U+FFFD"`
	Coding string `flag:"coding" env:"TEXTDECODE_CODING" default:"identity" enum:"identity,gzip,deflate,br,zstd,snappy,lz4," desc:"content coding to remove before decoding"`
	Chunk  int    `flag:"chunk" env:"TEXTDECODE_CHUNK" default:"32768" desc:"input bytes decoded at a time"`
	List   bool   `flag:"list" desc:"print the supported encodings and content codings"`

	Path string `arg:"0" default:"-" desc:"input file, - for stdin"`
}

func (cmd Command) ServeCLI(w cli.Response, r *cli.Request) {
	ctx := logging.ContextWith(r.Context(),
		logging.Field("run", uuid.NewString()),
		logging.Field("label", cmd.Label),
		logging.Field("coding", cmd.Coding),
	)

	if cmd.List {
		cmd.list(w)
		return
	}

	s, err := textdecoder.New(cmd.Label, cmd.Fatal)
	if err != nil {
		fail(ctx, w, cli.ExitCodeBadRequest, err)
		return
	}

	in, err := cmd.open(r)
	if err != nil {
		fail(ctx, w, cli.ExitCodeError, err)
		return
	}
	defer in.Close()

	body, err := contentcoding.NewReader(cmd.Coding, in)
	if err != nil {
		code := cli.ExitCodeError
		if herrors.Cause(err) == contentcoding.ErrUnsupportedCoding {
			code = cli.ExitCodeBadRequest
		}
		fail(ctx, w, code, err)
		return
	}
	defer body.Close()

	n, err := io.Copy(w, textdecoder.NewReader(body, s, textdecoder.WithBufferSize(cmd.Chunk)))
	if err != nil {
		fail(ctx, w, cli.ExitCodeError, err)
		return
	}

	logger.Debug(ctx, "input decoded",
		logging.Field("encoding", s.Encoding()),
		logging.Field("fatal", s.Fatal()),
		logging.Field("written", n),
	)
}

func (cmd Command) open(r *cli.Request) (io.ReadCloser, error) {
	if cmd.Path == "" || cmd.Path == "-" {
		if r.Body == nil {
			return nil, errors.New("no input: stdin is not available")
		}
		return io.NopCloser(r.Body), nil
	}
	return os.Open(cmd.Path)
}

func (cmd Command) list(w io.Writer) {
	fmt.Fprintln(w, "encodings:")
	for _, name := range textdecoder.Names() {
		fmt.Fprintln(w, "  "+name)
	}
	fmt.Fprintln(w, "content codings:")
	for _, name := range contentcoding.Names() {
		fmt.Fprintln(w, "  "+name)
	}
}

func fail(ctx context.Context, w cli.Response, code int, err error) {
	logger.Error(ctx, "textdecode failed", logging.ErrField(err))

	w.ExitCode(code)

	out := io.Writer(w)
	if ew, ok := w.(cli.ErrorWriter); ok {
		out = ew.Stderr()
	}
	fmt.Fprintln(out, err.Error())
}
