package textdecoder

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// DecodeAll decodes src in a single call on a fresh Session. It is the same
// as New followed by one Decode with stream false.
func DecodeAll(label string, fatal bool, src []byte, opts ...Option) (string, error) {
	s, err := New(label, fatal, opts...)
	if err != nil {
		return "", err
	}
	return s.Decode(src, false)
}

// DecodeBatch decodes independent payloads concurrently, each with its own
// Session, running at most limit decodes at a time (no limit if limit <= 0).
// The results are in the order of inputs. The first failure cancels the
// decodes that have not started yet.
func DecodeBatch(ctx context.Context, label string, fatal bool, inputs [][]byte, limit int, opts ...Option) ([]string, error) {
	// Resolve once so a bad label fails before any work starts; every
	// payload then gets a fresh session of the resolved encoding.
	base, err := New(label, fatal, opts...)
	if err != nil {
		return nil, err
	}

	out := make([]string, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, in := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			text, err := base.fresh().Decode(in, false)
			if err != nil {
				return fmt.Errorf("[textdecoder] input %d: %w", i, err)
			}
			out[i] = text
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}
