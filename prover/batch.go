// Package prover drives synthesis of many independent witnesses, the way
// a relayer batches shielded transactions before proving them.
package prover

import (
	"bytes"
	"context"
	"fmt"
	"runtime"

	"github.com/consensys/gnark/logger"
	"golang.org/x/sync/errgroup"

	"github.com/zkpool/shielder/circuits"
	"github.com/zkpool/shielder/plonk"
)

// SynthesizeAll runs the full pipeline for each knowledge in parallel and
// returns the checked assignments in input order. All circuits must
// produce the same layout; a divergence means circuit configuration is
// not deterministic and the batch is rejected.
func SynthesizeAll(ctx context.Context, ks []circuits.ProverKnowledge, opts ...plonk.FinalizeOption) ([]*plonk.Assignment, error) {
	log := logger.Logger().With().Str("component", "prover").Logger()
	log.Debug().Int("batch", len(ks)).Msg("synthesizing batch")

	out := make([]*plonk.Assignment, len(ks))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, k := range ks {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			asg, err := circuits.Run(k.CreateCircuit(), k.PublicInputs(), opts...)
			if err != nil {
				return fmt.Errorf("batch entry %d: %w", i, err)
			}
			out[i] = asg
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := requireUniformLayout(out); err != nil {
		return nil, err
	}
	return out, nil
}

func requireUniformLayout(asgs []*plonk.Assignment) error {
	if len(asgs) < 2 {
		return nil
	}
	want, err := asgs[0].Layout().MarshalBinary()
	if err != nil {
		return err
	}
	for i, asg := range asgs[1:] {
		got, err := asg.Layout().MarshalBinary()
		if err != nil {
			return err
		}
		if !bytes.Equal(want, got) {
			return fmt.Errorf("batch entry %d produced a different layout", i+1)
		}
	}
	return nil
}
