package main

import (
	"time"

	"github.com/spf13/cobra"

	dreval "github.com/jamesainslie/go-dreval"
	"github.com/jamesainslie/go-dreval/internal/bench"
)

var (
	ratesTruth      string
	ratesPreds      []string
	ratesMulticlass bool
)

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Compare saved predictions against ground truth",
	Long: `Compute per-class false alarm rate and detection rate for each prediction
file against the ground-truth file. Files hold one integer label per line.

With --multiclass both truth and predictions are taxonomy ids and are mapped to
normal (0) / abnormal (1) first.`,
	Example: `  dreval rates --truth truth.txt --pred dt=dt.txt --pred rf=rf.txt
  dreval rates --truth labels.txt --pred nn.txt --multiclass --negative 7`,
	Args: cobra.NoArgs,
	RunE: runRates,
}

func init() {
	ratesCmd.Flags().StringVar(&ratesTruth, "truth", "", "ground-truth label file (- for stdin)")
	ratesCmd.Flags().StringArrayVar(&ratesPreds, "pred", nil, "prediction file as name=path (repeatable)")
	ratesCmd.Flags().BoolVar(&ratesMulticlass, "multiclass", false, "map taxonomy labels to binary before comparing")
	_ = ratesCmd.MarkFlagRequired("truth")
	_ = ratesCmd.MarkFlagRequired("pred")
}

func runRates(cmd *cobra.Command, _ []string) error {
	start := time.Now()

	truth, err := readLabels(cmd, ratesTruth)
	if err != nil {
		return err
	}

	var mapper *dreval.Mapper
	if ratesMulticlass {
		if mapper, err = newMapper(cmd, cfg); err != nil {
			return err
		}
		if truth, err = mapper.Map(truth); err != nil {
			return err
		}
	}

	preds := make([]bench.Prediction, 0, len(ratesPreds))
	for _, arg := range ratesPreds {
		name, path, err := parseNamed(arg)
		if err != nil {
			return err
		}
		labels, err := bench.LoadLabels(path)
		if err != nil {
			return err
		}
		if mapper != nil {
			if labels, err = mapper.Map(labels); err != nil {
				return err
			}
		}
		preds = append(preds, bench.Prediction{Name: name, Labels: labels})
	}

	logger.WithField("classifiers", len(preds)).WithField("samples", len(truth)).Debug("comparing predictions")

	results, err := bench.Compare(cmd.Context(), truth, preds, cfg.Concurrency)
	if err != nil {
		return err
	}

	rep := &bench.Report{Results: results, Elapsed: time.Since(start)}
	return bench.Write(cmd.OutOrStdout(), rep, cfg.Format)
}
