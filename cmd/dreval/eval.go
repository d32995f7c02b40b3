package main

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jamesainslie/go-dreval/internal/bench"
)

var (
	evalData      string
	evalModels    []string
	evalThreshold float64
	evalBinary    bool
)

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Run ONNX classifiers on a labelled dataset and compare them",
	Long: `Load a CSV dataset (header row, numeric features, label in the last column),
map its labels to normal/abnormal, run every model on the features and report
per-class detection rate and false alarm rate.`,
	Example: `  dreval eval --data test.csv --model dt=dt.onnx --model rf=rf.onnx
  dreval eval --data test.csv --model nn.onnx --threshold 0.3 --format json`,
	Args: cobra.NoArgs,
	RunE: runEval,
}

func init() {
	evalCmd.Flags().StringVar(&evalData, "data", "", "CSV dataset, label in the last column")
	evalCmd.Flags().StringArrayVar(&evalModels, "model", nil, "ONNX model as name=path (repeatable)")
	evalCmd.Flags().Float64Var(&evalThreshold, "threshold", 0.5, "decision threshold on the abnormal score")
	evalCmd.Flags().BoolVar(&evalBinary, "binary", false, "dataset labels are already 0/1")
	_ = evalCmd.MarkFlagRequired("data")
	_ = evalCmd.MarkFlagRequired("model")
}

func runEval(cmd *cobra.Command, _ []string) error {
	start := time.Now()

	threshold, err := resolveThreshold(cmd, evalThreshold, cfg)
	if err != nil {
		return err
	}

	ds, err := bench.LoadDataset(evalData)
	if err != nil {
		return err
	}
	truth := ds.Labels
	if !evalBinary {
		mapper, err := newMapper(cmd, cfg)
		if err != nil {
			return err
		}
		if truth, err = mapper.Map(truth); err != nil {
			return err
		}
	}

	models := make([]bench.Model, 0, len(evalModels))
	for _, arg := range evalModels {
		name, path, err := parseNamed(arg)
		if err != nil {
			return err
		}
		models = append(models, bench.Model{Name: name, Path: path})
	}

	logger.WithFields(logrus.Fields{
		"models":    len(models),
		"samples":   ds.Len(),
		"threshold": threshold,
	}).Info("evaluating models")

	results, err := bench.CompareModels(cmd.Context(), models, ds.Features, truth, cfg.Concurrency, evaluatorOptions(cfg, threshold)...)
	if err != nil {
		return err
	}

	rep := &bench.Report{Results: results, Elapsed: time.Since(start)}
	return bench.Write(cmd.OutOrStdout(), rep, cfg.Format)
}
