package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	dreval "github.com/jamesainslie/go-dreval"
	"github.com/jamesainslie/go-dreval/internal/bench"
)

var (
	sweepData          string
	sweepModel         string
	sweepMin           float64
	sweepMax           float64
	sweepStep          float64
	sweepMaxFalseAlarm float64
	sweepBinary        bool
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Trace detection rate against false alarm rate over thresholds",
	Long: `Score the dataset once with an ONNX model, then apply every threshold in
[min, max) and report the resulting detection and false alarm rates. The best
threshold is the one with the highest detection rate whose false alarm rate
stays within --max-false-alarm.`,
	Example: `  dreval sweep --data test.csv --model rf.onnx --min 0.05 --max 1 --step 0.05`,
	Args:    cobra.NoArgs,
	RunE:    runSweep,
}

func init() {
	sweepCmd.Flags().StringVar(&sweepData, "data", "", "CSV dataset, label in the last column")
	sweepCmd.Flags().StringVar(&sweepModel, "model", "", "ONNX model file")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.05, "first threshold")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1.0, "upper bound (exclusive)")
	sweepCmd.Flags().Float64Var(&sweepStep, "step", 0.05, "threshold increment")
	sweepCmd.Flags().Float64Var(&sweepMaxFalseAlarm, "max-false-alarm", 0.01, "false alarm budget for the best threshold")
	sweepCmd.Flags().BoolVar(&sweepBinary, "binary", false, "dataset labels are already 0/1")
	_ = sweepCmd.MarkFlagRequired("data")
	_ = sweepCmd.MarkFlagRequired("model")
}

func runSweep(cmd *cobra.Command, _ []string) error {
	if cfg.Format == "proto" {
		return fmt.Errorf("sweep does not support format %q", cfg.Format)
	}
	if sweepStep <= 0 || sweepMin >= sweepMax {
		return fmt.Errorf("invalid sweep range [%v, %v) step %v", sweepMin, sweepMax, sweepStep)
	}

	ds, err := bench.LoadDataset(sweepData)
	if err != nil {
		return err
	}
	truth := ds.Labels
	if !sweepBinary {
		mapper, err := newMapper(cmd, cfg)
		if err != nil {
			return err
		}
		if truth, err = mapper.Map(truth); err != nil {
			return err
		}
	}

	e, err := dreval.New(sweepModel, evaluatorOptions(cfg, float32(cfg.Threshold))...)
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	scores, err := e.Scores(cmd.Context(), ds.Features)
	if err != nil {
		return err
	}

	thresholds := bench.SweepThresholds(float32(sweepMin), float32(sweepMax), float32(sweepStep))
	results, err := bench.Sweep(cmd.Context(), scores, truth, thresholds)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := bench.WriteSweep(out, results, cfg.Format); err != nil {
		return err
	}

	best, ok := bench.Best(results, sweepMaxFalseAlarm)
	if !ok {
		logger.WithField("max_false_alarm", sweepMaxFalseAlarm).Warn("no threshold within false alarm budget")
		return nil
	}
	logger.WithFields(logrus.Fields{
		"threshold":        best.Threshold,
		"detection_rate":   best.Metrics.DetectionRate,
		"false_alarm_rate": best.Metrics.FalseAlarmRate,
	}).Info("best threshold")
	if cfg.Format == "" || cfg.Format == "text" {
		_, err = fmt.Fprintf(out, "Best threshold %.3f: detection rate %.4f, false alarm rate %.4f\n",
			best.Threshold, best.Metrics.DetectionRate, best.Metrics.FalseAlarmRate)
	}
	return err
}
