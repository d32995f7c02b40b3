package main

import (
	"bufio"
	"strconv"

	"github.com/spf13/cobra"

	dreval "github.com/jamesainslie/go-dreval"
)

var (
	mapIn                string
	mapUnknownAsPositive bool
)

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Map taxonomy labels to normal (0) / abnormal (1)",
	Example: `  dreval map --in labels.txt
  cat labels.txt | dreval map --in - --negative 7`,
	Args: cobra.NoArgs,
	RunE: runMap,
}

func init() {
	mapCmd.Flags().StringVar(&mapIn, "in", "-", "label file (- for stdin)")
	mapCmd.Flags().BoolVar(&mapUnknownAsPositive, "unknown-as-positive", false, "map ids outside the taxonomy to abnormal instead of failing")
}

func runMap(cmd *cobra.Command, _ []string) error {
	labels, err := readLabels(cmd, mapIn)
	if err != nil {
		return err
	}

	var opts []dreval.MapperOption
	if mapUnknownAsPositive {
		opts = append(opts, dreval.WithUnknownAsPositive())
	}
	mapper, err := newMapper(cmd, cfg, opts...)
	if err != nil {
		return err
	}

	binary, err := mapper.Map(labels)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(cmd.OutOrStdout())
	for _, b := range binary {
		w.WriteString(strconv.Itoa(b))
		w.WriteByte('\n')
	}
	return w.Flush()
}
