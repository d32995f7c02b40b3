package bench

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/samber/lo"

	dreval "github.com/jamesainslie/go-dreval"
)

// Report is the outcome of one comparison run.
type Report struct {
	Results []Result
	Elapsed time.Duration
}

// binaryClassNames label rate vector columns for binary evaluations.
var binaryClassNames = map[int]string{
	dreval.Negative: "normal",
	dreval.Positive: "abnormal",
}

func className(c int) string {
	if name, ok := binaryClassNames[c]; ok {
		return name
	}
	return strconv.Itoa(c)
}

func formatRate(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// WriteText renders one row per classifier with its detection rate (recall)
// and false alarm rate (FPR) vectors, followed by the elapsed time.
func WriteText(w io.Writer, rep *Report) error {
	var classes []int
	if len(rep.Results) > 0 {
		classes = rep.Results[0].Rates.Classes
	}

	headers := []string{"Classifier"}
	headers = append(headers, lo.Map(classes, func(c int, _ int) string {
		return "Detection rate (" + className(c) + ")"
	})...)
	headers = append(headers, lo.Map(classes, func(c int, _ int) string {
		return "False alarm rate (" + className(c) + ")"
	})...)
	headers = append(headers, "Accuracy")

	rows := make([][]string, 0, len(rep.Results))
	for _, r := range rep.Results {
		row := []string{r.Name}
		row = append(row, lo.Map(r.Rates.Recall, func(v float64, _ int) string { return formatRate(v) })...)
		row = append(row, lo.Map(r.Rates.FPR, func(v float64, _ int) string { return formatRate(v) })...)
		row = append(row, formatRate(r.Metrics.Accuracy))
		rows = append(rows, row)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "--- %.0f seconds ---\n--- %.2f minutes ---\n", rep.Elapsed.Seconds(), rep.Elapsed.Minutes())
	return err
}

// nullable maps NaN to nil so JSON carries null instead of failing to encode.
func nullable(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

func nullables(vs []float64) []*float64 {
	return lo.Map(vs, func(v float64, _ int) *float64 { return nullable(v) })
}

type jsonResult struct {
	Name            string     `json:"name"`
	Classes         []int      `json:"classes"`
	Recall          []*float64 `json:"recall"`
	FPR             []*float64 `json:"fpr"`
	ConfusionMatrix [][]int    `json:"confusion_matrix"`
	DetectionRate   *float64   `json:"detection_rate"`
	FalseAlarmRate  *float64   `json:"false_alarm_rate"`
	Accuracy        *float64   `json:"accuracy"`
	Precision       *float64   `json:"precision"`
	F1              *float64   `json:"f1"`
}

type jsonReport struct {
	Results        []jsonResult `json:"results"`
	ElapsedSeconds float64      `json:"elapsed_seconds"`
}

// WriteJSON writes the report as indented JSON. Undefined rates are null.
func WriteJSON(w io.Writer, rep *Report) error {
	out := jsonReport{
		Results: lo.Map(rep.Results, func(r Result, _ int) jsonResult {
			return jsonResult{
				Name:            r.Name,
				Classes:         r.Rates.Classes,
				Recall:          nullables(r.Rates.Recall),
				FPR:             nullables(r.Rates.FPR),
				ConfusionMatrix: r.Rates.Matrix.Counts,
				DetectionRate:   nullable(r.Metrics.DetectionRate),
				FalseAlarmRate:  nullable(r.Metrics.FalseAlarmRate),
				Accuracy:        nullable(r.Metrics.Accuracy),
				Precision:       nullable(r.Metrics.Precision),
				F1:              nullable(r.Metrics.F1),
			}
		}),
		ElapsedSeconds: rep.Elapsed.Seconds(),
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// WriteProto writes the report in protobuf wire format.
func WriteProto(w io.Writer, rep *Report) error {
	_, err := w.Write(EncodeProto(rep))
	return err
}

// Write renders rep in the named format: "text", "json" or "proto".
func Write(w io.Writer, rep *Report, format string) error {
	switch format {
	case "", "text":
		return WriteText(w, rep)
	case "json":
		return WriteJSON(w, rep)
	case "proto":
		return WriteProto(w, rep)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

type jsonSweepResult struct {
	Threshold      float32  `json:"threshold"`
	DetectionRate  *float64 `json:"detection_rate"`
	FalseAlarmRate *float64 `json:"false_alarm_rate"`
	Accuracy       *float64 `json:"accuracy"`
	Precision      *float64 `json:"precision"`
	F1             *float64 `json:"f1"`
}

// WriteSweep renders threshold sweep results as a text table or JSON.
func WriteSweep(w io.Writer, results []SweepResult, format string) error {
	switch format {
	case "", "text":
		rows := lo.Map(results, func(r SweepResult, _ int) []string {
			return []string{
				strconv.FormatFloat(float64(r.Threshold), 'f', 3, 32),
				formatRate(r.Metrics.DetectionRate),
				formatRate(r.Metrics.FalseAlarmRate),
				formatRate(r.Metrics.Precision),
				formatRate(r.Metrics.F1),
			}
		})
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("Threshold", "Detection rate", "False alarm rate", "Precision", "F1").
			Rows(rows...).
			StyleFunc(func(row, _ int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				return cellStyle
			})
		_, err := fmt.Fprintln(w, t.Render())
		return err
	case "json":
		out := lo.Map(results, func(r SweepResult, _ int) jsonSweepResult {
			return jsonSweepResult{
				Threshold:      r.Threshold,
				DetectionRate:  nullable(r.Metrics.DetectionRate),
				FalseAlarmRate: nullable(r.Metrics.FalseAlarmRate),
				Accuracy:       nullable(r.Metrics.Accuracy),
				Precision:      nullable(r.Metrics.Precision),
				F1:             nullable(r.Metrics.F1),
			}
		})
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	default:
		return fmt.Errorf("unsupported sweep format %q", format)
	}
}
