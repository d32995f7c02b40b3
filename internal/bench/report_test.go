package bench

import (
	"bytes"
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	dreval "github.com/jamesainslie/go-dreval"
)

func testReport(t *testing.T) *Report {
	t.Helper()
	results, err := Compare(t.Context(), []int{0, 0, 0, 0}, []Prediction{
		{Name: "Decision tree", Labels: []int{0, 1, 0, 0}},
		{Name: "NN", Labels: []int{0, 0, 0, 0}},
	}, 0)
	require.NoError(t, err)
	return &Report{Results: results, Elapsed: 90 * time.Second}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, testReport(t)))

	out := buf.String()
	assert.Contains(t, out, "Detection rate (normal)")
	assert.Contains(t, out, "False alarm rate (abnormal)")
	assert.Contains(t, out, "Decision tree")
	assert.Contains(t, out, "0.7500")
	assert.Contains(t, out, "NaN")
	assert.Contains(t, out, "--- 90 seconds ---")
	assert.Contains(t, out, "--- 1.50 minutes ---")
}

func TestWriteJSON_NaNAsNull(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, testReport(t)))

	var decoded struct {
		Results []struct {
			Name            string     `json:"name"`
			Classes         []int      `json:"classes"`
			Recall          []*float64 `json:"recall"`
			FPR             []*float64 `json:"fpr"`
			ConfusionMatrix [][]int    `json:"confusion_matrix"`
			DetectionRate   *float64   `json:"detection_rate"`
		} `json:"results"`
		ElapsedSeconds float64 `json:"elapsed_seconds"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Results, 2)

	dt := decoded.Results[0]
	assert.Equal(t, "Decision tree", dt.Name)
	assert.Equal(t, []int{0, 1}, dt.Classes)
	assert.Equal(t, [][]int{{3, 1}, {0, 0}}, dt.ConfusionMatrix)
	require.NotNil(t, dt.Recall[0])
	assert.InDelta(t, 0.75, *dt.Recall[0], 1e-9)
	assert.Nil(t, dt.Recall[1])
	assert.Nil(t, dt.FPR[0])
	assert.Nil(t, dt.DetectionRate)
	assert.Equal(t, 90.0, decoded.ElapsedSeconds)
}

func TestWrite_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Write(&buf, testReport(t), "xml"))
}

func TestProto_PreservesRatesAndNaN(t *testing.T) {
	rep := testReport(t)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, rep, "proto"))

	got, err := DecodeProto(buf.Bytes())
	require.NoError(t, err)

	assert.Equal(t, rep.Elapsed, got.Elapsed)
	require.Len(t, got.Results, len(rep.Results))
	for i, want := range rep.Results {
		r := got.Results[i]
		assert.Equal(t, want.Name, r.Name)
		assert.Equal(t, want.Rates.Classes, r.Rates.Classes)
		assert.Equal(t, want.Rates.Matrix.Counts, r.Rates.Matrix.Counts)
		for j := range want.Rates.Classes {
			assert.Equal(t, math.Float64bits(want.Rates.FPR[j]), math.Float64bits(r.Rates.FPR[j]))
			assert.Equal(t, math.Float64bits(want.Rates.Recall[j]), math.Float64bits(r.Rates.Recall[j]))
		}
	}
}

func TestDecodeProto_SkipsUnknownFields(t *testing.T) {
	b := EncodeProto(testReport(t))
	b = protowire.AppendTag(b, 99, protowire.VarintType)
	b = protowire.AppendVarint(b, 1)

	got, err := DecodeProto(b)
	require.NoError(t, err)
	assert.Len(t, got.Results, 2)
}

func TestDecodeProto_Truncated(t *testing.T) {
	b := EncodeProto(testReport(t))

	_, err := DecodeProto(b[:len(b)/2])
	assert.Error(t, err)
}

func TestDecodeProto_InconsistentLengths(t *testing.T) {
	var res []byte
	res = protowire.AppendTag(res, fieldName, protowire.BytesType)
	res = protowire.AppendString(res, "bad")
	res = protowire.AppendTag(res, fieldClasses, protowire.BytesType)
	res = protowire.AppendBytes(res, protowire.AppendVarint(nil, protowire.EncodeZigZag(dreval.Negative)))

	var b []byte
	b = protowire.AppendTag(b, fieldResults, protowire.BytesType)
	b = protowire.AppendBytes(b, res)

	_, err := DecodeProto(b)
	assert.ErrorContains(t, err, "inconsistent")
}
