package bench

import (
	"errors"
	"fmt"
	"math"
	"time"

	"google.golang.org/protobuf/encoding/protowire"

	dreval "github.com/jamesainslie/go-dreval"
)

// Wire layout, equivalent to:
//
//	message Report {
//	  repeated Result results = 1;
//	  uint64 elapsed_ns = 2;
//	}
//	message Result {
//	  string name = 1;
//	  repeated sint64 classes = 2;  // packed, ascending
//	  repeated double fpr = 3;      // packed, NaN when undefined
//	  repeated double recall = 4;   // packed, NaN when undefined
//	  repeated uint64 counts = 5;   // packed, row-major confusion matrix
//	}
const (
	fieldResults   protowire.Number = 1
	fieldElapsedNS protowire.Number = 2

	fieldName    protowire.Number = 1
	fieldClasses protowire.Number = 2
	fieldFPR     protowire.Number = 3
	fieldRecall  protowire.Number = 4
	fieldCounts  protowire.Number = 5
)

// EncodeProto serializes rep in protobuf wire format.
func EncodeProto(rep *Report) []byte {
	var b []byte
	for _, r := range rep.Results {
		b = protowire.AppendTag(b, fieldResults, protowire.BytesType)
		b = protowire.AppendBytes(b, encodeResult(r))
	}
	b = protowire.AppendTag(b, fieldElapsedNS, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(rep.Elapsed.Nanoseconds()))
	return b
}

func encodeResult(r Result) []byte {
	var b []byte
	b = protowire.AppendTag(b, fieldName, protowire.BytesType)
	b = protowire.AppendString(b, r.Name)

	var packed []byte
	for _, c := range r.Rates.Classes {
		packed = protowire.AppendVarint(packed, protowire.EncodeZigZag(int64(c)))
	}
	b = protowire.AppendTag(b, fieldClasses, protowire.BytesType)
	b = protowire.AppendBytes(b, packed)

	b = appendDoubles(b, fieldFPR, r.Rates.FPR)
	b = appendDoubles(b, fieldRecall, r.Rates.Recall)

	packed = packed[:0]
	for _, row := range r.Rates.Matrix.Counts {
		for _, v := range row {
			packed = protowire.AppendVarint(packed, uint64(v))
		}
	}
	b = protowire.AppendTag(b, fieldCounts, protowire.BytesType)
	b = protowire.AppendBytes(b, packed)
	return b
}

func appendDoubles(b []byte, num protowire.Number, vs []float64) []byte {
	packed := make([]byte, 0, 8*len(vs))
	for _, v := range vs {
		packed = protowire.AppendFixed64(packed, math.Float64bits(v))
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, packed)
}

// DecodeProto parses a report written by EncodeProto. Metrics are re-derived
// from the decoded confusion matrix.
func DecodeProto(b []byte) (*Report, error) {
	rep := &Report{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		b = b[n:]

		switch {
		case num == fieldResults && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			r, err := decodeResult(v)
			if err != nil {
				return nil, fmt.Errorf("result %d: %w", len(rep.Results), err)
			}
			rep.Results = append(rep.Results, r)
			b = b[n:]
		case num == fieldElapsedNS && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			rep.Elapsed = time.Duration(v)
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			b = b[n:]
		}
	}
	return rep, nil
}

func decodeResult(b []byte) (Result, error) {
	var (
		name        string
		classes     []int
		fpr, recall []float64
		flat        []int
	)

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return Result{}, protowire.ParseError(n)
		}
		b = b[n:]

		if typ != protowire.BytesType {
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return Result{}, protowire.ParseError(n)
			}
			b = b[n:]
			continue
		}

		v, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return Result{}, protowire.ParseError(n)
		}
		b = b[n:]

		var err error
		switch num {
		case fieldName:
			name = string(v)
		case fieldClasses:
			err = consumeVarints(v, func(x uint64) { classes = append(classes, int(protowire.DecodeZigZag(x))) })
		case fieldFPR:
			fpr, err = consumeDoubles(v)
		case fieldRecall:
			recall, err = consumeDoubles(v)
		case fieldCounts:
			err = consumeVarints(v, func(x uint64) { flat = append(flat, int(x)) })
		}
		if err != nil {
			return Result{}, err
		}
	}

	k := len(classes)
	if len(flat) != k*k || len(fpr) != k || len(recall) != k {
		return Result{}, errors.New("inconsistent vector lengths")
	}
	counts := make([][]int, k)
	for i := range counts {
		counts[i] = flat[i*k : (i+1)*k]
	}

	m, err := dreval.NewConfusionMatrixFromCounts(classes, counts)
	if err != nil {
		return Result{}, err
	}
	rates := &dreval.Rates{Classes: m.Classes, FPR: fpr, Recall: recall, Matrix: m}
	return newResult(name, rates), nil
}

func consumeVarints(b []byte, fn func(uint64)) error {
	for len(b) > 0 {
		v, n := protowire.ConsumeVarint(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		fn(v)
		b = b[n:]
	}
	return nil
}

func consumeDoubles(b []byte) ([]float64, error) {
	out := make([]float64, 0, len(b)/8)
	for len(b) > 0 {
		v, n := protowire.ConsumeFixed64(b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		out = append(out, math.Float64frombits(v))
		b = b[n:]
	}
	return out, nil
}
