// Package dreval evaluates binary anomaly classifiers by detection rate
// (recall) and false alarm rate (false-positive rate).
//
// # Quick Start
//
//	truth, err := dreval.MapToBinary(rawLabels, 7) // 7 = "normal"
//	if err != nil {
//	    log.Fatal(err)
//	}
//	rates, err := dreval.ComputeRates(truth, predicted)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Detection rate: %.4f  False alarm rate: %.4f\n",
//	    rates.DetectionRate(), rates.FalseAlarmRate())
//
// # Rate Vectors
//
// Rates.FPR and Rates.Recall hold one entry per class in ascending class
// order; for a binary evaluation index 0 is the normal class and index 1 the
// anomalous class. An entry is NaN when its denominator is zero, for example
// the recall of a class that never occurs in the ground truth. Callers that
// aggregate or plot rates should test with math.IsNaN.
//
// # ONNX Classifiers
//
// New loads a pre-trained classifier exported to ONNX (for example with
// skl2onnx and zipmap disabled) and Evaluator.Evaluate scores feature rows
// and computes rates in one call. Evaluator is safe for concurrent use.
//
// # Thread Safety
//
// MapToBinary, Mapper.Map and ComputeRates are pure functions and may be
// called from any number of goroutines.
package dreval
