// Package dataprocessing implements the analysis pipeline of the
// calcium converter: classifying the input table's columns, converting
// fluorescence ratios to calcium concentration, segmenting the
// recording into treatment episodes, and deriving per-region
// statistics.
//
// # Architecture
//
// The package is organized into four components:
//
//  1. Classifier: resolves the Time, Labels and Ratio columns and
//     validates their contents
//  2. Concentration: the pure ratio-to-concentration conversion
//  3. Segmenter: partitions the recording into baseline and treatment
//     episodes and pairs each treatment with its reference baselines
//  4. Engine: computes base, peak and area per (treatment, region)
//
// The Pipeline type wires these together with the workbook I/O in
// internal/sheet into a single synchronous pass:
//
//	Excel file → Table → SheetLayout → Episodes → Assignments → Results → Excel file
//
// # Error Handling
//
// All failures are *errors.AppError values carrying the failing
// column, row or episode. Every error is fatal to the run: statistics
// on malformed input are meaningless, so nothing is substituted or
// retried.
package dataprocessing
