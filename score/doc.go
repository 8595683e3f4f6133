// Package score compares predicted meeting options with oracle gold.
//
// What:
//
//   - Score(level, gold, picks) computes set-overlap precision, recall, F1
//     and exact match. Options are keyed by (start, end) and, at level 3,
//     by (start, end, room_id). Times compare as instants, so any offset
//     notation works.
//   - Aggregate(labels, preds) scores a batch of predictions against its
//     labels; a missing prediction scores as an empty answer.
//   - ReadPredictions loads predictions JSONL:
//     {"instance_id": ..., "candidates": [{"start", "end", "room_id"}]}.
//
// Why:
//
//   - Order is irrelevant to the scorer; rank only decides which N options
//     the oracle reports as gold.
//
// Both sets empty scores 1 on every metric.
//
// Errors:
//
//   - ErrUnknownInstance: a prediction for an instance without a label.
//   - ErrDuplicatePrediction: two predictions for one instance.
package score
