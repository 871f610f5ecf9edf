package consistentdf

// Package consistentdf provides shared DataFrame-style operations used across
// multiple repositories:
//
// - Column dtype enforcement via EnforceTypes/EnforceSchema (presence, types, order)
// - Nest/Unnest conversion between flat and hierarchical frames
// - Column-wise string helpers and an order-insensitive ConsistentString rendering
// - Frame comparison utilities for tests (see the frametest subpackage)
// - A stable error model via Issues (path, code, message)
//
// Design policy:
// - Keep only public APIs in the root package; put detailed implementations under internal/.
// - Place interchange codecs under codec/ and test assertions under frametest/.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	df, err := consistentdf.EnforceSchema(df, schema)
//	nested, err := consistentdf.Nest(df, []string{"sub_id", "sub_text"}, "items")
//	flat, err := consistentdf.Unnest(nested, "items")
//	s, err := consistentdf.ConsistentString(df)
//
// All operations are pure: the input frame is never mutated and results are
// fresh frames. No I/O is performed; the YAML/CSV/JSON helpers consume
// caller-supplied byte slices only.
