// Package detection locates candidate caption regions on binarized album
// pages.
//
// The Landreth albums paste typed caption strips onto darker page stock, so
// after thresholding a page the captions show up as wide, light connected
// components. This package finds those components and resolves duplicates.
//
// # Detection Pipeline
//
// Region detection runs in two passes:
//
//  1. FindCandidates: label 8-connected foreground components, filter by
//     relative area and aspect ratio, pad the survivors, and sort them into
//     reading order
//  2. MergeOverlapping: greedy intersection-over-union deduplication, keeping
//     the larger of any overlapping pair
//
// The output rectangles feed directly into recognition crops, so padding is
// applied here rather than at crop time.
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//   - Rectangles use inclusive Min and exclusive Max
//
// # Performance Considerations
//
// Component labeling visits every pixel once with an explicit flood-fill
// stack, so runtime is linear in page area and recursion depth is not a
// concern on large scans.
//
// # Limitations
//
// Detection assumes light captions on a darker background. Pages where the
// captions were written directly on light page stock produce components that
// merge with the background and are rejected by the area ceiling; those pages
// come out with no candidates rather than with false positives.
package detection
