// Package raster draws turtle segments onto a single-channel bitmap and
// encodes the result.
//
// Canvas coordinates map one to one onto pixels. Segments are clipped to the
// canvas before stepping, so deep iterations that wander off the edge cost
// nothing and never fault.
package raster
