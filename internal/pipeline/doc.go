// Package pipeline runs the conversion of carrier export files as a
// sequence of steps.
//
// A conversion moves a raw document through four steps: decode, parse,
// layout and package. Each step is implemented as a Step that receives the
// current model.Conversion and fills in its own part of it.
//
// Only loading a file from disk blocks and honours a context. The steps
// themselves run to completion once started. BatchProcessor converts many
// files concurrently with a bounded number of goroutines using errgroup.
package pipeline
