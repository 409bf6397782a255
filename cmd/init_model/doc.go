// Package main writes randomly initialised weights for an architecture, so the
// quiver dashboard can be tried on a model that was never trained.
//
//	init_model -arch digits.hcl -dst digits.json.lzw -steps 3
package main
