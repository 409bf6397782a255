// Package main launches the layer visualization server for a hashtron model.
// It loads the architecture and weights, draws a preview of every .npy sample in the
// input folder and opens the dashboard, which shows what each layer outputs for the
// selected sample and what the model predicts.
//
//	quiver -arch digits.hcl -weights digits.json.lzw -inputs ./samples
package main
