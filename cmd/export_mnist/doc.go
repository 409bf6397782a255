// Package main exports MNIST digits as .npy samples for the quiver dashboard.
// Each digit is written as a 28x28 float64 array named <index>_<label>.npy.
//
//	export_mnist -src ~/classifier/datasets/mnist -dst ./samples -n 20
package main
