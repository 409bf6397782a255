package main

import "flag"
import "fmt"
import "os"
import "path/filepath"

import "github.com/schollz/progressbar/v3"

import "github.com/neurlang/quiver/datasets/mnist"
import "github.com/neurlang/quiver/log"
import "github.com/neurlang/quiver/signal"

func main() {
	src := flag.String("src", ".", "directory with the gzipped idx files")
	dst := flag.String("dst", "./samples", "destination folder for .npy samples")
	n := flag.Int("n", 20, "number of digits to export")
	train := flag.Bool("train", false, "export from the train set instead of the test set")
	verify := flag.Bool("verify", true, "check the sha256 of the idx files")
	flag.Parse()

	log.Default()

	written, err := export(*src, *dst, *n, *train, *verify)
	if err != nil {
		log.Fatalf("%v", err)
	}
	log.Infof("exported %d digits to %s", written, *dst)
}

func export(src, dst string, n int, train, verify bool) (int, error) {
	set, err := mnist.Load(src, train, verify)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return 0, err
	}
	if n > set.Len() || n < 0 {
		n = set.Len()
	}
	bar := progressbar.Default(int64(n), "exporting")
	for i := 0; i < n; i++ {
		name := filepath.Join(dst, fmt.Sprintf("%d_%d.npy", i, set.Labels[i]))
		if err := signal.Save(name, set.Images[i].Values(), []int{mnist.ImgSize, mnist.ImgSize}); err != nil {
			return i, err
		}
		_ = bar.Add(1)
	}
	return n, nil
}
