//go:build !gocv
// +build !gocv

package imaging

import "errors"

func newCLAHEEnhancer() (Enhancer, error) {
	return nil, errors.New("clahe enhancer requires the gocv build tag")
}
