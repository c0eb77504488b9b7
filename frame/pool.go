// pool.go implements a pool for reusing decoded frames.

package frame

import (
	"github.com/xaionaro-go/avanim/pool"
)

var Pool = pool.NewPool(
	func() *Frame { return &Frame{} },
	func(f *Frame) { f.Reset() },
	nil,
)

// Clone returns a deep copy of src allocated from the Pool.
func Clone(src *Frame) (*Frame, error) {
	dst := Pool.Get()
	if err := dst.CopyFrom(src); err != nil {
		Pool.Put(dst)
		return nil, err
	}
	return dst, nil
}
