// Package bufferpool provides a simple buffer pool for getting and returning
// temporary byte slices used while draining network responses.
package bufferpool

import (
	"bytes"
	"io"
	"sync"
)

// BufPool is an interface for getting and returning temporary
// byte slices.
type BufPool interface {
	Get() []byte
	Put([]byte)
}

type pool struct {
	pool *sync.Pool
}

// NewPool creates a new buffer pool handing out slices of the given size.
func NewPool(size int) BufPool {
	return &pool{
		&sync.Pool{
			New: func() interface{} { return make([]byte, size) },
		},
	}
}

// Get implements the BufPool interface.
func (p *pool) Get() []byte {
	return p.pool.Get().([]byte)
}

// Put implements the BufPool interface.
func (p *pool) Put(b []byte) {
	if cap(b) == 0 || len(b) != cap(b) {
		// Invalid buffer size, discard the buffer
		return
	}
	p.pool.Put(b)
}

// ReadAll reads r until EOF using a buffer borrowed from p.
func ReadAll(r io.Reader, p BufPool) ([]byte, error) {
	buf := p.Get()
	defer p.Put(buf)

	var out bytes.Buffer
	for {
		n, err := r.Read(buf)
		out.Write(buf[:n])
		if err == io.EOF {
			return out.Bytes(), nil
		}
		if err != nil {
			return out.Bytes(), err
		}
	}
}
