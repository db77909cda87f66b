package system

import (
	"bytes"
	"image"
	"sync"
)

// SurfacePool переиспользует кадровые поверхности *image.RGBA одного
// размера, чтобы экспорт тысяч кадров не нагружал GC.
type SurfacePool struct {
	mu    sync.RWMutex
	pools map[image.Point]*sync.Pool
}

func NewSurfacePool() *SurfacePool {
	return &SurfacePool{pools: make(map[image.Point]*sync.Pool)}
}

// Get returns a w x h surface. Its pixels are whatever the previous user
// left; callers must overwrite it completely.
func (p *SurfacePool) Get(w, h int) *image.RGBA {
	return p.pool(image.Pt(w, h)).Get().(*image.RGBA)
}

func (p *SurfacePool) Put(img *image.RGBA) {
	if img == nil {
		return
	}
	key := img.Rect.Size()
	p.mu.RLock()
	pool, ok := p.pools[key]
	p.mu.RUnlock()
	if ok {
		pool.Put(img)
	}
}

func (p *SurfacePool) pool(size image.Point) *sync.Pool {
	p.mu.RLock()
	pool, ok := p.pools[size]
	p.mu.RUnlock()
	if ok {
		return pool
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	// Double check
	if pool, ok = p.pools[size]; ok {
		return pool
	}
	pool = &sync.Pool{
		New: func() interface{} {
			return image.NewRGBA(image.Rectangle{Max: size})
		},
	}
	p.pools[size] = pool
	return pool
}

// BufferPool keeps byte buffers for encoded frames.
type BufferPool struct {
	pool sync.Pool
}

func (b *BufferPool) Get() *bytes.Buffer {
	if buf, ok := b.pool.Get().(*bytes.Buffer); ok {
		buf.Reset()
		return buf
	}
	return new(bytes.Buffer)
}

func (b *BufferPool) Put(buf *bytes.Buffer) {
	if buf != nil {
		b.pool.Put(buf)
	}
}
