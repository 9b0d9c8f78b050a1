package pool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolGetPut(t *testing.T) {
	callCount := 0
	p := New(func() *int {
		callCount++
		v := 42
		return &v
	})

	item1 := p.Get()
	require.NotNil(t, item1, "expected non-nil item from Get")
	assert.Equal(t, 42, *item1)

	p.Put(item1)

	item2 := p.Get()
	require.NotNil(t, item2, "expected non-nil item from second Get")
}

func TestPoolConcurrentAccess(t *testing.T) {
	p := New(func() []byte {
		return make([]byte, 1024)
	})

	var wg sync.WaitGroup
	const goroutines = 100
	const iterations = 100

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				buf := p.Get()
				assert.Len(t, buf, 1024)
				buf[0] = byte(j)
				p.Put(buf)
			}
		}()
	}

	wg.Wait()
}

func TestPoolDifferentTypes(t *testing.T) {
	t.Run("string pool", func(t *testing.T) {
		p := New(func() string {
			return "default"
		})
		s := p.Get()
		assert.Equal(t, "default", s)
		p.Put("custom")
	})

	t.Run("struct pool", func(t *testing.T) {
		type Item struct {
			ID   int
			Name string
		}
		p := New(func() *Item {
			return &Item{ID: 0, Name: "new"}
		})
		item := p.Get()
		assert.Equal(t, "new", item.Name)
		item.ID = 123
		item.Name = "modified"
		p.Put(item)
	})
}

func TestNewByteSlicePoolSizesBuffers(t *testing.T) {
	p := NewByteSlicePool(4096)

	bufPtr := p.Get()
	require.NotNil(t, bufPtr)
	assert.Len(t, *bufPtr, 4096)

	// Simulate a short read: caller reslices down, then restores the
	// original length before returning the buffer, the way UDPServer's
	// recvLoop/handlePacket pair does across a Get/Put cycle.
	short := (*bufPtr)[:32]
	assert.Len(t, short, 32)

	p.Put(bufPtr)
	bufPtr2 := p.Get()
	assert.Len(t, *bufPtr2, 4096)
}
