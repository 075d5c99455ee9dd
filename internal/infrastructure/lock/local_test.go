package lock_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mrp-api/internal/domain"
	"github.com/jhoicas/mrp-api/internal/infrastructure/lock"
)

func TestLocalLocker_SegundoObtainEsperaYFalla(t *testing.T) {
	l := lock.NewLocalLocker(50 * time.Millisecond)

	release, err := l.Obtain(context.Background(), "mrp:requirement:1")
	require.NoError(t, err)
	defer release()

	_, err = l.Obtain(context.Background(), "mrp:requirement:1")
	assert.ErrorIs(t, err, domain.ErrLocked)
}

func TestLocalLocker_ClavesDistintasNoSeBloquean(t *testing.T) {
	l := lock.NewLocalLocker(50 * time.Millisecond)

	r1, err := l.Obtain(context.Background(), "a")
	require.NoError(t, err)
	defer r1()

	r2, err := l.Obtain(context.Background(), "b")
	require.NoError(t, err)
	r2()
}

func TestLocalLocker_LiberarPermiteReobtener(t *testing.T) {
	l := lock.NewLocalLocker(50 * time.Millisecond)

	release, err := l.Obtain(context.Background(), "k")
	require.NoError(t, err)
	release()
	release() // idempotente

	again, err := l.Obtain(context.Background(), "k")
	require.NoError(t, err)
	again()
}

func TestLocalLocker_ContextoCancelado(t *testing.T) {
	l := lock.NewLocalLocker(time.Second)

	release, err := l.Obtain(context.Background(), "k")
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.Obtain(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLocalLocker_ExclusionMutua(t *testing.T) {
	l := lock.NewLocalLocker(5 * time.Second)

	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := l.Obtain(context.Background(), "shared")
			if !assert.NoError(t, err) {
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			release()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside)
}

func TestLocalLocker_EsperaCeroObtieneClaveLibre(t *testing.T) {
	l := lock.NewLocalLocker(0)

	for i := 0; i < 500; i++ {
		release, err := l.Obtain(context.Background(), "mrp:requirement:1")
		require.NoError(t, err, "intento %d", i)
		release()
	}

	release, err := l.Obtain(context.Background(), "mrp:requirement:1")
	require.NoError(t, err)
	defer release()
	_, err = l.Obtain(context.Background(), "mrp:requirement:1")
	assert.ErrorIs(t, err, domain.ErrLocked)
}
