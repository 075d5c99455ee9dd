// Package lock serializa operaciones concurrentes sobre un mismo requerimiento.
// LocalLocker sirve para una sola instancia; RedisLocker coordina varias réplicas.
package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/mrp-api/internal/application/planning"
	"github.com/jhoicas/mrp-api/internal/domain"
)

var _ planning.Locker = (*LocalLocker)(nil)

// LocalLocker lock por clave en proceso con espera acotada.
type LocalLocker struct {
	mu   sync.Mutex
	keys map[string]*keyLock
	wait time.Duration
}

type keyLock struct {
	sem  chan struct{}
	refs int
}

// NewLocalLocker crea el locker. wait es la espera máxima antes de devolver domain.ErrLocked.
func NewLocalLocker(wait time.Duration) *LocalLocker {
	return &LocalLocker{keys: make(map[string]*keyLock), wait: wait}
}

// Obtain bloquea key hasta obtenerla, agotar la espera o cancelar ctx.
func (l *LocalLocker) Obtain(ctx context.Context, key string) (func(), error) {
	kl := l.acquireRef(key)
	release := func() {
		<-kl.sem
		l.releaseRef(key)
	}

	// Una clave libre se obtiene siempre, aunque la espera sea 0.
	select {
	case kl.sem <- struct{}{}:
		return sync.OnceFunc(release), nil
	default:
	}

	timer := time.NewTimer(l.wait)
	defer timer.Stop()

	select {
	case kl.sem <- struct{}{}:
		return sync.OnceFunc(release), nil
	case <-timer.C:
		l.releaseRef(key)
		return nil, fmt.Errorf("%w: %s", domain.ErrLocked, key)
	case <-ctx.Done():
		l.releaseRef(key)
		return nil, ctx.Err()
	}
}

func (l *LocalLocker) acquireRef(key string) *keyLock {
	l.mu.Lock()
	defer l.mu.Unlock()
	kl, ok := l.keys[key]
	if !ok {
		kl = &keyLock{sem: make(chan struct{}, 1)}
		l.keys[key] = kl
	}
	kl.refs++
	return kl
}

func (l *LocalLocker) releaseRef(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	kl, ok := l.keys[key]
	if !ok {
		return
	}
	kl.refs--
	if kl.refs == 0 {
		delete(l.keys, key)
	}
}

