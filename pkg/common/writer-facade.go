package common

import (
	"fmt"
	"io"
	"sync"
)

// WriterFacade writes to all of its delegates. The delegates can be
// replaced while it is in use.
type WriterFacade struct {
	delegates []io.Writer
	mutex     sync.RWMutex
}

func NewWriterFacade(delegates ...io.Writer) *WriterFacade {
	return &WriterFacade{delegates: delegates}
}

func (this *WriterFacade) Write(p []byte) (n int, err error) {
	this.mutex.RLock()
	defer this.mutex.RUnlock()

	n = len(p)
	for i, w := range this.delegates {
		var nn int
		if nn, err = w.Write(p); err != nil {
			return nn, err
		}
		if nn != len(p) {
			return nn, fmt.Errorf("writer #%d wrote only %d of %d bytes", i, nn, len(p))
		}
	}

	return n, nil
}

// Set replaces the delegates and returns the previous ones. whileChange is
// called while no write can happen.
func (this *WriterFacade) Set(next []io.Writer, whileChange ...func(current, next []io.Writer)) (previous []io.Writer) {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	current := this.delegates
	for _, fn := range whileChange {
		fn(current, next)
	}
	this.delegates = next
	return current
}
