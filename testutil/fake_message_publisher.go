// Package testutil provides shared fakes for tests.
package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/dcbdemo/shopping-cart-engine-go/cart/shell"
)

// ErrPublishFailed is returned by a FakeMessagePublisher in failing mode.
var ErrPublishFailed = errors.New("publish failed")

// FakeMessagePublisher is an in-memory shell.MessagePublisher for tests.
// It records every published cart and can be switched into a failing mode.
// Safe for concurrent use.
type FakeMessagePublisher struct {
	mu         sync.Mutex
	published  []shell.PublishableCart
	shouldFail bool
}

// NewFakeMessagePublisher creates a publisher that accepts every cart.
func NewFakeMessagePublisher() *FakeMessagePublisher {
	return &FakeMessagePublisher{}
}

// Publish records the cart, or fails without recording when in failing mode.
func (f *FakeMessagePublisher) Publish(_ context.Context, cart shell.PublishableCart) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.shouldFail {
		return ErrPublishFailed
	}

	f.published = append(f.published, cart)

	return nil
}

// FailNextPublishes switches the publisher into failing mode.
func (f *FakeMessagePublisher) FailNextPublishes() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.shouldFail = true
}

// SucceedNextPublishes switches the publisher back into accepting mode.
func (f *FakeMessagePublisher) SucceedNextPublishes() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.shouldFail = false
}

// Published returns a copy of all carts published so far.
func (f *FakeMessagePublisher) Published() []shell.PublishableCart {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]shell.PublishableCart, len(f.published))
	copy(out, f.published)

	return out
}
