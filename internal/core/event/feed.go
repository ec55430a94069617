package event

// Feed delivers events of type T synchronously to its subscribers, in
// registration order, on the caller's goroutine. A Feed is owned by the
// component that sends on it; there is no global bus. Game-loop goroutine
// only.
type Feed[T any] struct {
	subs    []*Subscription[T]
	sending bool
	dirty   bool
}

// Subscription is the handle returned by Subscribe. Unsubscribe detaches the
// handler; it is safe to call more than once and from inside a handler.
type Subscription[T any] struct {
	feed *Feed[T]
	fn   func(T)
}

// Subscribe registers fn and returns its subscription.
func (f *Feed[T]) Subscribe(fn func(T)) *Subscription[T] {
	s := &Subscription[T]{feed: f, fn: fn}
	f.subs = append(f.subs, s)
	return s
}

// Unsubscribe stops delivery to this subscription.
func (s *Subscription[T]) Unsubscribe() {
	if s == nil || s.fn == nil {
		return
	}
	s.fn = nil
	f := s.feed
	if f.sending {
		// compacted once the current Send returns
		f.dirty = true
		return
	}
	f.compact()
}

// Active reports whether the subscription still receives events.
func (s *Subscription[T]) Active() bool {
	return s != nil && s.fn != nil
}

// Send delivers ev to every active subscriber before returning and reports
// how many handlers ran. Zero subscribers is not an error. Subscribers added
// during a Send first receive the next event.
func (f *Feed[T]) Send(ev T) int {
	n := len(f.subs)
	f.sending = true
	delivered := 0
	for i := 0; i < n; i++ {
		if fn := f.subs[i].fn; fn != nil {
			fn(ev)
			delivered++
		}
	}
	f.sending = false
	if f.dirty {
		f.compact()
	}
	return delivered
}

// Len returns the number of active subscriptions.
func (f *Feed[T]) Len() int {
	n := 0
	for _, s := range f.subs {
		if s.fn != nil {
			n++
		}
	}
	return n
}

func (f *Feed[T]) compact() {
	kept := f.subs[:0]
	for _, s := range f.subs {
		if s.fn != nil {
			kept = append(kept, s)
		}
	}
	for i := len(kept); i < len(f.subs); i++ {
		f.subs[i] = nil
	}
	f.subs = kept
	f.dirty = false
}
