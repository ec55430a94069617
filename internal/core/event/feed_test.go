package event

import (
	"reflect"
	"testing"
)

func TestFeedDeliversInRegistrationOrder(t *testing.T) {
	var f Feed[int]
	var got []string

	f.Subscribe(func(v int) { got = append(got, "a") })
	f.Subscribe(func(v int) { got = append(got, "b") })
	f.Subscribe(func(v int) { got = append(got, "c") })

	if n := f.Send(1); n != 3 {
		t.Errorf("Send delivered to %d handlers, want 3", n)
	}
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestFeedZeroSubscribers(t *testing.T) {
	var f Feed[string]
	if n := f.Send("nobody"); n != 0 {
		t.Errorf("Send with no subscribers delivered %d", n)
	}
}

func TestFeedUnsubscribe(t *testing.T) {
	var f Feed[int]
	var a, b []int

	subA := f.Subscribe(func(v int) { a = append(a, v) })
	f.Subscribe(func(v int) { b = append(b, v) })

	f.Send(1)
	subA.Unsubscribe()
	subA.Unsubscribe()
	f.Send(2)

	if !reflect.DeepEqual(a, []int{1}) {
		t.Errorf("a = %v, want [1]", a)
	}
	if !reflect.DeepEqual(b, []int{1, 2}) {
		t.Errorf("b = %v, want [1 2]", b)
	}
	if f.Len() != 1 {
		t.Errorf("Len = %d, want 1", f.Len())
	}
	if subA.Active() {
		t.Error("unsubscribed subscription reports active")
	}
	var nilSub *Subscription[int]
	nilSub.Unsubscribe()
}

func TestFeedUnsubscribeDuringSend(t *testing.T) {
	var f Feed[int]
	var calls []string
	var second *Subscription[int]

	var first *Subscription[int]
	first = f.Subscribe(func(v int) {
		calls = append(calls, "first")
		first.Unsubscribe()
		second.Unsubscribe()
	})
	second = f.Subscribe(func(v int) { calls = append(calls, "second") })
	f.Subscribe(func(v int) { calls = append(calls, "third") })

	if n := f.Send(1); n != 2 {
		t.Errorf("delivered %d, want 2", n)
	}
	if want := []string{"first", "third"}; !reflect.DeepEqual(calls, want) {
		t.Errorf("calls = %v, want %v", calls, want)
	}
	if f.Len() != 1 || len(f.subs) != 1 {
		t.Errorf("feed should be compacted to one subscription, have %d", len(f.subs))
	}
}

func TestFeedSubscribeDuringSend(t *testing.T) {
	var f Feed[int]
	var late []int
	f.Subscribe(func(v int) {
		if v == 1 {
			f.Subscribe(func(v int) { late = append(late, v) })
		}
	})

	f.Send(1)
	f.Send(2)
	if !reflect.DeepEqual(late, []int{2}) {
		t.Errorf("late subscriber got %v, want [2]", late)
	}
}
