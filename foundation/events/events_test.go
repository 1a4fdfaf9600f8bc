package events_test

import (
	"fmt"
	"testing"

	"github.com/minichain/ledger/foundation/events"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestEvents(t *testing.T) {
	t.Log("Given the need to fan out events to subscribers.")
	{
		t.Logf("\tTest 0:\tWhen two subscribers are registered.")
		{
			evts := events.New()

			id1, ch1 := evts.Acquire()
			id2, ch2 := evts.Acquire()

			if id1 == id2 {
				t.Fatalf("\t%s\tTest 0:\tShould get unique ids, got %s twice.", failed, id1)
			}
			t.Logf("\t%s\tTest 0:\tShould get unique ids.", success)

			evts.Send("mined")

			for i, ch := range []<-chan string{ch1, ch2} {
				if msg := <-ch; msg != "mined" {
					t.Fatalf("\t%s\tTest 0:\tShould deliver to subscriber %d, got %q.", failed, i, msg)
				}
			}
			t.Logf("\t%s\tTest 0:\tShould deliver to every subscriber.", success)

			if err := evts.Release(id1); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to release: %v", failed, err)
			}
			if _, open := <-ch1; open {
				t.Fatalf("\t%s\tTest 0:\tShould close a released channel.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould close a released channel.", success)

			if err := evts.Release(id1); err == nil {
				t.Fatalf("\t%s\tTest 0:\tShould not release an id twice.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould not release an id twice.", success)

			evts.Shutdown()
			if _, open := <-ch2; open || evts.Count() != 0 {
				t.Fatalf("\t%s\tTest 0:\tShould close every channel on shutdown.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould close every channel on shutdown.", success)
		}

		t.Logf("\tTest 1:\tWhen a subscriber is not reading.")
		{
			evts := events.New()
			_, ch := evts.Acquire()

			for i := 0; i < 500; i++ {
				evts.Send(fmt.Sprintf("event %d", i))
			}

			if len(ch) != cap(ch) {
				t.Fatalf("\t%s\tTest 1:\tShould fill the buffer and drop the rest, got %d of %d.", failed, len(ch), cap(ch))
			}
			t.Logf("\t%s\tTest 1:\tShould fill the buffer and drop the rest.", success)
		}
	}
}
