package validate_test

import (
	"testing"

	"github.com/minichain/ledger/foundation/validate"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

type transfer struct {
	Sender string `json:"sender" validate:"required"`
	Amount int64  `json:"amount" validate:"gte=0"`
}

func TestCheck(t *testing.T) {
	t.Log("Given the need to validate a model.")
	{
		t.Logf("\tTest 0:\tWhen the model is valid.")
		{
			if err := validate.Check(transfer{Sender: "Alice", Amount: 10}); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould not get an error: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould not get an error.", success)
		}

		t.Logf("\tTest 1:\tWhen the model breaks two rules.")
		{
			err := validate.Check(transfer{Amount: -1})
			if !validate.IsFieldErrors(err) {
				t.Fatalf("\t%s\tTest 1:\tShould get field errors, got %v.", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould get field errors.", success)

			fields := validate.GetFieldErrors(err).Fields()
			if _, exists := fields["sender"]; !exists {
				t.Fatalf("\t%s\tTest 1:\tShould report the sender by its json name, got %v.", failed, fields)
			}
			if _, exists := fields["amount"]; !exists {
				t.Fatalf("\t%s\tTest 1:\tShould report the amount by its json name, got %v.", failed, fields)
			}
			t.Logf("\t%s\tTest 1:\tShould report fields by their json names.", success)
		}
	}
}
