package event

import "fmt"

// UnbalancedError describes the first place a stream breaks Start/End pairing.
type UnbalancedError struct {
	Index    int
	Expected Family
	Got      Event
}

func (e *UnbalancedError) Error() string {
	if e.Got == nil {
		return fmt.Sprintf("event %d: stream ended with %s still open", e.Index, e.Expected)
	}
	if e.Expected == 0 {
		return fmt.Sprintf("event %d: unexpected %s with nothing open", e.Index, String(e.Got))
	}
	return fmt.Sprintf("event %d: expected End(%s), got %s", e.Index, e.Expected, String(e.Got))
}

// Validate checks that every Start in events has exactly one matching End and
// that tags nest properly.
func Validate(events []Event) error {
	var stack []Family
	for i, e := range events {
		switch e := e.(type) {
		case Start:
			stack = append(stack, e.Tag.Family())
		case End:
			if len(stack) == 0 {
				return &UnbalancedError{Index: i, Got: e}
			}
			top := stack[len(stack)-1]
			if top != e.Tag.Family() {
				return &UnbalancedError{Index: i, Expected: top, Got: e}
			}
			stack = stack[:len(stack)-1]
		}
	}
	if len(stack) > 0 {
		return &UnbalancedError{Index: len(events), Expected: stack[len(stack)-1]}
	}
	return nil
}
