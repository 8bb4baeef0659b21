package domain

// CheckoutState is a step of one checkout attempt.
type CheckoutState string

const (
	CheckoutBrowsing    CheckoutState = "browsing"
	CheckoutEmpty       CheckoutState = "empty"
	CheckoutFormEntry   CheckoutState = "form_entry"
	CheckoutSubmitting  CheckoutState = "submitting"
	CheckoutRedirecting CheckoutState = "redirecting"
	CheckoutFailed      CheckoutState = "failed"
)

var checkoutTransitions = map[CheckoutState][]CheckoutState{
	CheckoutBrowsing:   {CheckoutEmpty, CheckoutFormEntry},
	CheckoutFormEntry:  {CheckoutFormEntry, CheckoutSubmitting, CheckoutEmpty},
	CheckoutSubmitting: {CheckoutRedirecting, CheckoutFailed},
	CheckoutFailed:     {CheckoutFormEntry},
}

// CanTransitionTo reports whether a checkout attempt may move from one state
// to the next. Empty and Redirecting are terminal.
func (s CheckoutState) CanTransitionTo(next CheckoutState) bool {
	for _, allowed := range checkoutTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s CheckoutState) String() string {
	return string(s)
}

// PaymentState is a step of the payment return flow.
type PaymentState string

const (
	PaymentInitializing       PaymentState = "initializing"
	PaymentVerifying          PaymentState = "verifying"
	PaymentVerified           PaymentState = "verified"
	PaymentVerificationFailed PaymentState = "verification_failed"
)

func (s PaymentState) IsTerminal() bool {
	return s == PaymentVerified || s == PaymentVerificationFailed
}

func (s PaymentState) String() string {
	return string(s)
}
