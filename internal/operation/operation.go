package operation

import "fmt"

// Kind identifies one of the Mpesa API operations. The value doubles as the
// URL resolution key and the gateway route segment.
type Kind string

const (
	B2BPayment        Kind = "b2b_payment"
	B2CPayment        Kind = "b2c_payment"
	C2BRegisterURL    Kind = "c2b_register"
	C2BSimulate       Kind = "c2b_simulate"
	TransactionStatus Kind = "transaction_status"
	AccountBalance    Kind = "account_balance"
	Reversal          Kind = "reversal"
	STKPushQuery      Kind = "stk_push_query"
	STKPushPayment    Kind = "stk_push_process"
)

var all = []Kind{
	B2BPayment,
	B2CPayment,
	C2BRegisterURL,
	C2BSimulate,
	TransactionStatus,
	AccountBalance,
	Reversal,
	STKPushQuery,
	STKPushPayment,
}

// All returns every supported operation in a stable order
func All() []Kind {
	return append([]Kind(nil), all...)
}

// Parse converts a route segment or CLI argument into a Kind
func Parse(s string) (Kind, error) {
	for _, k := range all {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown operation %q", s)
}

func (k Kind) String() string {
	return string(k)
}
