package schema

import "github.com/dvcrn/mpesa-go/internal/operation"

// Sample returns a payload that passes validation for the operation, using
// the public Daraja sandbox values. The CLI prints these as templates.
func Sample(kind operation.Kind) map[string]interface{} {
	build, ok := samples[kind]
	if !ok {
		return nil
	}
	return build()
}

const (
	sampleResultURL  = "https://example.com/mpesa/result"
	sampleTimeoutURL = "https://example.com/mpesa/timeout"
)

var samples = map[operation.Kind]func() map[string]interface{}{
	operation.B2BPayment: func() map[string]interface{} {
		return map[string]interface{}{
			"Initiator":              "testapi",
			"SecurityCredential":     "c2VjdXJpdHk=",
			"CommandID":              "BusinessPayBill",
			"SenderIdentifierType":   "4",
			"RecieverIdentifierType": "4",
			"Amount":                 10,
			"PartyA":                 "600992",
			"PartyB":                 "600000",
			"AccountReference":       "353353",
			"Remarks":                "ok",
			"QueueTimeOutURL":        sampleTimeoutURL,
			"ResultURL":              sampleResultURL,
		}
	},
	operation.B2CPayment: func() map[string]interface{} {
		return map[string]interface{}{
			"InitiatorName":      "testapi",
			"SecurityCredential": "c2VjdXJpdHk=",
			"CommandID":          "BusinessPayment",
			"Amount":             10,
			"PartyA":             "600996",
			"PartyB":             "254708374149",
			"Remarks":            "salary",
			"QueueTimeOutURL":    sampleTimeoutURL,
			"ResultURL":          sampleResultURL,
		}
	},
	operation.C2BRegisterURL: func() map[string]interface{} {
		return map[string]interface{}{
			"ShortCode":       "600984",
			"ResponseType":    "Completed",
			"ConfirmationURL": "https://example.com/mpesa/confirmation",
			"ValidationURL":   "https://example.com/mpesa/validation",
		}
	},
	operation.C2BSimulate: func() map[string]interface{} {
		return map[string]interface{}{
			"ShortCode":     "600984",
			"CommandID":     "CustomerPayBillOnline",
			"Amount":        1,
			"Msisdn":        "254708374149",
			"BillRefNumber": "invoice-1",
		}
	},
	operation.TransactionStatus: func() map[string]interface{} {
		return map[string]interface{}{
			"Initiator":          "testapi",
			"SecurityCredential": "c2VjdXJpdHk=",
			"CommandID":          "TransactionStatusQuery",
			"TransactionID":      "OEI2AK4Q16",
			"PartyA":             "600782",
			"IdentifierType":     "4",
			"ResultURL":          sampleResultURL,
			"QueueTimeOutURL":    sampleTimeoutURL,
			"Remarks":            "status",
		}
	},
	operation.AccountBalance: func() map[string]interface{} {
		return map[string]interface{}{
			"Initiator":          "testapi",
			"SecurityCredential": "c2VjdXJpdHk=",
			"CommandID":          "AccountBalance",
			"PartyA":             "600772",
			"IdentifierType":     "4",
			"Remarks":            "balance",
			"QueueTimeOutURL":    sampleTimeoutURL,
			"ResultURL":          sampleResultURL,
		}
	},
	operation.Reversal: func() map[string]interface{} {
		return map[string]interface{}{
			"Initiator":              "testapi",
			"SecurityCredential":     "c2VjdXJpdHk=",
			"CommandID":              "TransactionReversal",
			"TransactionID":          "PDU91HIVIT",
			"Amount":                 200,
			"ReceiverParty":          "603021",
			"RecieverIdentifierType": "11",
			"ResultURL":              sampleResultURL,
			"QueueTimeOutURL":        sampleTimeoutURL,
			"Remarks":                "reversal",
		}
	},
	operation.STKPushQuery: func() map[string]interface{} {
		return map[string]interface{}{
			"BusinessShortCode": "174379",
			"Password":          "MTc0Mzc5YmZiMjc5ZjlhYTliZGJjZjE1OGU5N2RkNzFhNDY3Y2QyZTBjODkzMDU5YjEwZjc4ZTZiNzJhZGExZWQyYzkxOTIwMjMxMDAxMTIwMDAw",
			"Timestamp":         "20231001120000",
			"CheckoutRequestID": "ws_CO_260520211133524545",
		}
	},
	operation.STKPushPayment: func() map[string]interface{} {
		return map[string]interface{}{
			"BusinessShortCode": "174379",
			"Password":          "MTc0Mzc5YmZiMjc5ZjlhYTliZGJjZjE1OGU5N2RkNzFhNDY3Y2QyZTBjODkzMDU5YjEwZjc4ZTZiNzJhZGExZWQyYzkxOTIwMjMxMDAxMTIwMDAw",
			"Timestamp":         "20231001120000",
			"TransactionType":   "CustomerPayBillOnline",
			"Amount":            1,
			"PartyA":            "254708374149",
			"PartyB":            "174379",
			"PhoneNumber":       "254708374149",
			"CallBackURL":       "https://example.com/mpesa/callback",
			"AccountReference":  "order-42",
			"TransactionDesc":   "payment",
		}
	},
}
