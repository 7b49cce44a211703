package schema

import "github.com/dvcrn/mpesa-go/internal/operation"

func text(name string) field   { return field{name: name, kind: kindText} }
func url(name string) field    { return field{name: name, kind: kindURL} }
func code(name string) field   { return field{name: name, kind: kindCode} }
func amount(name string) field { return field{name: name, kind: kindAmount} }

func optional(f field) field {
	f.optional = true
	return f
}

func oneOf(f field, values ...string) field {
	for _, v := range values {
		f.allowed = append(f.allowed, v)
	}
	return f
}

// Field spellings follow the Daraja API, including its typos
// (RecieverIdentifierType, Occassion).
var registry = map[operation.Kind]*Schema{
	operation.B2BPayment: newSchema("B2BPaymentRequest",
		text("Initiator"),
		text("SecurityCredential"),
		text("CommandID"),
		code("SenderIdentifierType"),
		code("RecieverIdentifierType"),
		amount("Amount"),
		code("PartyA"),
		code("PartyB"),
		text("AccountReference"),
		text("Remarks"),
		url("QueueTimeOutURL"),
		url("ResultURL"),
		optional(code("Requester")),
	),
	operation.B2CPayment: newSchema("B2CPaymentRequest",
		text("InitiatorName"),
		text("SecurityCredential"),
		text("CommandID"),
		amount("Amount"),
		code("PartyA"),
		code("PartyB"),
		text("Remarks"),
		url("QueueTimeOutURL"),
		url("ResultURL"),
		optional(text("Occassion")),
		optional(text("OriginatorConversationID")),
	),
	operation.C2BRegisterURL: newSchema("C2BRegisterURL",
		code("ShortCode"),
		oneOf(text("ResponseType"), "Completed", "Cancelled"),
		url("ConfirmationURL"),
		url("ValidationURL"),
	),
	operation.C2BSimulate: newSchema("C2BSimulateTransaction",
		code("ShortCode"),
		text("CommandID"),
		amount("Amount"),
		code("Msisdn"),
		optional(text("BillRefNumber")),
	),
	operation.TransactionStatus: newSchema("TransactionStatusRequest",
		text("Initiator"),
		text("SecurityCredential"),
		text("CommandID"),
		text("TransactionID"),
		code("PartyA"),
		code("IdentifierType"),
		url("ResultURL"),
		url("QueueTimeOutURL"),
		text("Remarks"),
		optional(text("Occasion")),
		optional(text("OriginalConversationID")),
	),
	operation.AccountBalance: newSchema("AccountBalanceRequest",
		text("Initiator"),
		text("SecurityCredential"),
		text("CommandID"),
		code("PartyA"),
		code("IdentifierType"),
		text("Remarks"),
		url("QueueTimeOutURL"),
		url("ResultURL"),
	),
	operation.Reversal: newSchema("ReversalRequest",
		text("Initiator"),
		text("SecurityCredential"),
		text("CommandID"),
		text("TransactionID"),
		amount("Amount"),
		code("ReceiverParty"),
		code("RecieverIdentifierType"),
		url("ResultURL"),
		url("QueueTimeOutURL"),
		text("Remarks"),
		optional(text("Occasion")),
	),
	operation.STKPushQuery: newSchema("LipaNaMpesaOnlineQuery",
		code("BusinessShortCode"),
		text("Password"),
		code("Timestamp"),
		text("CheckoutRequestID"),
	),
	operation.STKPushPayment: newSchema("LipaNaMpesaOnlinePayment",
		code("BusinessShortCode"),
		text("Password"),
		code("Timestamp"),
		oneOf(text("TransactionType"), "CustomerPayBillOnline", "CustomerBuyGoodsOnline"),
		amount("Amount"),
		code("PartyA"),
		code("PartyB"),
		code("PhoneNumber"),
		url("CallBackURL"),
		text("AccountReference"),
		text("TransactionDesc"),
	),
}
