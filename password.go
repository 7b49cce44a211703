package mpesa

import (
	"encoding/base64"
	"time"
)

const timestampLayout = "20060102150405"

// EncodePassword builds the STK push password: base64(shortcode + passkey + timestamp)
func EncodePassword(shortcode, passkey, timestamp string) string {
	return base64.StdEncoding.EncodeToString([]byte(shortcode + passkey + timestamp))
}

// Timestamp formats t as YYYYMMDDHHMMSS
func Timestamp(t time.Time) string {
	return t.Format(timestampLayout)
}
