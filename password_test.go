package mpesa

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodePassword(t *testing.T) {
	got := EncodePassword(
		"174379",
		"bfb279f9aa9bdbcf158e97dd71a467cd2e0c893059b10f78e6b72ada1ed2c919",
		"20231001120000",
	)
	assert.Equal(t, "MTc0Mzc5YmZiMjc5ZjlhYTliZGJjZjE1OGU5N2RkNzFhNDY3Y2QyZTBjODkzMDU5YjEwZjc4ZTZiNzJhZGExZWQyYzkxOTIwMjMxMDAxMTIwMDAw", got)

	decoded, err := base64.StdEncoding.DecodeString(EncodePassword("1", "2", "3"))
	require.NoError(t, err)
	assert.Equal(t, "123", string(decoded))
}

func TestTimestamp(t *testing.T) {
	ts := Timestamp(time.Date(2023, 10, 1, 9, 5, 7, 0, time.UTC))
	assert.Equal(t, "20231001090507", ts)
	assert.Len(t, ts, 14)
}
