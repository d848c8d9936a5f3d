// Package upiqr renders UPI payment requests as PNG QR codes.
package upiqr

import (
	"encoding/base64"
	"errors"
	"math"
	"net/url"
	"strconv"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

const imageSize = 256

var (
	ErrMissingID     = errors.New("upi_id is required")
	ErrInvalidAmount = errors.New("amount must be a positive number")
)

// PaymentURI builds the upi://pay deep link scanned by UPI apps.
func PaymentURI(upiID string, amount float64) (string, error) {
	upiID = strings.TrimSpace(upiID)
	if upiID == "" {
		return "", ErrMissingID
	}
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "", ErrInvalidAmount
	}

	return "upi://pay?pa=" + escapePayee(upiID) +
		"&am=" + strconv.FormatFloat(amount, 'f', -1, 64) +
		"&cu=INR", nil
}

// escapePayee query-escapes a VPA but leaves "@" literal.
func escapePayee(upiID string) string {
	return strings.ReplaceAll(url.QueryEscape(upiID), "%40", "@")
}

// Encode returns the payment QR code as a data:image/png;base64 URI.
func Encode(upiID string, amount float64) (string, error) {
	uri, err := PaymentURI(upiID, amount)
	if err != nil {
		return "", err
	}
	png, err := qrcode.Encode(uri, qrcode.Medium, imageSize)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
