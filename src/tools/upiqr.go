package tools

import (
	"context"

	agent "github.com/Protocol-Lattice/chat-agent"
	"github.com/Protocol-Lattice/chat-agent/src/upiqr"
)

// UPIQRTool renders a UPI payment request as a QR code.
type UPIQRTool struct{}

func (u *UPIQRTool) Spec() agent.ToolSpec {
	return agent.ToolSpec{Name: agent.ToolGenerateUPIQR, Description: "Generate a UPI QR code for payment"}
}

func (u *UPIQRTool) Invoke(_ context.Context, params agent.Params) (any, error) {
	amount, err := params.Float("amount")
	if err != nil {
		return nil, err
	}
	qr, err := upiqr.Encode(params.String("upi_id"), amount)
	if err != nil {
		return nil, err
	}
	return agent.QRCodeResult{QRCode: qr}, nil
}
