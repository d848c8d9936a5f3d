package agent

import "time"

// QRCodeResult is what the generate_upi_qr tool returns.
type QRCodeResult struct {
	QRCode string `json:"qrCode"`
}

// ImageResult is what the generate_image tool returns.
type ImageResult struct {
	Image string `json:"image"`
}

// Envelope is the response to one tool-dispatch request. Durations encode as
// integer nanoseconds.
type Envelope struct {
	Tool          ToolName      `json:"tool"`
	Explanation   string        `json:"explanation"`
	AgentMessage  Message       `json:"agentMessage"`
	Result        any           `json:"result"`
	TotalDuration time.Duration `json:"total_duration"`
	LoadDuration  time.Duration `json:"load_duration"`
}

func buildEnvelope(d Decision, msg Message, result any, total, load time.Duration) *Envelope {
	return &Envelope{
		Tool:          d.Tool,
		Explanation:   d.Explanation,
		AgentMessage:  msg,
		Result:        result,
		TotalDuration: total,
		LoadDuration:  load,
	}
}
