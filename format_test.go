package agent

import (
	"encoding/json"
	"testing"

	"github.com/Protocol-Lattice/chat-agent/src/todo"
	"github.com/Protocol-Lattice/chat-agent/src/weather"
)

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(b)
}

func TestFormatGetTodos(t *testing.T) {
	d := Decision{Tool: ToolGetTodos, AgentMessage: "Here are your tasks"}

	if got := FormatMessage(d, []todo.Todo{}); got != TextMessage("You have no tasks at the moment") {
		t.Fatalf("unexpected empty message %q", got)
	}
	got := FormatMessage(d, []todo.Todo{{Title: "A"}, {Title: "B"}})
	if got != TextMessage("You have 2 task(s) for now: [1] A, [2] B") {
		t.Fatalf("unexpected list message %q", got)
	}
}

func TestFormatDeleteTodo(t *testing.T) {
	d := Decision{Tool: ToolDeleteTodo, AgentMessage: "model text"}

	if got := FormatMessage(d, &todo.Todo{Title: "X"}); got != TextMessage("Task 'X' has been deleted") {
		t.Fatalf("unexpected delete message %q", got)
	}
	var none *todo.Todo
	if got := FormatMessage(d, none); got != TextMessage("No matching task found to delete") {
		t.Fatalf("unexpected miss message %q", got)
	}
	if got := FormatMessage(d, nil); got != TextMessage("No matching task found to delete") {
		t.Fatalf("unexpected untyped-nil message %q", got)
	}
}

func TestFormatWeather(t *testing.T) {
	d := Decision{Tool: ToolGetWeather}
	got := FormatMessage(d, []weather.Reading{
		{City: "Pune", Description: "clear sky", Temperature: 23.6, Humidity: 40},
		{City: "Delhi", Description: "haze", Temperature: 30.4, Humidity: 22},
	})
	want := TextMessage("Pune: clear sky with temperature of 24°C and 40% humidity\nDelhi: haze with temperature of 30°C and 22% humidity")
	if got != want {
		t.Fatalf("want %q got %q", want, got)
	}
}

func TestRoundHalfUp(t *testing.T) {
	cases := map[float64]int64{
		22.5:  23,
		23.49: 23,
		-2.5:  -2,
		-2.51: -3,
		0.5:   1,
		-0.5:  0,
	}
	for in, want := range cases {
		if got := roundHalfUp(in); got != want {
			t.Fatalf("roundHalfUp(%v) = %d, want %d", in, got, want)
		}
	}
}

func TestFormatQRCodeAlwaysRich(t *testing.T) {
	d := Decision{Tool: ToolGenerateUPIQR, Params: Params{"upi_id": "a@b", "amount": float64(200)}, AgentMessage: "text"}
	for _, result := range []any{QRCodeResult{QRCode: "data:image/png;base64,AA"}, nil, "unexpected"} {
		msg := FormatMessage(d, result)
		if _, ok := msg.(QRCodeMessage); !ok {
			t.Fatalf("expected QRCodeMessage for %v, got %T", result, msg)
		}
	}
	got := mustJSON(t, FormatMessage(d, QRCodeResult{QRCode: "data:qr"}))
	want := `{"type":"qr-code","loading":true,"data":{"qrCode":"data:qr","amount":200}}`
	if got != want {
		t.Fatalf("want %s got %s", want, got)
	}
}

func TestFormatGeneratedImageAlwaysRich(t *testing.T) {
	d := Decision{Tool: ToolGenerateImage, Params: Params{"prompt": "a sunset"}}
	got := mustJSON(t, FormatMessage(d, ImageResult{Image: "data:image/png;base64,AA"}))
	want := `{"type":"generated-image","loading":true,"data":{"image":"data:image/png;base64,AA","prompt":"a sunset"}}`
	if got != want {
		t.Fatalf("want %s got %s", want, got)
	}
	if _, ok := FormatMessage(d, 42).(GeneratedImageMessage); !ok {
		t.Fatalf("expected GeneratedImageMessage regardless of result")
	}
}

func TestFormatFallsBackToAgentMessage(t *testing.T) {
	d := Decision{Tool: ToolAddTodo, AgentMessage: "Added new task: Buy groceries"}
	got := FormatMessage(d, todo.Todo{Title: "Buy groceries"})
	if got != TextMessage("Added new task: Buy groceries") {
		t.Fatalf("unexpected message %q", got)
	}
	if s := mustJSON(t, got); s != `"Added new task: Buy groceries"` {
		t.Fatalf("text message must encode as a JSON string, got %s", s)
	}
}
