package agent

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Protocol-Lattice/chat-agent/src/todo"
	"github.com/Protocol-Lattice/chat-agent/src/weather"
)

// Message is the display payload of an Envelope: plain text, or one of the
// rich variants the chat UI renders as a widget.
type Message interface {
	json.Marshaler
	message()
}

const (
	MessageTypeQRCode         = "qr-code"
	MessageTypeGeneratedImage = "generated-image"
)

// TextMessage is assistant-visible text and encodes as a JSON string.
type TextMessage string

// QRCodeMessage shows a payment QR code together with the requested amount.
type QRCodeMessage struct {
	QRCode string `json:"qrCode"`
	Amount any    `json:"amount"`
}

// GeneratedImageMessage shows a generated image together with its prompt.
type GeneratedImageMessage struct {
	Image  string `json:"image"`
	Prompt any    `json:"prompt"`
}

// richMessage is the wire shape shared by the non-text variants.
type richMessage struct {
	Type    string `json:"type"`
	Loading bool   `json:"loading"`
	Data    any    `json:"data"`
}

func (TextMessage) message()           {}
func (QRCodeMessage) message()         {}
func (GeneratedImageMessage) message() {}

func (m TextMessage) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(m))
}

func (m QRCodeMessage) MarshalJSON() ([]byte, error) {
	type data QRCodeMessage
	return json.Marshal(richMessage{Type: MessageTypeQRCode, Loading: true, Data: data(m)})
}

func (m GeneratedImageMessage) MarshalJSON() ([]byte, error) {
	type data GeneratedImageMessage
	return json.Marshal(richMessage{Type: MessageTypeGeneratedImage, Loading: true, Data: data(m)})
}

// FormatMessage turns a tool result into its display message. It is a pure
// function of the decision and the result. Tools without a dedicated format
// show the model's own agentMessage.
func FormatMessage(d Decision, result any) Message {
	switch d.Tool {
	case ToolGetTodos:
		todos, _ := result.([]todo.Todo)
		return formatTodoList(todos)
	case ToolDeleteTodo:
		deleted, _ := result.(*todo.Todo)
		if deleted == nil {
			return TextMessage("No matching task found to delete")
		}
		return TextMessage(fmt.Sprintf("Task '%s' has been deleted", deleted.Title))
	case ToolGetWeather:
		readings, _ := result.([]weather.Reading)
		return formatWeather(readings)
	case ToolGenerateUPIQR:
		qr, _ := result.(QRCodeResult)
		return QRCodeMessage{QRCode: qr.QRCode, Amount: d.Params["amount"]}
	case ToolGenerateImage:
		img, _ := result.(ImageResult)
		return GeneratedImageMessage{Image: img.Image, Prompt: d.Params["prompt"]}
	case ToolAddTodo:
		return TextMessage(d.AgentMessage)
	default:
		return TextMessage(d.AgentMessage)
	}
}

func formatTodoList(todos []todo.Todo) TextMessage {
	if len(todos) == 0 {
		return "You have no tasks at the moment"
	}
	items := make([]string, len(todos))
	for i, t := range todos {
		items[i] = fmt.Sprintf("[%d] %s", i+1, t.Title)
	}
	return TextMessage(fmt.Sprintf("You have %d task(s) for now: %s", len(todos), strings.Join(items, ", ")))
}

func formatWeather(readings []weather.Reading) TextMessage {
	lines := make([]string, len(readings))
	for i, r := range readings {
		lines[i] = fmt.Sprintf("%s: %s with temperature of %d°C and %s%% humidity",
			r.City, r.Description, roundHalfUp(r.Temperature), strconv.FormatFloat(r.Humidity, 'f', -1, 64))
	}
	return TextMessage(strings.Join(lines, "\n"))
}

// roundHalfUp rounds .5 towards +Inf, so -2.5 becomes -2 and 2.5 becomes 3.
func roundHalfUp(f float64) int64 {
	return int64(math.Floor(f + 0.5))
}
