package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	agent "github.com/Protocol-Lattice/chat-agent"
	"github.com/Protocol-Lattice/chat-agent/src/imagegen"
	"github.com/Protocol-Lattice/chat-agent/src/todo"
	"github.com/Protocol-Lattice/chat-agent/src/tools"
	"github.com/Protocol-Lattice/chat-agent/src/weather"
)

type scriptedModel struct {
	reply string
	err   error
}

func (m *scriptedModel) Generate(_ context.Context, prompt string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	if !strings.Contains(prompt, "User: ") {
		return "plain: " + prompt, nil
	}
	return m.reply, nil
}

type fakeImages struct {
	image string
	err   error
}

func (f *fakeImages) Generate(context.Context, string) (string, error) { return f.image, f.err }

func newWeatherServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/weather" || r.URL.Query().Get("units") != "metric" {
			http.NotFound(w, r)
			return
		}
		city := r.URL.Query().Get("q")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"name":    city,
			"main":    map[string]any{"temp": 23.6, "humidity": 40},
			"weather": []map[string]any{{"description": "clear sky"}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestRouter(t *testing.T, model *scriptedModel, images imagegen.Generator) http.Handler {
	t.Helper()
	weatherSrv := newWeatherServer(t)
	a, err := agent.New(agent.Options{
		Model: model,
		Tools: tools.Registry(tools.Deps{
			Todos:   todo.NewInMemoryStore(),
			Weather: weather.NewClient(weatherSrv.URL, "test-key"),
			Images:  images,
		}),
	})
	if err != nil {
		t.Fatalf("agent.New: %v", err)
	}
	return NewRouter(a, images, Config{MaxRequestBodyBytes: 4096})
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestAgentEndpointWeatherDeepSearch(t *testing.T) {
	model := &scriptedModel{reply: `{"tool":"get_weather","params":{"cities":"Pune"},"explanation":"weather","agentMessage":"Here's the weather in Pune"}`}
	h := newTestRouter(t, model, nil)

	rec := post(t, h, "/api/agent", `{"prompt":"what's the weather in Pune","useDeepSearch":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d body %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["tool"] != "get_weather" {
		t.Fatalf("unexpected tool %v", body["tool"])
	}
	if body["agentMessage"] != "Pune: clear sky with temperature of 24°C and 40% humidity" {
		t.Fatalf("unexpected agentMessage %v", body["agentMessage"])
	}
	result, ok := body["result"].([]any)
	if !ok || len(result) != 1 {
		t.Fatalf("expected one reading, got %v", body["result"])
	}
	total, _ := body["total_duration"].(float64)
	load, _ := body["load_duration"].(float64)
	if total < load || load < 0 {
		t.Fatalf("expected total >= load >= 0, got %v %v", total, load)
	}
}

func TestAgentEndpointQRCodeEnvelope(t *testing.T) {
	model := &scriptedModel{reply: `{"tool":"generate_upi_qr","params":{"upi_id":"omkar@ybl","amount":200},"explanation":"qr","agentMessage":"Here's your QR"}`}
	rec := post(t, newTestRouter(t, model, nil), "/api/agent", `{"prompt":"qr for 200 to omkar@ybl","useDeepSearch":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d body %s", rec.Code, rec.Body.String())
	}
	msg, ok := decodeBody(t, rec)["agentMessage"].(map[string]any)
	if !ok || msg["type"] != "qr-code" || msg["loading"] != true {
		t.Fatalf("expected rich qr-code message, got %v", msg)
	}
	data := msg["data"].(map[string]any)
	if data["amount"] != float64(200) || !strings.HasPrefix(data["qrCode"].(string), "data:image/png;base64,") {
		t.Fatalf("unexpected qr data %v", data)
	}
}

func TestAgentEndpointPlainChat(t *testing.T) {
	rec := post(t, newTestRouter(t, &scriptedModel{}, nil), "/api/agent", `{"prompt":"hello"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["agentMessage"] != "plain: hello" || body["explanation"] != chatExplanation {
		t.Fatalf("unexpected chat body %v", body)
	}
}

func TestAgentEndpointPlainChatBackendFailure(t *testing.T) {
	rec := post(t, newTestRouter(t, &scriptedModel{err: errors.New("dial tcp: connection refused")}, nil), "/api/agent", `{"prompt":"hello","useDeepSearch":false}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("chat failures must degrade to 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["agentMessage"] != backendApology || body["explanation"] != "Error connecting to Ollama API" {
		t.Fatalf("unexpected chat body %v", body)
	}
}

func TestAgentEndpointErrors(t *testing.T) {
	cases := []struct {
		name    string
		model   *scriptedModel
		body    string
		status  int
		message string
	}{
		{"missing prompt", &scriptedModel{}, `{"useDeepSearch":true}`, http.StatusBadRequest, "Prompt is required"},
		{"invalid json", &scriptedModel{}, `{"prompt":`, http.StatusBadRequest, ""},
		{"backend down", &scriptedModel{err: errors.New("refused")}, `{"prompt":"x","useDeepSearch":true}`, http.StatusServiceUnavailable, backendApology},
		{"malformed", &scriptedModel{reply: "I think you want the weather"}, `{"prompt":"x","useDeepSearch":true}`, http.StatusBadGateway, ""},
		{"unknown tool", &scriptedModel{reply: `{"tool":"book_flight","params":{},"explanation":"","agentMessage":""}`}, `{"prompt":"x","useDeepSearch":true}`, http.StatusBadGateway, "Invalid tool selected: book_flight"},
		{"tool failure", &scriptedModel{reply: `{"tool":"delete_todo","params":{},"explanation":"","agentMessage":""}`}, `{"prompt":"x","useDeepSearch":true}`, http.StatusInternalServerError, "Either title or id must be provided"},
		{"too large", &scriptedModel{}, `{"prompt":"` + strings.Repeat("a", 5000) + `"}`, http.StatusRequestEntityTooLarge, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := post(t, newTestRouter(t, tc.model, nil), "/api/agent", tc.body)
			if rec.Code != tc.status {
				t.Fatalf("status: want %d got %d body %s", tc.status, rec.Code, rec.Body.String())
			}
			body := decodeBody(t, rec)
			if body["code"] == nil || body["message"] == nil {
				t.Fatalf("expected message and code, got %v", body)
			}
			if tc.message != "" && body["message"] != tc.message {
				t.Fatalf("message: want %q got %v", tc.message, body["message"])
			}
		})
	}
}

func TestAgentEndpointRejectsOtherMethods(t *testing.T) {
	h := newTestRouter(t, &scriptedModel{}, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/agent", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestImageEndpointSuccess(t *testing.T) {
	images := &fakeImages{image: "data:image/jpeg;base64,AA"}
	rec := post(t, newTestRouter(t, &scriptedModel{}, images), "/api/generate-image", `{"prompt":"a cat"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["success"] != true || body["image"] != images.image {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestImageEndpointWithoutCredentialsMakesNoCall(t *testing.T) {
	var calls atomic.Int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer upstream.Close()

	gen := imagegen.NewHuggingFaceGenerator("", upstream.URL, time.Second)
	rec := post(t, newTestRouter(t, &scriptedModel{}, gen), "/api/generate-image", `{"prompt":"a cat"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "API key configuration error" {
		t.Fatalf("unexpected body %v", body)
	}
	if calls.Load() != 0 {
		t.Fatalf("no upstream call may be made without credentials")
	}
}

func TestImageEndpointErrorMapping(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"timeout", imagegen.ErrTimeout, http.StatusGatewayTimeout, "Request timed out after 30 seconds"},
		{"upstream", &imagegen.StatusError{StatusCode: http.StatusServiceUnavailable, Body: "model loading"}, http.StatusServiceUnavailable, "API Error: 503 - model loading"},
		{"other", errors.New("socket closed"), http.StatusInternalServerError, "socket closed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := post(t, newTestRouter(t, &scriptedModel{}, &fakeImages{err: tc.err}), "/api/generate-image", `{"prompt":"a cat"}`)
			if rec.Code != tc.status {
				t.Fatalf("status: want %d got %d", tc.status, rec.Code)
			}
			if body := decodeBody(t, rec); body["error"] != tc.message {
				t.Fatalf("error: want %q got %v", tc.message, body["error"])
			}
		})
	}
}

func TestImageEndpointRequiresPrompt(t *testing.T) {
	rec := post(t, newTestRouter(t, &scriptedModel{}, &fakeImages{}), "/api/generate-image", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "Prompt is required" {
		t.Fatalf("unexpected body %v", body)
	}
}
