package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Protocol-Lattice/chat-agent/src/todo"
	"github.com/Protocol-Lattice/chat-agent/src/weather"
)

type scriptedModel struct {
	reply   string
	err     error
	prompts []string
}

func (m *scriptedModel) Generate(_ context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	return m.reply, m.err
}

func newTestAgent(t *testing.T, model *scriptedModel, tools ...Tool) *Agent {
	t.Helper()
	a, err := New(Options{Model: model, Tools: tools})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return a
}

func TestProcessWeatherEndToEnd(t *testing.T) {
	model := &scriptedModel{reply: `{"tool":"get_weather","params":{"cities":"Pune"},"explanation":"weather asked","agentMessage":"Here's the weather"}`}
	tool := &stubTool{
		spec:   ToolSpec{Name: ToolGetWeather, Description: "Get weather"},
		result: []weather.Reading{{City: "Pune", Description: "clear sky", Temperature: 23.6, Humidity: 40}},
	}
	a := newTestAgent(t, model, tool)

	env, err := a.Process(context.Background(), "what's the weather in Pune")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if env.Tool != ToolGetWeather || env.Explanation != "weather asked" {
		t.Fatalf("unexpected envelope %+v", env)
	}
	if env.AgentMessage != TextMessage("Pune: clear sky with temperature of 24°C and 40% humidity") {
		t.Fatalf("unexpected message %q", env.AgentMessage)
	}
	if env.TotalDuration < env.LoadDuration || env.LoadDuration < 0 {
		t.Fatalf("expected total >= load >= 0, got total=%v load=%v", env.TotalDuration, env.LoadDuration)
	}
	if tool.calls != 1 || tool.params.String("cities") != "Pune" {
		t.Fatalf("tool should run once with the model params, calls=%d params=%v", tool.calls, tool.params)
	}
	if len(model.prompts) != 1 || !strings.HasSuffix(model.prompts[0], "User: what's the weather in Pune") {
		t.Fatalf("expected a single composed completion request, got %v", model.prompts)
	}
}

func TestProcessTodoListResult(t *testing.T) {
	model := &scriptedModel{reply: `{"tool":"get_todos","params":{},"explanation":"list","agentMessage":"Here are your tasks"}`}
	todos := []todo.Todo{{Title: "A"}, {Title: "B"}}
	a := newTestAgent(t, model, &stubTool{spec: ToolSpec{Name: ToolGetTodos}, result: todos})

	env, err := a.Process(context.Background(), "show my tasks")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if env.AgentMessage != TextMessage("You have 2 task(s) for now: [1] A, [2] B") {
		t.Fatalf("unexpected message %q", env.AgentMessage)
	}
	if got, ok := env.Result.([]todo.Todo); !ok || len(got) != 2 {
		t.Fatalf("expected raw todo result, got %#v", env.Result)
	}
}

func TestProcessRejectsEmptyPrompt(t *testing.T) {
	model := &scriptedModel{}
	a := newTestAgent(t, model)
	if _, err := a.Process(context.Background(), "   "); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if len(model.prompts) != 0 {
		t.Fatalf("model must not be called for an empty prompt")
	}
}

func TestProcessBackendFailure(t *testing.T) {
	a := newTestAgent(t, &scriptedModel{err: errors.New("connection refused")})
	_, err := a.Process(context.Background(), "hello")
	if !errors.Is(err, ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
}

func TestProcessMalformedDecision(t *testing.T) {
	tool := &stubTool{spec: ToolSpec{Name: ToolAddTodo}}
	a := newTestAgent(t, &scriptedModel{reply: "Sure, adding that now!"}, tool)
	if _, err := a.Process(context.Background(), "add milk"); !errors.Is(err, ErrMalformedDecision) {
		t.Fatalf("expected ErrMalformedDecision, got %v", err)
	}
	if tool.calls != 0 {
		t.Fatalf("no tool may run on a malformed decision")
	}
}

func TestProcessUnknownTool(t *testing.T) {
	a := newTestAgent(t, &scriptedModel{reply: `{"tool":"send_email","params":{},"explanation":"","agentMessage":""}`})
	_, err := a.Process(context.Background(), "email bob")
	if !errors.Is(err, ErrUnknownTool) || err.Error() != "Invalid tool selected: send_email" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestProcessUnregisteredKnownTool(t *testing.T) {
	a := newTestAgent(t, &scriptedModel{reply: `{"tool":"generate_image","params":{"prompt":"x"},"explanation":"","agentMessage":""}`})
	if _, err := a.Process(context.Background(), "draw"); !errors.Is(err, ErrUnknownTool) {
		t.Fatalf("expected ErrUnknownTool, got %v", err)
	}
}

func TestProcessToolFailureKeepsMessage(t *testing.T) {
	model := &scriptedModel{reply: `{"tool":"delete_todo","params":{},"explanation":"","agentMessage":""}`}
	a := newTestAgent(t, model, &stubTool{
		spec: ToolSpec{Name: ToolDeleteTodo},
		err:  errors.New("Either title or id must be provided"),
	})
	_, err := a.Process(context.Background(), "delete something")
	if !errors.Is(err, ErrToolExecutionFailed) {
		t.Fatalf("expected ErrToolExecutionFailed, got %v", err)
	}
	var toolErr *ToolError
	if !errors.As(err, &toolErr) || toolErr.Tool != ToolDeleteTodo {
		t.Fatalf("expected ToolError for delete_todo, got %v", err)
	}
	if err.Error() != "Either title or id must be provided" {
		t.Fatalf("tool message must be preserved, got %q", err.Error())
	}
}

func TestChatReturnsRawCompletion(t *testing.T) {
	model := &scriptedModel{reply: "Hello there!"}
	a := newTestAgent(t, model, &stubTool{spec: ToolSpec{Name: ToolGetTodos}})
	got, err := a.Chat(context.Background(), "hi")
	if err != nil || got != "Hello there!" {
		t.Fatalf("unexpected chat result %q %v", got, err)
	}
	if model.prompts[0] != "hi" {
		t.Fatalf("chat must forward the prompt unchanged, got %q", model.prompts[0])
	}
}

func TestNewRequiresModel(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Fatalf("expected error without a model")
	}
}
