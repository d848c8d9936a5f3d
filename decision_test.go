package agent

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseDecisionValid(t *testing.T) {
	raw := `  {"tool":"generate_upi_qr","params":{"upi_id":"omkar@ybl","amount":200},"explanation":"pay","agentMessage":"Here's your QR"}  `
	got, err := ParseDecision(raw)
	if err != nil {
		t.Fatalf("ParseDecision returned error: %v", err)
	}
	want := Decision{
		Tool:         ToolGenerateUPIQR,
		Params:       Params{"upi_id": "omkar@ybl", "amount": float64(200)},
		Explanation:  "pay",
		AgentMessage: "Here's your QR",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("want %+v got %+v", want, got)
	}
}

func TestParseDecisionArrayParams(t *testing.T) {
	got, err := ParseDecision(`{"tool":"get_weather","params":{"cities":["Pune","Delhi"]},"explanation":"","agentMessage":""}`)
	if err != nil {
		t.Fatalf("ParseDecision returned error: %v", err)
	}
	cities, err := got.Params.Strings("cities")
	if err != nil || !reflect.DeepEqual(cities, []string{"Pune", "Delhi"}) {
		t.Fatalf("unexpected cities %v %v", cities, err)
	}
}

func TestParseDecisionNullParams(t *testing.T) {
	got, err := ParseDecision(`{"tool":"get_todos","params":null,"explanation":"e","agentMessage":"m"}`)
	if err != nil {
		t.Fatalf("ParseDecision returned error: %v", err)
	}
	if got.Params == nil || len(got.Params) != 0 {
		t.Fatalf("expected empty params, got %#v", got.Params)
	}
}

func TestParseDecisionMalformed(t *testing.T) {
	cases := map[string]string{
		"not json":        `Sure! I will check the weather for you.`,
		"missing tool":    `{"params":{},"explanation":"e","agentMessage":"m"}`,
		"missing params":  `{"tool":"get_todos","explanation":"e","agentMessage":"m"}`,
		"missing message": `{"tool":"get_todos","params":{},"explanation":"e"}`,
		"array":           `[{"tool":"get_todos"}]`,
		"tool not string": `{"tool":3,"params":{},"explanation":"e","agentMessage":"m"}`,
		"params scalar":   `{"tool":"get_todos","params":"home","explanation":"e","agentMessage":"m"}`,
		"trailing prose":  `{"tool":"get_todos","params":{},"explanation":"e","agentMessage":"m"} Hope this helps!`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseDecision(raw); !errors.Is(err, ErrMalformedDecision) {
				t.Fatalf("expected ErrMalformedDecision, got %v", err)
			}
		})
	}
}

func TestParseDecisionUnknownTool(t *testing.T) {
	_, err := ParseDecision(`{"tool":"send_email","params":{},"explanation":"e","agentMessage":"m"}`)
	if !errors.Is(err, ErrUnknownTool) {
		t.Fatalf("expected ErrUnknownTool, got %v", err)
	}
	if errors.Is(err, ErrMalformedDecision) {
		t.Fatalf("unknown tool must not be reported as malformed")
	}
	if err.Error() != "Invalid tool selected: send_email" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestParseDecisionToolNameIsCaseSensitive(t *testing.T) {
	if _, err := ParseDecision(`{"tool":"GET_TODOS","params":{},"explanation":"e","agentMessage":"m"}`); !errors.Is(err, ErrUnknownTool) {
		t.Fatalf("expected verbatim tool matching, got %v", err)
	}
}
