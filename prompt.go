package agent

import (
	"fmt"
	"strings"
)

const decisionFormat = `When a user asks a question, analyze the request and choose the one tool that fulfils it.
Respond with a JSON object containing exactly these fields:
1. "tool": The name of the tool to use
2. "params": The parameters needed for the tool
3. "explanation": A brief explanation of why you chose this tool
4. "agentMessage": A user-friendly message summarizing what action was taken

Important:
- Weather can be fetched for several cities at once. Pass "cities" as a string for one city or as an array of strings for several.
- To add a task use the "title" parameter, never "task".
- To list tasks use the optional "search" parameter to filter by title.
- To delete a task pass either "title" or "id". When deleting by name use "title".
- When the user says a task is finished (e.g. "I am done with X", "I finished X", "X is complete"), delete that task.
- For a UPI payment QR code pass "upi_id" and "amount".
- For image generation pass "prompt" with a detailed description of the image.`

// decisionExamples covers every tool so the model learns each parameter name.
const decisionExamples = `Example responses:
{
  "tool": "get_weather",
  "params": { "cities": "London" },
  "explanation": "The user asked about weather in London",
  "agentMessage": "Here's the current weather in London"
}
{
  "tool": "get_weather",
  "params": { "cities": ["Mumbai", "Delhi", "Bangalore"] },
  "explanation": "The user asked about weather in multiple cities",
  "agentMessage": "Here's the current weather for Mumbai, Delhi, and Bangalore"
}
{
  "tool": "add_todo",
  "params": { "title": "Buy groceries" },
  "explanation": "The user requested to add a new todo task",
  "agentMessage": "Added new task: Buy groceries"
}
{
  "tool": "get_todos",
  "params": { "search": "home" },
  "explanation": "The user asked about tasks related to home, so searching for tasks containing 'home' in their title",
  "agentMessage": "Here are your tasks related to home"
}
{
  "tool": "get_todos",
  "params": {},
  "explanation": "The user requested to get all todo tasks",
  "agentMessage": "Here are your tasks"
}
{
  "tool": "delete_todo",
  "params": { "title": "Clean desk" },
  "explanation": "The user indicated they completed cleaning their desk, so removing that task",
  "agentMessage": "Task 'Clean desk' has been deleted"
}
{
  "tool": "generate_upi_qr",
  "params": { "upi_id": "omkar@ybl", "amount": 200 },
  "explanation": "The user requested to generate a UPI QR code for payment",
  "agentMessage": "Here's your UPI QR code for ₹200"
}
{
  "tool": "generate_image",
  "params": { "prompt": "A beautiful sunset over mountains" },
  "explanation": "The user requested to generate an image of a sunset",
  "agentMessage": "I'll generate an image of a beautiful sunset over mountains"
}`

// ComposePrompt builds the tool-selection instructions followed by the user's prompt.
func ComposePrompt(specs []ToolSpec, userPrompt string) string {
	var sb strings.Builder
	sb.WriteString("You are an AI assistant with access to the following tools:\n")
	for _, spec := range specs {
		sb.WriteString(fmt.Sprintf("- %s: %s\n", spec.Name, spec.Description))
	}
	sb.WriteString("\n")
	sb.WriteString(decisionFormat)
	sb.WriteString("\n\n")
	sb.WriteString(decisionExamples)
	sb.WriteString("\n\nUser: ")
	sb.WriteString(userPrompt)
	return sb.String()
}
