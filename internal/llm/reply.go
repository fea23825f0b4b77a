package llm

import (
	"encoding/json"
	"strings"
)

// ToolCreateTask is the only tool the dispatcher currently recognizes.
const ToolCreateTask = "create_task"

// ToolCall is a structured command the model embedded in its reply.
type ToolCall struct {
	Tool   string `json:"tool"`
	Topic  string `json:"topic"`
	Course string `json:"course"`
	Reason string `json:"reason"`
}

// Reply is the tagged result of interpreting a model reply: either a plain
// conversational answer (Tool nil) or a recognized tool call.
type Reply struct {
	Text string
	Tool *ToolCall
}

// ParseReply scans a model reply for an embedded tool command. A reply counts
// as a tool call only when it carries a fenced JSON block whose payload names
// a known tool; anything else passes through as plain text.
func ParseReply(text string) Reply {
	if !strings.Contains(text, "```") {
		return Reply{Text: text}
	}

	var call ToolCall
	if err := json.Unmarshal([]byte(CleanText(text)), &call); err != nil {
		return Reply{Text: text}
	}
	if call.Tool != ToolCreateTask {
		return Reply{Text: text}
	}
	return Reply{Text: text, Tool: &call}
}
