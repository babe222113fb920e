package outline

import (
	"fmt"
	"strings"

	"github.com/A-dvika/MindMaven/internal/llm"
)

const systemPrompt = `You are a mind map generator. Given a topic, produce a hierarchical outline of subtopics as JSON. Respond with JSON only, no prose, no markdown fences. Be concise: node names are short phrases, not sentences.`

const generateTemplate = `Create a mind map outline for the topic below with exactly these fields:

{
  "centralNode": "the topic itself, shortened to a few words",
  "nodes": [
    {
      "name": "subtopic name",
      "subNodes": [ { "name": "...", "subNodes": [] } ]
    }
  ]
}

Nest subNodes up to %d levels below the central node. Aim for 3-6 nodes per level. Every node must have a "name". Use an empty array for "subNodes" on leaf nodes.

Topic: %s`

// fallbackTemplate is a stricter retry prompt used when the first response
// fails to parse.
const fallbackTemplate = `Return ONLY a valid JSON object, nothing else. Schema: {"centralNode": string, "nodes": [{"name": string, "subNodes": [...]}]}. Maximum nesting depth below the central node: %d.

Topic: %s`

const expandTemplate = `A mind map about %q contains the subtopic %q (path: %s). Suggest further subtopics for it.

Respond with exactly this JSON and nothing else:

{
  "nodes": [ { "name": "subtopic name", "subNodes": [] } ]
}

Give 3-6 nodes. Every node must have a "name".`

func buildGenerateMessages(topic string, depth int) []llm.Message {
	return []llm.Message{
		{Role: llm.RoleSystem, Content: systemPrompt},
		{Role: llm.RoleUser, Content: fmt.Sprintf(generateTemplate, depth, topic)},
	}
}

func buildFallbackMessages(topic string, depth int) []llm.Message {
	return []llm.Message{
		{Role: llm.RoleSystem, Content: systemPrompt},
		{Role: llm.RoleUser, Content: fmt.Sprintf(fallbackTemplate, depth, topic)},
	}
}

func buildExpandMessages(topic, nodeName string, path []string) []llm.Message {
	return []llm.Message{
		{Role: llm.RoleSystem, Content: systemPrompt},
		{Role: llm.RoleUser, Content: fmt.Sprintf(expandTemplate, topic, nodeName, strings.Join(path, " > "))},
	}
}
