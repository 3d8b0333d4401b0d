// Package openai implements the ai interfaces against OpenAI-compatible
// embedding APIs (OpenAI, Ollama, LocalAI, vLLM). Outbound calls honor the
// rate limit configured on ai.Config.
package openai
