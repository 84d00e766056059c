// Package openai implements the ai interfaces using OpenAI-compatible APIs
// via langchaingo. It works against the OpenAI API itself as well as local
// OpenAI-compatible servers (Ollama, LocalAI, vLLM).
package openai
