// Package openai implements the chat and image provider interfaces on top
// of the official OpenAI Go SDK (GPT for text, DALL-E/gpt-image for images).
package openai
