// Package anthropic implements the chat provider interface on top of the
// official Anthropic Go SDK. Anthropic does not offer image generation,
// so this provider is chat only.
package anthropic
