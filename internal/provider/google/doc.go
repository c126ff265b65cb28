// Package google implements the chat and image provider interfaces on top
// of the Google GenAI SDK (Gemini for text, Imagen for images).
package google
