// Package gemini implements the generation interfaces using Google's
// Gemini API through the google.golang.org/genai SDK. It covers brief
// parsing, marketing copy generation, compliance review, and chat.
// Image generation is served by the openai package regardless of the
// configured text provider.
package gemini
