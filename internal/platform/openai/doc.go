// Package openai implements the generation interfaces against the
// OpenAI-compatible HTTP API, including Azure OpenAI deployments. It
// covers brief parsing, copy generation, compliance review, chat, and
// DALL-E style image generation. Authentication is either an API key
// or an Azure AD token obtained through the default credential chain.
package openai
