// Package generation defines the boundary between the application core
// and external AI services. It declares the interfaces for brief
// parsing, copy and image generation, compliance review, and chat,
// along with the error taxonomy and retry policy shared by the
// provider implementations.
package generation
