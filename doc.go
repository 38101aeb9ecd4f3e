// Package lumina holds the domain model of the Lumina gallery: artworks,
// AI critiques, navigation views, and the provider interfaces that connect
// the gallery to an external generative AI service.
//
// # Gateway Capabilities
//
// Two capabilities are consumed from the AI service, and they deliberately
// follow different failure policies:
//
//   - [Critic]: vision-to-text critique. Analyze never fails. Any transport,
//     parsing, or empty-response failure degrades to [FallbackAnalysis].
//   - [Synthesizer]: text-to-image generation. Generate returns an error when
//     the call fails or no inline image is present, and never substitutes a
//     placeholder image.
//
// Callers of Analyze need no error handling; callers of Generate must surface
// failures to the user. Keep the two policies separate when changing either.
//
// # Images
//
// An [Artwork] URL is either a remote http(s) URL or a data URI. Data URIs are
// used directly (see [DataURIPayload]); remote URLs are fetched through an
// [Encoder] such as the one in the fetch package.
//
// Provider implementations live under internal/provider, the request
// lifecycles under overlay and atelier, and the HTTP server under cmd/lumina.
package lumina
