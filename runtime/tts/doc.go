// Package tts provides the text-to-speech backends used to narrate chunks.
//
// Every backend implements Service and returns raw PCM in one fixed format
// (mono, 16-bit signed little-endian, 24 kHz), so the caller can concatenate
// results without knowing which backend produced them.
//
// # Available Providers
//
//   - GeminiService: generateContent with audio response modality. Audio
//     arrives as base64 inline data parts that already hold raw PCM.
//   - OpenAIService: the /audio/speech endpoint with response_format "wav".
//     The WAV header is parsed and discarded.
//
// # Usage
//
//	cred, err := credentials.Resolve(credentials.ResolverConfig{ProviderType: credentials.ProviderGemini})
//	if err != nil {
//	    return err
//	}
//	service := tts.NewGemini(cred, tts.WithGeminiVoice("Kore"))
//	pcm, err := service.Synthesize(ctx, chunk)
//
// Errors from the backend are returned as *SynthesisError and wrap one of the
// sentinel errors (ErrRateLimited, ErrInvalidAPIKey, ...). Nothing in this
// package retries.
package tts
