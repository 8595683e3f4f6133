// Package render turns a seed template plus substitution values into prose
// that embeds the constraint tags verbatim.
//
// What:
//
//   - Renderer: Render(ctx, Request) (string, error).
//   - Template: deterministic placeholder fill; the reference strategy.
//   - OpenAI: rewrites the template draft through a chat completion,
//     throttled by a token-bucket limiter and bounded by a timeout.
//   - Chain: primary strategy with a fallback when the primary fails or
//     drops a tag.
//   - New: builds the configured strategy.
//
// Why:
//
//   - Generation depends only on prose that preserves the injected tags,
//     never on which strategy produced it. Verify is the single check.
//
// Placeholders:
//
//   - {name} is replaced by Values["name"]; {tag} by the tokens of
//     Request.Tags. A seed without {tag} gets the tokens appended.
//
// Errors:
//
//   - ErrTagDropped: rendered text lost an embedded tag token.
//   - ErrMissingValue: a placeholder has no value.
//   - config.ErrInvalid: the configured strategy cannot be built.
package render
