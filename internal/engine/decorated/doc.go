// Package decorated pairs a plain text store with a per-scalar annotation
// layer.
//
// Every line of text has a matching line of decorations with exactly one
// value per stored scalar, terminator included. Edits made through the
// Store keep both structures in lock-step, and a revision counter lets
// renderers detect staleness without comparing content.
//
// Listeners registered with Subscribe receive one Change per mutating call,
// which is how wrapped views keep their caches valid.
package decorated
