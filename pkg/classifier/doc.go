// Package classifier abstracts the text-to-priority classification service
// used by the scheduler before channel selection. The call contract is a
// single Classify method mapping free text to a priority label; classification
// failures surface to the caller, which leaves the notification pending
// rather than guessing.
//
// An OpenAI-backed classifier is provided, plus a deterministic keyword
// classifier that needs no network and doubles as a degradation fallback.
package classifier
