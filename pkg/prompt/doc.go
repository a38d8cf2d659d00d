// Package prompt holds the system prompt catalog for the assist endpoint.
//
// Every request category maps to a fixed instruction string that establishes
// the assistant persona and the required response structure. The catalog is
// defined at compile time and never mutated; unknown categories fall back to
// the symptom checker persona.
package prompt
