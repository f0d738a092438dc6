// Package enrich sends newly-added vocabulary terms to the Gemini linguistic
// service in bounded batches and validates the structured annotations it
// returns: stress-marked text, BGN/PCGN transliteration, English translation,
// or a spelling complaint. The service contract requires exactly one of the
// two: a record either carries all linguistic fields or a spelling issue,
// never both and never neither.
package enrich
