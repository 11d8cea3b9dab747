// Package pipeline turns CLI inputs into HTML the renderer can load.
//
// Markdown inputs go through:
//   - preprocessing (line endings, ==highlight== syntax)
//   - Goldmark conversion (GFM, footnotes, Chroma syntax highlighting)
//   - CSS injection as a <style> block
//   - rewriting of relative img/link/a paths to file:// URLs, since the
//     converted HTML is written to a temp directory far from its images
//
// HTML inputs are passed to the renderer as files and only use
// ExtractTitle. PDF generation is left to the root wkpdf package.
package pipeline
