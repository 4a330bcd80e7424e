// Package glyph supplies per-character glyph records to the layout pipeline.
//
// A [Source] yields the glyphs of a document page by page. Two sources are
// provided:
//
//   - [PDFSource] reads a PDF file and reports one glyph per rendered
//     character, with its rectangle in PDF user space
//   - [RecordSource] serves glyphs decoded from a record file with [Decode]
//
// Record files are JSON arrays or JSON Lines of objects with the fields
// x0, y0, x1, y1, width, height, text and page. Records
// missing a required field are rejected with an error wrapping
// [model.ErrInvalidGlyphRecord]; nothing is guessed or defaulted.
//
//	src, err := glyph.OpenPDF("report.pdf", glyph.Options{})
//	if err != nil {
//	    // handle error
//	}
//	defer src.Close()
//	pages, err := glyph.Collect(ctx, src, nil)
package glyph
