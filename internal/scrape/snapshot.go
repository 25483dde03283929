package scrape

import (
	"bytes"
	"mime"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/text/encoding/charmap"
)

// blockTags are HTML elements that terminate a snapshot line. Table rows
// map to lines so that anchored extraction sees one labelled value per
// line, matching how the firmware lays out its status tables.
var blockTags = map[string]bool{
	"br":    true,
	"div":   true,
	"h1":    true,
	"h2":    true,
	"h3":    true,
	"li":    true,
	"p":     true,
	"table": true,
	"title": true,
	"tr":    true,
}

// skippedTags are elements whose text content never holds metric data.
var skippedTags = map[string]bool{
	"script": true,
	"style":  true,
}

// Snapshot converts a raw HTML body into a line-oriented text snapshot.
//
// The firmware serves French pages encoded as ISO-8859-1, so the body is
// decoded to UTF-8 first; otherwise strings like "Connecté" and the "°C"
// unit would not match. Block-level elements break lines, cell text
// within a row is joined with single spaces, and script/style content is
// dropped. Element ids join the line text: some values are labelled only
// by a markup id (the connection page marks its state cell
// <span id="conn_state">), so anchors must see ids alongside the
// display text.
//
// Design decision: We tokenize with golang.org/x/net/html rather than
// regex-stripping tags because:
//  1. The tokenizer handles the firmware's malformed markup correctly
//  2. Text nodes come out already entity-decoded (&deg; etc.)
//  3. Line boundaries follow the document structure, not tag spelling
func Snapshot(body []byte, contentType string) string {
	body = decodeCharset(body, contentType)

	var (
		sb        strings.Builder
		line      strings.Builder
		skipDepth int
	)

	flushLine := func() {
		if line.Len() == 0 {
			return
		}
		sb.WriteString(line.String())
		sb.WriteByte('\n')
		line.Reset()
	}

	z := html.NewTokenizer(bytes.NewReader(body))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			// io.EOF or malformed tail; either way the snapshot is done.
			flushLine()
			return sb.String()
		case html.TextToken:
			if skipDepth > 0 {
				continue
			}
			text := strings.TrimSpace(string(z.Text()))
			if text == "" {
				continue
			}
			if line.Len() > 0 {
				line.WriteByte(' ')
			}
			line.WriteString(text)
		case html.StartTagToken, html.SelfClosingTagToken, html.EndTagToken:
			name, hasAttr := z.TagName()
			tag := string(name)
			if skippedTags[tag] {
				// Start and end tags arrive separately; track depth so
				// malformed nesting stays skipped.
				switch tt {
				case html.StartTagToken:
					skipDepth++
				case html.EndTagToken:
					if skipDepth > 0 {
						skipDepth--
					}
				}
				continue
			}
			if blockTags[tag] {
				flushLine()
			}
			if hasAttr && skipDepth == 0 {
				if id := attrValue(z, "id"); id != "" {
					if line.Len() > 0 {
						line.WriteByte(' ')
					}
					line.WriteString(id)
				}
			}
		}
	}
}

// attrValue returns the named attribute of the tag under the tokenizer's
// cursor, or empty when absent. Must be called right after TagName.
func attrValue(z *html.Tokenizer, name string) string {
	for {
		key, val, more := z.TagAttr()
		if string(key) == name {
			return string(val)
		}
		if !more {
			return ""
		}
	}
}

// decodeCharset decodes the body to UTF-8.
// The declared charset wins; absent a declaration, bytes that are not
// valid UTF-8 are assumed to be ISO-8859-1 (the firmware default).
func decodeCharset(body []byte, contentType string) []byte {
	charset := ""
	if contentType != "" {
		if _, params, err := mime.ParseMediaType(contentType); err == nil {
			charset = strings.ToLower(params["charset"])
		}
	}

	switch charset {
	case "utf-8", "utf8":
		return body
	case "iso-8859-1", "iso8859-1", "latin1", "windows-1252":
		return latin1ToUTF8(body)
	}

	if utf8.Valid(body) {
		return body
	}
	return latin1ToUTF8(body)
}

// latin1ToUTF8 decodes ISO-8859-1 bytes. The decoder cannot fail on
// Latin-1 input (every byte maps to a rune), so errors fall back to the
// original bytes.
func latin1ToUTF8(body []byte) []byte {
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(body)
	if err != nil {
		return body
	}
	return decoded
}
