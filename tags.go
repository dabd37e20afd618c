package main

import (
	"fmt"
	"strconv"
	"time"
)

// artResolver turns a remote artwork URL into bytes and a MIME type
type artResolver func(url string) ([]byte, string, error)

// fixTags deterministically rewrites a container's tag frames from the
// provider's canonical metadata. Synthesis is polymorphic on the container
// format; a container with no registered synthesis fails hard. Field
// extraction errors propagate to the caller.
func fixTags(c Container, p Provider, resolveArt artResolver) error {
	switch c := c.(type) {
	case *mp3Container:
		return fixID3Tags(c, p, resolveArt)
	}
	return &UnsupportedFormatError{Detail: fmt.Sprintf("no tag synthesis for %T", c)}
}

// fixID3Tags applies the canonical field sequence to an ID3v2 tag. For
// every supported non-empty field: delete all frames of the tag type, then
// write exactly one. Absent fields leave their tag types untouched, except
// the genre, which always gets at least "Podcast".
func fixID3Tags(c *mp3Container, p Provider, resolveArt artResolver) error {
	setText := func(tagType string, f Field) error {
		text, err := textField(p, f)
		if err != nil {
			return err
		}
		if text == "" {
			return nil
		}
		c.Clear(tagType)
		c.SetText(tagType, text)
		return nil
	}

	// Podcast marker, always present.
	c.Clear("PCST")
	c.SetRaw("PCST", []byte{0, 0, 0, 1})

	if p.Supports(FieldEpisodeArt) {
		v, err := p.Value(FieldEpisodeArt)
		if err != nil {
			return err
		}
		art, ok := v.(Artwork)
		if !ok {
			return fmt.Errorf("episode_art: unexpected value %T", v)
		}
		if art.Remote() {
			data, mime, err := resolveArt(art.URL)
			if err != nil {
				return fmt.Errorf("resolving episode art: %w", err)
			}
			art.Data, art.MIME = data, mime
		}
		if len(art.Data) > 0 {
			c.Clear("APIC")
			c.SetPicture(bareMIME(art.MIME), art.Data)
		}
	}

	if p.Supports(FieldEpisodeNumber) {
		v, err := p.Value(FieldEpisodeNumber)
		if err != nil {
			return err
		}
		if n, ok := v.(int); ok && n != 0 {
			c.Clear("TRCK")
			c.SetText("TRCK", strconv.Itoa(n))
		}
	}

	episodeURL, err := textField(p, FieldEpisodeURL)
	if err != nil {
		return err
	}
	if episodeURL != "" {
		c.Clear("WOAR")
		c.SetURL("WOAR", episodeURL)
	}

	if err := setText("TIT2", FieldEpisodeTitle); err != nil {
		return err
	}
	if err := setText("TIT3", FieldEpisodeSubtitle); err != nil {
		return err
	}
	if err := setText("TPE1", FieldHosts); err != nil {
		return err
	}
	if err := setText("TPE2", FieldGuests); err != nil {
		return err
	}
	if err := setText("TPE3", FieldDirectors); err != nil {
		return err
	}
	if err := setText("TPE4", FieldEditors); err != nil {
		return err
	}
	if err := setText("TPRO", FieldProducers); err != nil {
		return err
	}
	if err := setText("TPUB", FieldPublisher); err != nil {
		return err
	}

	summary, err := textField(p, FieldSummary)
	if err != nil {
		return err
	}
	if summary != "" {
		c.Clear("COMM")
		c.Clear("TDES")
		c.SetComment("eng", "Summary", summary)
		c.SetText("TDES", summary)
	}

	if err := setText("TALB", FieldAlbum); err != nil {
		return err
	}
	if err := setText("TPOS", FieldSeason); err != nil {
		return err
	}

	category, err := textField(p, FieldCategory)
	if err != nil {
		return err
	}
	if category != "" {
		c.Clear("TCAT")
		c.Clear("TCON")
		c.SetText("TCAT", category)
		c.SetText("TCON", category+", Podcast")
	} else {
		c.Clear("TCON")
		c.SetText("TCON", "Podcast")
	}

	if err := setText("TCOP", FieldCopyright); err != nil {
		return err
	}

	if p.Supports(FieldPubDate) {
		v, err := p.Value(FieldPubDate)
		if err != nil {
			return err
		}
		if ts, ok := v.(time.Time); ok && !ts.IsZero() {
			utc := ts.UTC()
			c.Clear("TDOR")
			c.Clear("TDRC")
			c.SetText("TDOR", utc.Format(time.RFC3339))
			c.SetText("TDRC", strconv.Itoa(utc.Year()))
		}
	}

	return setText("TGID", FieldEpisodeID)
}

// textField renders a supported field as text, "" when the field is
// unsupported. List values join into one comma-separated string.
func textField(p Provider, f Field) (string, error) {
	if !p.Supports(f) {
		return "", nil
	}
	v, err := p.Value(f)
	if err != nil {
		return "", err
	}
	return stringifyValue(v)
}
