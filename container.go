package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	id3v2 "github.com/bogem/id3v2/v2"
)

// Container is a parsed audio container: mutable tag frames plus the
// untouched audio payload. Concrete containers expose format-specific frame
// mutators; tag synthesis dispatches on the concrete type.
type Container interface {
	// MIMETypes lists the container's declared MIME types, most specific
	// first.
	MIMETypes() []string
	// WriteTo serializes the rewritten tag followed by the audio payload.
	WriteTo(w io.Writer) (int64, error)
}

// containerFormat pairs a header sniffer with an opener, mirroring a
// handler chain: the first format whose sniff accepts the header opens the
// file.
type containerFormat struct {
	name  string
	sniff func(header []byte) bool
	open  func(f *os.File, header []byte) (Container, error)
}

var containerFormats = []containerFormat{
	{name: "mp3", sniff: sniffMP3, open: openMP3},
}

// parseContainer detects the format of the spill file and opens it. An
// unmatched payload is a hard failure, never a silent passthrough.
func parseContainer(f *os.File) (Container, error) {
	header := make([]byte, 10)
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("reading container header: %w", err)
	}
	header = header[:n]

	for _, format := range containerFormats {
		if format.sniff(header) {
			return format.open(f, header)
		}
	}
	return nil, &UnsupportedFormatError{Detail: fmt.Sprintf("unrecognized header %x", header)}
}

// sniffMP3 accepts an ID3v2 tag or a bare MPEG frame sync
func sniffMP3(header []byte) bool {
	if bytes.HasPrefix(header, []byte("ID3")) {
		return true
	}
	return len(header) >= 2 && header[0] == 0xff && header[1]&0xe0 == 0xe0
}

// mp3Container wraps an ID3v2 tag plus the offset where the audio payload
// begins in the source file.
type mp3Container struct {
	tag   *id3v2.Tag
	src   *os.File
	start int64
}

func openMP3(f *os.File, header []byte) (Container, error) {
	start := int64(0)
	if bytes.HasPrefix(header, []byte("ID3")) && len(header) >= 10 {
		// 10-byte header plus synchsafe tag size, plus a footer when
		// flagged.
		start = 10 + synchsafe(header[6:10])
		if header[5]&0x10 != 0 {
			start += 10
		}
	}

	var tag *id3v2.Tag
	if start > 0 {
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("rewinding audio buffer: %w", err)
		}
		parsed, err := id3v2.ParseReader(f, id3v2.Options{Parse: true})
		if err != nil {
			return nil, fmt.Errorf("parsing ID3 tag: %w", err)
		}
		tag = parsed
	} else {
		tag = id3v2.NewEmptyTag()
	}
	tag.SetVersion(4)

	return &mp3Container{tag: tag, src: f, start: start}, nil
}

func synchsafe(b []byte) int64 {
	return int64(b[0]&0x7f)<<21 | int64(b[1]&0x7f)<<14 | int64(b[2]&0x7f)<<7 | int64(b[3]&0x7f)
}

func (c *mp3Container) MIMETypes() []string {
	return []string{"audio/mpeg", "audio/mp3"}
}

// Clear removes all frames of the given tag type
func (c *mp3Container) Clear(tagType string) {
	c.tag.DeleteFrames(tagType)
}

// SetText writes one text frame of the given tag type
func (c *mp3Container) SetText(tagType, text string) {
	c.tag.AddTextFrame(tagType, id3v2.EncodingUTF8, text)
}

// SetURL writes one URL link frame
func (c *mp3Container) SetURL(tagType, url string) {
	c.tag.AddFrame(tagType, id3v2.UnknownFrame{Body: []byte(url)})
}

// SetRaw writes one frame with a verbatim body
func (c *mp3Container) SetRaw(tagType string, body []byte) {
	c.tag.AddFrame(tagType, id3v2.UnknownFrame{Body: body})
}

// SetComment writes one comment frame
func (c *mp3Container) SetComment(lang, desc, text string) {
	c.tag.AddFrame("COMM", id3v2.CommentFrame{
		Encoding:    id3v2.EncodingUTF8,
		Language:    lang,
		Description: desc,
		Text:        text,
	})
}

// SetPicture writes one attached picture frame
func (c *mp3Container) SetPicture(mime string, data []byte) {
	c.tag.AddFrame("APIC", id3v2.PictureFrame{
		Encoding:    id3v2.EncodingUTF8,
		MimeType:    mime,
		PictureType: id3v2.PTFrontCover,
		Description: "Track",
		Picture:     data,
	})
}

func (c *mp3Container) WriteTo(w io.Writer) (int64, error) {
	n, err := c.tag.WriteTo(w)
	if err != nil {
		return n, fmt.Errorf("writing ID3 tag: %w", err)
	}
	if _, err := c.src.Seek(c.start, io.SeekStart); err != nil {
		return n, fmt.Errorf("seeking audio payload: %w", err)
	}
	copied, err := io.Copy(w, c.src)
	n += copied
	if err != nil {
		return n, fmt.Errorf("writing audio payload: %w", err)
	}
	return n, nil
}
