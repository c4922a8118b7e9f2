// Package metadata reads and writes tags on uploaded audio files.
package metadata

import (
	"bytes"
	"encoding/binary"

	"github.com/bogem/id3v2"
	"github.com/go-flac/go-flac"
)

// StampMP3 writes the given tag map onto an MP3 file in place.
func StampMP3(path string, tags map[string]string) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return err
	}
	defer tag.Close()

	tag.SetTitle(tags["TITLE"])
	tag.SetArtist(tags["ARTIST"])
	tag.SetAlbum(tags["ALBUM"])
	tag.SetYear(tags["DATE"])

	return tag.Save()
}

// StampFLAC manually constructs a Vorbis Comment block since go-flac is low-level.
func StampFLAC(path string, tags map[string]string) error {
	f, err := flac.ParseFile(path)
	if err != nil {
		return err
	}

	// Filter out existing VorbisComment blocks to avoid duplicates
	var newMeta []*flac.MetaDataBlock
	for _, m := range f.Meta {
		if m.Type != flac.VorbisComment {
			newMeta = append(newMeta, m)
		}
	}

	// Format: [Vendor Len][Vendor String][Comment List Len][Comment 0 Len][Comment 0 String]...
	vendor := "RhythmFlow"

	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint32(len(vendor)))
	buf.WriteString(vendor)

	validTags := 0
	for _, v := range tags {
		if v != "" {
			validTags++
		}
	}
	binary.Write(&buf, binary.LittleEndian, uint32(validTags))

	for k, v := range tags {
		if v == "" {
			continue
		}
		commentStr := k + "=" + v
		binary.Write(&buf, binary.LittleEndian, uint32(len(commentStr)))
		buf.WriteString(commentStr)
	}

	cmdb := &flac.MetaDataBlock{
		Type: flac.VorbisComment,
		Data: buf.Bytes(),
	}

	// Vorbis comments must come after StreamInfo, which sits at index 0.
	newMeta = append(newMeta, cmdb)
	f.Meta = newMeta

	return f.Save(path)
}
