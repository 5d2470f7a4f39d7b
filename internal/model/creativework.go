package model

import (
	"time"

	"github.com/cayleygraph/quad"
)

// CreativeWork is a published or recorded work.
type CreativeWork struct {
	Thing

	About         []ThingStubLike
	Author        []ThingStubLike
	DateCreated   *time.Time
	DatePublished *time.Time
	InLanguage    *string
	// IsBasedOn holds bare references; the referenced works are not read.
	IsBasedOn []quad.Value
	Keywords  []string
}

// CreativeWorkLike is any entity of the CreativeWork subtree.
type CreativeWorkLike interface {
	ThingLike
	creativeWork() *CreativeWork
}

func (c *CreativeWork) creativeWork() *CreativeWork { return c }

func creativeWorkFields() []Field {
	return []Field{
		list("about", polymorphic[ThingStubLike](ThingStubKind), func(e CreativeWorkLike) *[]ThingStubLike { return &e.creativeWork().About }),
		list("author", polymorphic[ThingStubLike](ThingStubKind), func(e CreativeWorkLike) *[]ThingStubLike { return &e.creativeWork().Author }),
		optional("dateCreated", dateCodec, func(e CreativeWorkLike) **time.Time { return &e.creativeWork().DateCreated }),
		optional("datePublished", dateTimeCodec, func(e CreativeWorkLike) **time.Time { return &e.creativeWork().DatePublished }),
		optional("inLanguage", stringCodec, func(e CreativeWorkLike) **string { return &e.creativeWork().InLanguage }),
		list("isBasedOn", refCodec, func(e CreativeWorkLike) *[]quad.Value { return &e.creativeWork().IsBasedOn }),
		list("keywords", stringCodec, func(e CreativeWorkLike) *[]string { return &e.creativeWork().Keywords }),
	}
}

// MediaObject is a work carried by a media file.
type MediaObject struct {
	CreativeWork

	ContentURL     *quad.IRI
	EncodingFormat *string
	UploadDate     *time.Time
}

// MediaObjectLike is any entity of the MediaObject subtree.
type MediaObjectLike interface {
	CreativeWorkLike
	mediaObject() *MediaObject
}

func (m *MediaObject) mediaObject() *MediaObject { return m }

func mediaObjectFields() []Field {
	return []Field{
		optional("contentUrl", iriCodec, func(e MediaObjectLike) **quad.IRI { return &e.mediaObject().ContentURL }),
		optional("encodingFormat", stringCodec, func(e MediaObjectLike) **string { return &e.mediaObject().EncodingFormat }),
		optional("uploadDate", dateCodec, func(e MediaObjectLike) **time.Time { return &e.mediaObject().UploadDate }),
	}
}

// TextObject is a text document, such as meeting minutes.
type TextObject struct {
	MediaObject

	Text *string
}

func textObjectFields() []Field {
	return []Field{
		optional("text", stringCodec, func(e *TextObject) **string { return &e.Text }),
	}
}

// AudioObject is an audio recording, such as a broadcast or meeting audio.
type AudioObject struct {
	MediaObject

	Transcript *string
}

func audioObjectFields() []Field {
	return []Field{
		optional("transcript", stringCodec, func(e *AudioObject) **string { return &e.Transcript }),
	}
}

// ImageObject is an image.
type ImageObject struct {
	MediaObject

	Caption *string
}

func imageObjectFields() []Field {
	return []Field{
		optional("caption", stringCodec, func(e *ImageObject) **string { return &e.Caption }),
	}
}

// MusicRecording is a single recorded track.
type MusicRecording struct {
	CreativeWork

	ByArtist []ThingStubLike
	// Duration is an ISO-8601 duration such as PT3M20S.
	Duration *string
	IsrcCode *string
}

func musicRecordingFields() []Field {
	return []Field{
		list("byArtist", polymorphic[ThingStubLike](ThingStubKind), func(e *MusicRecording) *[]ThingStubLike { return &e.ByArtist }),
		optional("duration", stringCodec, func(e *MusicRecording) **string { return &e.Duration }),
		optional("isrcCode", stringCodec, func(e *MusicRecording) **string { return &e.IsrcCode }),
	}
}

// MusicPlaylist is an ordered list of recordings, such as a broadcast
// playlist.
type MusicPlaylist struct {
	CreativeWork

	// Tracks is positional: order is significant.
	Tracks    []*MusicRecordingStub
	NumTracks *int64
}

func musicPlaylistFields() []Field {
	return []Field{
		positional("track", embedded[*MusicRecordingStub](MusicRecordingStubKind), func(e *MusicPlaylist) *[]*MusicRecordingStub { return &e.Tracks }),
		optional("numTracks", integerCodec, func(e *MusicPlaylist) **int64 { return &e.NumTracks }),
	}
}
