package main

// Field identifies one canonical metadata field in the normalized vocabulary.
// Field names double as template placeholder names in file patterns.
type Field string

const (
	FieldEpisodeID       Field = "episode_id"
	FieldEpisodeURL      Field = "episode_url"
	FieldEpisodeArt      Field = "episode_art"
	FieldEpisodeNumber   Field = "episode_number"
	FieldEpisodeTitle    Field = "episode_title"
	FieldEpisodeSubtitle Field = "episode_subtitle"
	FieldSummary         Field = "summary"
	FieldAlbum           Field = "album"
	FieldSeason          Field = "season"
	FieldCategory        Field = "category"
	FieldCopyright       Field = "copyright"
	FieldPubDate         Field = "pub_date"
	FieldHosts           Field = "hosts"
	FieldGuests          Field = "guests"
	FieldEditors         Field = "editors"
	FieldDirectors       Field = "directors"
	FieldProducers       Field = "producers"
	FieldPublisher       Field = "publisher"
)

// Artwork is episode art, either inline bytes or a remote reference that
// still has to be downloaded before embedding.
type Artwork struct {
	URL  string
	MIME string
	Data []byte
}

// Remote reports whether the artwork must be fetched before embedding.
func (a Artwork) Remote() bool {
	return len(a.Data) == 0 && a.URL != ""
}

// ProcessingStatus represents the outcome status of processing an entry
type ProcessingStatus string

const (
	StatusSuccess ProcessingStatus = "success"
	StatusSkipped ProcessingStatus = "skipped"
	StatusError   ProcessingStatus = "error"
)

// ProcessingResult tracks the outcome of processing each feed entry
type ProcessingResult struct {
	Feed     string
	Entry    string
	Status   ProcessingStatus
	Filename string
	Error    error
}
