package vpapi

// Video is one entry of a list or related response.
type Video struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Duration      int      `json:"duration,omitempty"`
	PreviewImages []string `json:"previewImages"`
	PerformerID   string   `json:"performerId,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	TargetURL     string   `json:"targetUrl,omitempty"`
}

// Pagination describes where a list response sits in the full result.
type Pagination struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	Count       int `json:"count,omitempty"`
	Total       int `json:"total,omitempty"`
}

// ListResponse is the payload of the list and related endpoints.
type ListResponse struct {
	Videos     []Video    `json:"videos"`
	Pagination Pagination `json:"pagination"`
}

// Details is the payload of the details endpoint.
type Details struct {
	ID                string   `json:"id"`
	Title             string   `json:"title"`
	PerformerID       string   `json:"performerId"`
	Tags              []string `json:"tags"`
	PreviewImages     []string `json:"previewImages,omitempty"`
	PlayerEmbedScript string   `json:"playerEmbedScript"`
}

// ListParams are the parameters of List. Zero values are left out of the
// request or replaced by the documented default.
type ListParams struct {
	Page              int // defaults to 1
	Limit             int
	SexualOrientation string // defaults to "straight"
	PrimaryColor      string // defaults to "ff9900"
	LabelColor        string // defaults to "000"
	Tags              []string
}

// RelatedParams are the parameters of Related.
type RelatedParams struct {
	ID    string
	Page  int // defaults to 1
	Limit int
}

// DetailsParams are the parameters of Details.
type DetailsParams struct {
	VideoID      string
	PrimaryColor string // defaults to "ff9900"
	LabelColor   string // defaults to "000"
}

// Defaults applied to requests.
const (
	DefaultBaseURL           = "https://pt.protoawe.com/api/video-promotion/v1"
	DefaultSexualOrientation = "straight"
	DefaultPrimaryColor      = "ff9900"
	DefaultLabelColor        = "000"
)

// envelope is the outer shape of every response.
type envelope[T any] struct {
	Data T `json:"data"`
}

type tagsPayload struct {
	Tags []string `json:"tags"`
}
