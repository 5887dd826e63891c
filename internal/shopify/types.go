package shopify

import "encoding/json"

// graphQLRequest is the JSON body sent to the Admin API endpoint
type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// graphQLResponse is the transport-level GraphQL envelope
type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

type graphQLError struct {
	Message string `json:"message"`
}

// userError is a user-level mutation error returned inside data
type userError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

// stagedTarget is the single-use upload destination issued by
// stagedUploadsCreate. Parameters must be replayed verbatim, in the
// order received, on the follow-up binary POST.
type stagedTarget struct {
	URL         string            `json:"url"`
	ResourceURL string            `json:"resourceUrl"`
	Parameters  []stagedParameter `json:"parameters"`
}

type stagedParameter struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type stagedUploadsCreateData struct {
	StagedUploadsCreate struct {
		StagedTargets []stagedTarget `json:"stagedTargets"`
		UserErrors    []userError    `json:"userErrors"`
	} `json:"stagedUploadsCreate"`
}

// createdFile is the typed record returned by fileCreate. A MediaImage
// exposes its URL under image.url, a GenericFile directly under url.
type createdFile struct {
	Typename string `json:"__typename"`
	ID       string `json:"id"`
	URL      string `json:"url"`
	Image    struct {
		URL string `json:"url"`
	} `json:"image"`
}

type fileCreateData struct {
	FileCreate struct {
		Files      []createdFile `json:"files"`
		UserErrors []userError   `json:"userErrors"`
	} `json:"fileCreate"`
}
