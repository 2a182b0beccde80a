package documents

import "time"

// documentResponse is the wire projection of a Document. The database id is
// exposed separately from the blob key; clients address documents by fileId.
type documentResponse struct {
	DBID         string    `json:"dbId"`
	FileID       string    `json:"fileId"`
	URL          string    `json:"url"`
	OriginalName string    `json:"originalName"`
	Size         int64     `json:"size"`
	UploadedAt   time.Time `json:"uploadedAt"`
	Analysis     *Analysis `json:"analysis,omitempty"`
}

func toResponse(doc Document) documentResponse {
	return documentResponse{
		DBID:         doc.ID,
		FileID:       doc.FileID,
		URL:          doc.FileURL,
		OriginalName: doc.FileName,
		Size:         doc.Size,
		UploadedAt:   doc.UploadedAt,
		Analysis:     doc.Analysis,
	}
}

func toResponses(docs []Document) []documentResponse {
	out := make([]documentResponse, 0, len(docs))
	for _, doc := range docs {
		out = append(out, toResponse(doc))
	}
	return out
}
