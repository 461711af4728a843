package helpers

import model "listing-marketplace/internal/models"

// Response DTOs
type SingleUploadResponse struct {
	Success  bool   `json:"success"`
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

type MultipleUploadResponse struct {
	Success bool          `json:"success"`
	URLs    []string      `json:"urls"`
	Files   []model.Image `json:"files"`
}

func NewMultipleUploadResponse(images []model.Image) MultipleUploadResponse {
	urls := make([]string, 0, len(images))
	for _, img := range images {
		urls = append(urls, img.URL)
	}
	if images == nil {
		images = []model.Image{}
	}
	return MultipleUploadResponse{Success: true, URLs: urls, Files: images}
}
