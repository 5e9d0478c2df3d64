package dto

// UploadResponse is returned by the image upload endpoint. FilePath is the value to
// send back in an images array on submission.
type UploadResponse struct {
	Result
	FilePath string `json:"file_path,omitempty" example:"3f0c9a1e-2b8e-4e0e-9e57-1c3f4c1f7a2d.jpg"`
	FileName string `json:"file_name,omitempty" example:"certificate.jpg"`
	URL      string `json:"url,omitempty" example:"http://localhost:8000/uploads/3f0c9a1e-2b8e-4e0e-9e57-1c3f4c1f7a2d.jpg"`
}
