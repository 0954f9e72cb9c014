package model

type GetPhotoUploadURLRequest struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
}

type GetPhotoUploadURLResponse struct {
	UploadURL string `json:"upload_url"`
	Key       string `json:"key"`
	PhotoURL  string `json:"photo_url"`
	ExpiresAt string `json:"expires_at"`
}

type CreatePhotoRequest struct {
	Key     string `json:"key"`
	Caption string `json:"caption"`
}

type CreatePhotoResponse struct {
	Photo      Photo `json:"photo"`
	Points     int64 `json:"points"`
	NewTickets int   `json:"new_tickets"`
}

type GetPhotosRequest struct {
	Offset int `form:"offset"`
	Limit  int `form:"limit"`
}

type GetPhotosResponse struct {
	Photos []Photo `json:"photos"`
	Total  int64   `json:"total"`
}

type GetPhotoRequest struct {
	ID string `uri:"id" form:"-"`
}

type GetPhotoResponse struct {
	Photo Photo `json:"photo"`
}

type GetPhotoCommentsRequest struct {
	PhotoID string `uri:"id" form:"-"`
}

type GetPhotoCommentsResponse struct {
	Comments []PhotoComment `json:"comments"`
}

type CreatePhotoCommentRequest struct {
	PhotoID string `uri:"id" json:"-"`
	Text    string `json:"text"`
}

type CreatePhotoCommentResponse struct {
	Comment PhotoComment `json:"comment"`
}
