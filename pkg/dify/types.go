package dify

const (
	// InputKey is the variable name of the workflow's start node.
	InputKey = "shuru"
	// DefaultUser identifies every request to Dify; there are no per-user sessions.
	DefaultUser = "wechat-miniprogram-user"

	ResponseModeBlocking = "blocking"
	FileTypeImage        = "image"
	TransferRemoteURL    = "remote_url"
)

// Upload is a file to send to the Dify file endpoint.
type Upload struct {
	Data        []byte
	Filename    string
	ContentType string
}

// File is the Dify file object returned by /files/upload.
// A *File returned by Client.Upload always has a non-empty ID.
type File struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Size      int64  `json:"size"`
	Extension string `json:"extension"`
	MimeType  string `json:"mime_type"`
	CreatedBy string `json:"created_by"`
	CreatedAt int64  `json:"created_at"`
}

// FileInput references an uploaded file as a workflow input variable.
type FileInput struct {
	UploadFileID   string `json:"upload_file_id"`
	Type           string `json:"type"`
	TransferMethod string `json:"transfer_method"`
}

// RunRequest is the body of /workflows/{id}/run.
type RunRequest struct {
	Inputs       map[string]FileInput `json:"inputs"`
	ResponseMode string               `json:"response_mode"`
	User         string               `json:"user"`
}

// NewRunRequest builds a blocking run request feeding file into the image input.
func NewRunRequest(file *File) RunRequest {
	return RunRequest{
		Inputs: map[string]FileInput{
			InputKey: {
				UploadFileID:   file.ID,
				Type:           FileTypeImage,
				TransferMethod: TransferRemoteURL,
			},
		},
		ResponseMode: ResponseModeBlocking,
		User:         DefaultUser,
	}
}
